package models

import "github.com/shopspring/decimal"

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID            int             `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name          string          `gorm:"not null"                   json:"name"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	StockQuantity int             `gorm:"not null;default:0"         json:"stockQuantity"`
}

type User struct {
	ID                 string `gorm:"primaryKey;size:36"        json:"id"`
	UserName           string `gorm:"size:256;not null"         json:"userName"`
	NormalizedUserName string `gorm:"size:256;uniqueIndex"      json:"-"`
	Email              string `gorm:"size:256"                  json:"email"`
	PasswordHash       string `gorm:"not null"                  json:"-"`
}

type Role struct {
	ID             string `gorm:"primaryKey;size:36"   json:"id"`
	Name           string `gorm:"size:256;not null"    json:"name"`
	NormalizedName string `gorm:"size:256;uniqueIndex" json:"-"`
}

type UserRole struct {
	UserID string `gorm:"primaryKey;size:36"`
	RoleID string `gorm:"primaryKey;size:36"`
}

// All lists every model the schema migration manages.
func All() []any {
	return []any{&Product{}, &User{}, &Role{}, &UserRole{}}
}
