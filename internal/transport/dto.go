package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/products_api/internal/models"
)

// ProductRequest is the body of create and replace calls. ID is optional on
// create and must match the path id on replace.
type ProductRequest struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
}

func (r ProductRequest) Product() models.Product {
	return models.Product{
		ID:            r.ID,
		Name:          r.Name,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
	}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Succeeded bool `json:"succeeded"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type SearchResponse struct {
	Total    int64            `json:"total"`
	Products []models.Product `json:"products"`
}
