package mykafka

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventProductCreated = "product_created"
	EventProductUpdated = "product_updated"
	EventProductDeleted = "product_deleted"
	EventUserRegistered = "user_registered"
	EventUserLoggedIn   = "user_logged_in"
)

type ProductEvent struct {
	Type          string          `json:"type"`
	ProductID     int             `json:"productId"`
	Name          string          `json:"name,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

type UserEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"username"`
	IsAdmin    bool      `json:"isAdmin,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
