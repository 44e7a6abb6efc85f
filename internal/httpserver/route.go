package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/products_api/internal/db"
	"github.com/Skotchmaster/products_api/internal/identity"
	"github.com/Skotchmaster/products_api/internal/logging"
	"github.com/Skotchmaster/products_api/internal/metrics"
	"github.com/Skotchmaster/products_api/internal/middleware"
	"github.com/Skotchmaster/products_api/internal/tokens"
)

type Deps struct {
	ProductsHandler *ProductsHTTP
	AccountHandler  *AccountHTTP
	Tokens          *tokens.Issuer
	Roles           middleware.RoleChecker
	DB              *gorm.DB
	Metrics         *metrics.Metrics
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx, d.DB); err != nil {
			logging.FromContext(ctx).Warn("readiness_failed", "status", 503, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", d.Metrics.Handler())
	}

	api := e.Group("/api")

	account := api.Group("/account")
	account.POST("/register", d.AccountHandler.Register)
	account.POST("/login", d.AccountHandler.Login)

	products := api.Group("/products")
	products.GET("", d.ProductsHandler.GetProducts)
	products.GET("/search", d.ProductsHandler.SearchProducts)
	products.GET("/:id", d.ProductsHandler.GetProduct)

	admin := products.Group("",
		middleware.RequireAuth(d.Tokens),
		middleware.RequireRole(d.Roles, identity.RoleAdmin),
	)
	admin.POST("", d.ProductsHandler.CreateProduct)
	admin.PUT("/:id", d.ProductsHandler.ReplaceProduct)
	admin.DELETE("/:id", d.ProductsHandler.DeleteProduct)
}
