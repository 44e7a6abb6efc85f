package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/products_api/internal/logging"
	"github.com/Skotchmaster/products_api/internal/repo"
	"github.com/Skotchmaster/products_api/internal/service"
	"github.com/Skotchmaster/products_api/internal/transport"
	"github.com/Skotchmaster/products_api/internal/util"
)

type ProductsHTTP struct {
	Svc *service.CatalogService
}

// parseID reads the :id segment. echo lets a trailing param swallow the rest
// of the path, so a value with a slash is an unknown route rather than a bad id.
func parseID(c echo.Context) (int, *echo.HTTPError) {
	raw := c.Param("id")
	if strings.Contains(raw, "/") {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}
	return id, nil
}

func (h *ProductsHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	items, err := h.Svc.ListProducts(ctx)
	if err != nil {
		l.Error("get_products_failed", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductsHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, he := parseID(c)
	if he != nil {
		l.Warn("get_product_failed", "status", he.Code, "reason", he.Message, "id", c.Param("id"))
		return he
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			l.Warn("get_product_failed", "status", 404, "reason", "product not found", "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_failed", "status", 500, "reason", "cannot get product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductsHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	created, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_product_failed", "status", 400, "reason", "validation", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, repo.ErrDuplicateProduct) {
			l.Warn("create_product_failed", "status", 400, "reason", "id already exists", "product_id", req.ID)
			return echo.NewHTTPError(http.StatusBadRequest, "product id already exists")
		}
		l.Error("create_product_failed", "status", 500, "reason", "cannot add product to db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add product to db")
	}

	l.Info("create_product_success", "product_id", created.ID)
	c.Response().Header().Set(echo.HeaderLocation, "/api/products/"+strconv.Itoa(created.ID))
	return c.JSON(http.StatusCreated, created)
}

func (h *ProductsHTTP) ReplaceProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.replace_product")

	id, he := parseID(c)
	if he != nil {
		l.Warn("replace_product_failed", "status", he.Code, "reason", he.Message, "id", c.Param("id"))
		return he
	}

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("replace_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.ReplaceProduct(ctx, id, req); err != nil {
		switch {
		case errors.Is(err, service.ErrIDMismatch):
			l.Warn("replace_product_failed", "status", 400, "reason", "id mismatch", "product_id", id, "body_id", req.ID)
			return echo.NewHTTPError(http.StatusBadRequest, "id mismatch")
		case errors.Is(err, service.ErrValidation):
			l.Warn("replace_product_failed", "status", 400, "reason", "validation", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, repo.ErrProductNotFound):
			l.Warn("replace_product_failed", "status", 404, "reason", "product not found", "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		default:
			l.Error("replace_product_failed", "status", 500, "reason", "cannot update product", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
		}
	}

	l.Info("replace_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductsHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, he := parseID(c)
	if he != nil {
		l.Warn("delete_product_failed", "status", he.Code, "reason", he.Message, "id", c.Param("id"))
		return he
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			l.Warn("delete_product_failed", "status", 404, "reason", "product not found", "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("delete_product_failed", "status", 500, "reason", "cannot delete product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete product")
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductsHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search_products")

	q := c.QueryParam("q")
	if q == "" {
		l.Warn("search_products_failed", "status", 400, "reason", "empty query")
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, size := util.Calculate(page, size)

	total, items, err := h.Svc.SearchProducts(ctx, q, from, size)
	if err != nil {
		if errors.Is(err, service.ErrSearchDisabled) {
			l.Warn("search_products_failed", "status", 503, "reason", "search disabled")
			return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not available")
		}
		l.Error("search_products_failed", "status", 500, "reason", "search error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search error")
	}
	return c.JSON(http.StatusOK, transport.SearchResponse{Total: total, Products: items})
}
