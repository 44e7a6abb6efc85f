package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/products_api/internal/identity"
	"github.com/Skotchmaster/products_api/internal/logging"
	"github.com/Skotchmaster/products_api/internal/service"
	"github.com/Skotchmaster/products_api/internal/transport"
)

type AccountHTTP struct {
	Svc *service.AccountService
}

func (h *AccountHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Register(ctx, req)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "store error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "register failed")
	}
	if !res.Succeeded {
		l.Warn("register_failed", "status", 400, "reason", "validation", "errors", len(res.Errors))
		return c.JSON(http.StatusBadRequest, res.Errors)
	}

	l.Info("register_success", "username", req.Username, "is_admin", req.IsAdmin)
	return c.JSON(http.StatusOK, transport.RegisterResponse{Succeeded: true})
}

func (h *AccountHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	token, err := h.Svc.Login(ctx, req)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "reason", "invalid credentials", "username", req.Username)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		}
		l.Error("login_failed", "status", 500, "reason", "login error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	l.Info("login_success", "username", req.Username)
	return c.JSON(http.StatusOK, transport.LoginResponse{Token: token})
}
