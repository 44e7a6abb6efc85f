package middleware

import (
	"context"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/products_api/internal/logging"
	"github.com/Skotchmaster/products_api/internal/tokens"
)

const UserContextKey = "user"

type TokenParser interface {
	Parse(tokenStr string) (*tokens.Claims, error)
}

type RoleChecker interface {
	IsInRole(ctx context.Context, userID, roleName string) (bool, error)
}

// RequireAuth accepts only requests carrying a valid bearer token and stores
// the parsed claims under UserContextKey.
func RequireAuth(parser TokenParser) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  UserContextKey,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (any, error) {
			return parser.Parse(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logging.FromContext(c.Request().Context()).
				Warn("auth_rejected", "status", http.StatusUnauthorized, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		},
	})
}

// RequireRole must run after RequireAuth. Membership is looked up in the store
// by the token's user id.
func RequireRole(checker RoleChecker, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			log := logging.FromContext(ctx).With("middleware", "require_role", "role", role)

			claims, ok := c.Get(UserContextKey).(*tokens.Claims)
			if !ok || claims.NameID == "" {
				log.Warn("role_check_failed", "status", http.StatusUnauthorized, "reason", "no_claims")
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			in, err := checker.IsInRole(ctx, claims.NameID, role)
			if err != nil {
				log.Error("role_check_failed", "status", http.StatusInternalServerError, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "role lookup failed")
			}
			if !in {
				log.Warn("role_check_failed", "status", http.StatusForbidden, "reason", "not_in_role", "user", claims.Subject)
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
