// app/echoServer/middleware.go
package echoServer

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"booklend/util/token"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func RegisterMiddlewares(e *echo.Echo) {

	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))

	e.Use(Slog())
}

func Slog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			lat := time.Since(start).Milliseconds()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			slog.Info("http",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", lat,
				"req_id", rid,
				"ip", c.RealIP(),
			)
			return err
		}
	}
}

// JWTAuth verifies the Bearer credential and stores the identity in the
// request context. Failures short-circuit with 401 before any handler runs.
func JWTAuth(tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := strings.TrimSpace(c.Request().Header.Get("Authorization"))
			if h == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}
			if !strings.HasPrefix(strings.ToLower(h), "bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}
			raw := strings.TrimSpace(h[7:])

			claims, err := tokens.Verify(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}

			c.Set("user_id", claims.UserID)
			c.Set("email", claims.Email)
			c.Set("username", claims.Username)
			return next(c)
		}
	}
}
