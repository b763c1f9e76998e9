package router

import (
	"log/slog"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"househunt/internal/auth"
	"househunt/internal/config"
	"househunt/internal/guard"
	"househunt/internal/handler"
	"househunt/internal/notify"
	"househunt/internal/session"
	"househunt/internal/storage"
)

// DeviceCookieName is the cookie carrying the signed device token.
const DeviceCookieName = "hh_device"

const contextKeyDeviceClaims = "device"

// RequestLogger logs one structured line per request.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			attrs := []any{
				"request_id", res.Header().Get(echo.HeaderXRequestID),
				"method", req.Method,
				"path", req.URL.Path,
				"status", res.Status,
				"latency_ms", time.Since(start).Milliseconds(),
			}
			if id := handler.DeviceIDOf(c); id != "" {
				attrs = append(attrs, "device_id", id)
			}
			switch {
			case res.Status >= http.StatusInternalServerError:
				logger.Error("request", attrs...)
			case res.Status >= http.StatusBadRequest:
				logger.Warn("request", attrs...)
			default:
				logger.Info("request", attrs...)
			}
			return nil
		}
	}
}

// DeviceCookie validates the device cookie. A missing or invalid cookie is
// not an error: EnsureDevice issues a new one.
func DeviceCookie(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + DeviceCookieName,
		ContextKey:  contextKeyDeviceClaims,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateDeviceToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
		ContinueOnIgnoredError: true,
	})
}

// EnsureDevice resolves the device of the request, issuing a fresh device
// cookie when the browser has none.
func EnsureDevice(jwtService *auth.JWTService, cfg *config.Config, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, ok := c.Get(contextKeyDeviceClaims).(*auth.DeviceClaims); ok && claims.DeviceID != "" {
				c.Set(handler.ContextKeyDeviceID, claims.DeviceID)
				return next(c)
			}

			deviceID := auth.NewDeviceID()
			token, err := jwtService.GenerateDeviceToken(deviceID)
			if err != nil {
				logger.Error("issue device token", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to identify device")
			}
			c.SetCookie(&http.Cookie{
				Name:     DeviceCookieName,
				Value:    token,
				Path:     "/",
				Expires:  time.Now().Add(auth.DeviceTokenExpiry),
				HttpOnly: true,
				Secure:   cfg.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(handler.ContextKeyDeviceID, deviceID)
			return next(c)
		}
	}
}

// RestoreSession loads the device's session for the request.
func RestoreSession(devices storage.Provider, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			deviceID := handler.DeviceIDOf(c)
			store := session.NewStore(devices.ForDevice(deviceID), logger.With("device_id", deviceID))
			store.Restore(c.Request().Context())

			c.Set(handler.ContextKeySession, store)
			c.Set(handler.ContextKeyNotices, &notify.Buffer{})
			return next(c)
		}
	}
}

// Protect guards a route. The decision is re-evaluated whenever the session
// changes while the request runs.
func Protect(req guard.Requirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store := handler.SessionOf(c)
			if store == nil {
				return handler.Deny(c, guard.Evaluate(session.Snapshot{}, req, c.Request().URL.RequestURI()), "")
			}

			w := guard.Watch(store, req, c.Request().URL.RequestURI())
			defer w.Stop()

			if d := w.Decision(); !d.Allow {
				return handler.Deny(c, d, "")
			}
			c.Set(handler.ContextKeyGuard, w)
			return next(c)
		}
	}
}
