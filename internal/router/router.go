package router

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"househunt/docs"
	"househunt/internal/auth"
	"househunt/internal/config"
	"househunt/internal/guard"
	"househunt/internal/handler"
	"househunt/internal/model"
	"househunt/internal/storage"
)

// Handlers groups the HTTP handlers served by the gateway.
type Handlers struct {
	Pages      *handler.PageHandler
	Auth       *handler.AuthHandler
	Properties *handler.PropertyHandler
	Bookings   *handler.BookingHandler
	Users      *handler.UserHandler
	Admin      *handler.AdminHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *slog.Logger,
	jwtService *auth.JWTService,
	devices storage.Provider,
	h Handlers,
) {
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(logger))
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	if cfg.SwaggerHost != "" {
		host := strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
		docs.SwaggerInfo.Host = strings.TrimRight(host, "/")
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Everything below knows its device and session.
	app := e.Group("",
		DeviceCookie(jwtService),
		EnsureDevice(jwtService, cfg, logger),
		RestoreSession(devices, logger),
	)

	// Public routes
	app.GET("/", h.Pages.Home)
	app.GET("/login", h.Pages.Login)
	app.GET("/session", h.Pages.Session)
	app.POST("/login", h.Auth.Login)
	app.POST("/register", h.Auth.Register)
	app.POST("/forgotpassword", h.Auth.ForgotPassword)
	app.POST("/logout", h.Auth.Logout)

	// Any logged-in account
	profile := app.Group("/profile", Protect(guard.LoggedIn))
	profile.PUT("", h.Users.UpdateProfile)
	profile.DELETE("", h.Auth.DeleteAccount)

	// Admin
	adminOnly := Protect(guard.RoleOnly(model.RoleAdmin))
	app.GET("/adminhome", h.Pages.AdminHome, adminOnly)
	admin := app.Group("/admin", adminOnly)
	admin.GET("/users", h.Admin.Users)
	admin.DELETE("/users/:id", h.Admin.DeleteUser)
	admin.GET("/properties", h.Admin.Properties)
	admin.DELETE("/properties/:id", h.Admin.DeleteProperty)
	admin.GET("/bookings", h.Admin.Bookings)
	admin.GET("/bookings/:id/actions", h.Admin.BookingHistory)
	admin.GET("/actions", h.Admin.Actions)

	// Owner
	ownerOnly := Protect(guard.RoleOnly(model.RoleOwner))
	app.GET("/ownerhome", h.Pages.OwnerHome, ownerOnly)
	owner := app.Group("/owner", ownerOnly)
	owner.GET("/profile", h.Pages.OwnerProfile)
	owner.GET("/properties", h.Properties.ListOwner)
	owner.POST("/properties", h.Properties.Create)
	owner.PATCH("/properties/:id", h.Properties.Update)
	owner.DELETE("/properties/:id", h.Properties.Delete)
	owner.GET("/bookings", h.Bookings.OwnerBookings)
	owner.POST("/bookings/:id/confirm", h.Bookings.Confirm)
	owner.POST("/bookings/:id/reject", h.Bookings.Reject)

	// Renter
	renterOnly := Protect(guard.RoleOnly(model.RoleRenter))
	app.GET("/renterhome", h.Pages.RenterHome, renterOnly)
	renter := app.Group("/renter", renterOnly)
	renter.GET("/profile", h.Pages.RenterProfile)
	renter.GET("/properties", h.Properties.ListAvailable)
	renter.POST("/properties/:id/book", h.Bookings.Request)
	renter.GET("/bookings", h.Bookings.RenterHistory)

	app.GET("/*", h.Pages.Fallback)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
