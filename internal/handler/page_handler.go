package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "househunt/internal/errors"
	"househunt/internal/guard"
	"househunt/internal/model"
	"househunt/internal/notify"
	"househunt/internal/service"
	"househunt/internal/session"
)

// PageHandler renders the view model of each page.
type PageHandler struct {
	properties service.PropertyService
	bookings   service.BookingService
	users      service.UserService
	admin      service.AdminService
}

// NewPageHandler creates a new page handler.
func NewPageHandler(properties service.PropertyService, bookings service.BookingService, users service.UserService, admin service.AdminService) *PageHandler {
	return &PageHandler{properties: properties, bookings: bookings, users: users, admin: admin}
}

// LoginPage is the login page's view model.
type LoginPage struct {
	From string `json:"from,omitempty"`
}

// OwnerHome is the owner dashboard.
type OwnerHome struct {
	Properties []model.Property `json:"properties"`
	Bookings   []model.Booking  `json:"bookings"`
}

// RenterHome is the renter dashboard.
type RenterHome struct {
	Properties []model.Property `json:"properties"`
	Bookings   []model.Booking  `json:"bookings"`
}

// Home godoc
// @Summary Landing page
// @Description Lists the properties that can still be requested.
// @Tags pages
// @Produce json
// @Success 200 {object} PageResponse
// @Router / [get]
func (h *PageHandler) Home(c echo.Context) error {
	snap := snapshotOf(c)
	properties, err := h.properties.Available(c.Request().Context(), snap.Token)
	if err != nil {
		NoticesOf(c).Error("No properties available")
		properties = []model.Property{}
	}
	return renderPage(c, "home", properties)
}

// Login godoc
// @Summary Login page
// @Description Redirects a logged-in browser to its role home.
// @Tags pages
// @Produce json
// @Param from query string false "Page to return to after login"
// @Param reason query string false "Why the browser was sent here" Enums(expired)
// @Success 200 {object} PageResponse
// @Success 303
// @Router /login [get]
func (h *PageHandler) Login(c echo.Context) error {
	snap := snapshotOf(c)
	if snap.Authenticated {
		return c.Redirect(http.StatusSeeOther, session.CurrentRoleHome(snap.Role()))
	}
	if c.QueryParam("reason") == guard.ReasonSessionExpired {
		NoticesOf(c).Notify(notify.LevelWarning, apperrors.MsgSessionExpired)
	}
	return renderPage(c, "login", LoginPage{From: guard.SafeReturnPath(c.QueryParam("from"))})
}

// Session godoc
// @Summary Current session
// @Tags pages
// @Produce json
// @Success 200 {object} SessionView
// @Router /session [get]
func (h *PageHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, viewOf(snapshotOf(c)))
}

// AdminHome godoc
// @Summary Admin dashboard
// @Tags pages
// @Produce json
// @Success 200 {object} PageResponse
// @Success 303
// @Router /adminhome [get]
func (h *PageHandler) AdminHome(c echo.Context) error {
	dash, err := h.admin.Dashboard(c.Request().Context(), snapshotOf(c))
	if err != nil {
		return fail(c, err, "Failed to load dashboard")
	}
	return renderPage(c, "adminhome", dash)
}

// OwnerHome godoc
// @Summary Owner dashboard
// @Tags pages
// @Produce json
// @Success 200 {object} PageResponse
// @Success 303
// @Router /ownerhome [get]
func (h *PageHandler) OwnerHome(c echo.Context) error {
	ctx := c.Request().Context()
	snap := snapshotOf(c)
	properties, err := h.properties.OwnerProperties(ctx, snap)
	if err != nil {
		return fail(c, err, "Failed to fetch properties")
	}
	bookings, err := h.bookings.OwnerBookings(ctx, snap)
	if err != nil {
		return fail(c, err, "Failed to fetch bookings")
	}
	return renderPage(c, "ownerhome", OwnerHome{Properties: properties, Bookings: bookings})
}

// RenterHome godoc
// @Summary Renter dashboard
// @Tags pages
// @Produce json
// @Success 200 {object} PageResponse
// @Success 303
// @Router /renterhome [get]
func (h *PageHandler) RenterHome(c echo.Context) error {
	ctx := c.Request().Context()
	snap := snapshotOf(c)
	properties, err := h.properties.Available(ctx, snap.Token)
	if err != nil {
		return fail(c, err, "Failed to fetch properties")
	}
	bookings, err := h.bookings.RenterHistory(ctx, snap)
	if err != nil {
		return fail(c, err, "Failed to fetch bookings")
	}
	return renderPage(c, "renterhome", RenterHome{Properties: properties, Bookings: bookings})
}

// OwnerProfile godoc
// @Summary Owner profile with statistics
// @Tags pages
// @Produce json
// @Success 200 {object} PageResponse
// @Success 303
// @Router /owner/profile [get]
func (h *PageHandler) OwnerProfile(c echo.Context) error {
	profile, err := h.users.OwnerProfile(c.Request().Context(), snapshotOf(c))
	if err != nil {
		return fail(c, err, "Failed to load profile")
	}
	return renderPage(c, "ownerprofile", profile)
}

// RenterProfile godoc
// @Summary Renter profile with statistics
// @Tags pages
// @Produce json
// @Success 200 {object} PageResponse
// @Success 303
// @Router /renter/profile [get]
func (h *PageHandler) RenterProfile(c echo.Context) error {
	profile, err := h.users.RenterProfile(c.Request().Context(), snapshotOf(c))
	if err != nil {
		return fail(c, err, "Failed to load profile")
	}
	return renderPage(c, "renterprofile", profile)
}

// Fallback sends unknown paths to the device's default route.
func (h *PageHandler) Fallback(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, session.DefaultRoute(snapshotOf(c)))
}
