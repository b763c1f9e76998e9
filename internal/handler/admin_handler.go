package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"househunt/internal/service"
)

// AdminHandler handles the admin's overview and deletions.
type AdminHandler struct {
	admin service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(admin service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Users godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Success 200 {object} ActionResponse
// @Failure 401 {object} ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	users, err := h.admin.Users(c.Request().Context(), snapshotOf(c))
	if err != nil {
		return fail(c, err, "Failed to fetch users")
	}
	return c.JSON(http.StatusOK, ActionResponse{Data: users, Notifications: NoticesOf(c).Notices()})
}

// Properties godoc
// @Summary List all properties
// @Tags admin
// @Produce json
// @Success 200 {object} ActionResponse
// @Failure 401 {object} ErrorResponse
// @Router /admin/properties [get]
func (h *AdminHandler) Properties(c echo.Context) error {
	properties, err := h.admin.Properties(c.Request().Context(), snapshotOf(c))
	if err != nil {
		return fail(c, err, "Failed to fetch properties")
	}
	return c.JSON(http.StatusOK, ActionResponse{Data: properties, Notifications: NoticesOf(c).Notices()})
}

// Bookings godoc
// @Summary List all bookings
// @Tags admin
// @Produce json
// @Success 200 {object} ActionResponse
// @Failure 401 {object} ErrorResponse
// @Router /admin/bookings [get]
func (h *AdminHandler) Bookings(c echo.Context) error {
	bookings, err := h.admin.Bookings(c.Request().Context(), snapshotOf(c))
	if err != nil {
		return fail(c, err, "Failed to fetch bookings")
	}
	return c.JSON(http.StatusOK, ActionResponse{Data: bookings, Notifications: NoticesOf(c).Notices()})
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} ActionResponse
// @Failure 401 {object} ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	msg, err := h.admin.DeleteUser(c.Request().Context(), snapshotOf(c), c.Param("id"))
	if err != nil {
		return fail(c, err, "Failed to delete user")
	}
	return respond(c, http.StatusOK, msg, nil, "")
}

// DeleteProperty godoc
// @Summary Delete a property
// @Tags admin
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} ActionResponse
// @Failure 401 {object} ErrorResponse
// @Router /admin/properties/{id} [delete]
func (h *AdminHandler) DeleteProperty(c echo.Context) error {
	msg, err := h.admin.DeleteProperty(c.Request().Context(), snapshotOf(c), c.Param("id"))
	if err != nil {
		return fail(c, err, "Failed to delete property")
	}
	return respond(c, http.StatusOK, msg, nil, "")
}

// Actions godoc
// @Summary Recent booking decisions from the audit ledger
// @Tags admin
// @Produce json
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {object} ActionResponse
// @Failure 401 {object} ErrorResponse
// @Router /admin/actions [get]
func (h *AdminHandler) Actions(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	actions, err := h.admin.RecentActions(c.Request().Context(), limit)
	if err != nil {
		return fail(c, err, "Failed to fetch audit entries")
	}
	return c.JSON(http.StatusOK, ActionResponse{Data: actions, Notifications: NoticesOf(c).Notices()})
}

// BookingHistory godoc
// @Summary Audit trail of one booking
// @Tags admin
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} ActionResponse
// @Failure 401 {object} ErrorResponse
// @Router /admin/bookings/{id}/actions [get]
func (h *AdminHandler) BookingHistory(c echo.Context) error {
	actions, err := h.admin.BookingHistory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err, "Failed to fetch audit entries")
	}
	return c.JSON(http.StatusOK, ActionResponse{Data: actions, Notifications: NoticesOf(c).Notices()})
}
