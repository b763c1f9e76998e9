package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"househunt/internal/booking"
	apperrors "househunt/internal/errors"
	"househunt/internal/model"
	"househunt/internal/notify"
	"househunt/internal/service"
	"househunt/internal/session"
)

// BookingHandler handles booking requests and owner decisions.
type BookingHandler struct {
	bookings service.BookingService
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// BookingRequest represents a renter's booking form.
type BookingRequest struct {
	FullName string `json:"fullName" form:"fullName" validate:"required"`
	Phone    string `json:"phone" form:"phone" validate:"required"`
}

// DecisionRequest carries the property of the booking being decided.
type DecisionRequest struct {
	PropertyID string `json:"propertyId" form:"propertyId"`
}

// DecisionResponse is the result of a confirm or reject.
type DecisionResponse struct {
	Booking  string              `json:"booking"`
	Status   model.BookingStatus `json:"status"`
	Applied  bool                `json:"applied"`
	Rejected []string            `json:"rejected,omitempty"`
	Failed   []string            `json:"failed,omitempty"`
	Bookings []model.Booking     `json:"bookings"`
}

// Request godoc
// @Summary Request a booking
// @Tags renter
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body BookingRequest true "Renter details"
// @Success 201 {object} ActionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /renter/properties/{id}/book [post]
func (h *BookingHandler) Request(c echo.Context) error {
	var req BookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err, "Failed to book property")
	}

	msg, err := h.bookings.Request(c.Request().Context(), snapshotOf(c), c.Param("id"), service.BookingInput{
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		return fail(c, err, "Failed to book property")
	}
	return respond(c, http.StatusCreated, msg, nil, "")
}

// RenterHistory godoc
// @Summary List the renter's bookings
// @Tags renter
// @Produce json
// @Success 200 {object} ActionResponse
// @Failure 401 {object} ErrorResponse
// @Router /renter/bookings [get]
func (h *BookingHandler) RenterHistory(c echo.Context) error {
	bookings, err := h.bookings.RenterHistory(c.Request().Context(), snapshotOf(c))
	if err != nil {
		return fail(c, err, "Failed to fetch bookings")
	}
	return c.JSON(http.StatusOK, ActionResponse{Data: bookings, Notifications: NoticesOf(c).Notices()})
}

// OwnerBookings godoc
// @Summary List the bookings on the owner's properties
// @Tags owner
// @Produce json
// @Success 200 {object} ActionResponse
// @Failure 401 {object} ErrorResponse
// @Router /owner/bookings [get]
func (h *BookingHandler) OwnerBookings(c echo.Context) error {
	bookings, err := h.bookings.OwnerBookings(c.Request().Context(), snapshotOf(c))
	if err != nil {
		return fail(c, err, "Failed to fetch bookings")
	}
	return c.JSON(http.StatusOK, ActionResponse{Data: bookings, Notifications: NoticesOf(c).Notices()})
}

// Confirm godoc
// @Summary Confirm a pending booking
// @Description Rejects the other pending bookings of the property one by one, then books this one.
// @Tags owner
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body DecisionRequest false "Property of the booking"
// @Success 200 {object} DecisionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /owner/bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c echo.Context) error {
	return h.decide(c, h.bookings.Confirm)
}

// Reject godoc
// @Summary Reject a pending booking
// @Tags owner
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body DecisionRequest false "Property of the booking"
// @Success 200 {object} DecisionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /owner/bookings/{id}/reject [post]
func (h *BookingHandler) Reject(c echo.Context) error {
	return h.decide(c, h.bookings.Reject)
}

type decideFunc func(ctx context.Context, snap session.Snapshot, bookingID, propertyID string, n notify.Notifier) (*booking.Outcome, error)

func (h *BookingHandler) decide(c echo.Context, run decideFunc) error {
	var req DecisionRequest
	if err := c.Bind(&req); err != nil {
		req = DecisionRequest{}
	}

	notices := NoticesOf(c)
	out, err := run(c.Request().Context(), snapshotOf(c), c.Param("id"), req.PropertyID, notices)
	if out == nil {
		return fail(c, err, "Failed to update booking status")
	}

	resp := DecisionResponse{
		Booking:  out.Target,
		Status:   out.Status,
		Applied:  out.Applied,
		Rejected: out.Rejected,
		Bookings: out.Bookings,
	}
	for _, f := range out.Failed {
		resp.Failed = append(resp.Failed, f.BookingID)
	}
	// the decision reached the API but the final call failed
	status := http.StatusOK
	if err != nil {
		status = apperrors.MapErrorToHTTP(err, "Failed to update booking status").StatusCode
	}
	return c.JSON(status, ActionResponse{Data: resp, Notifications: notices.Notices()})
}
