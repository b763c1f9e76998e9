package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"househunt/internal/apiclient"
	"househunt/internal/service"
)

// UserHandler handles profile edits.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// ProfileRequest represents the profile form.
type ProfileRequest struct {
	Name    string `json:"name" form:"name" validate:"required"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Phone   string `json:"phone" form:"phone"`
	Address string `json:"address" form:"address"`
}

// UpdateProfile godoc
// @Summary Update the logged-in profile
// @Tags profile
// @Accept json
// @Produce json
// @Param request body ProfileRequest true "Profile"
// @Success 200 {object} ActionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req ProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err, "Failed to update profile")
	}

	store := SessionOf(c)
	msg, err := h.svc.UpdateProfile(c.Request().Context(), store, apiclient.ProfileUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return fail(c, err, "Failed to update profile")
	}
	return respond(c, http.StatusOK, msg, viewOf(store.Snapshot()), "")
}
