package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"househunt/internal/apiclient"
	"househunt/internal/guard"
	"househunt/internal/service"
	"househunt/internal/session"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents a login form.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	// From is the page the guard bounced the browser away from.
	From string `json:"from" form:"from" query:"from"`
}

// RegisterRequest represents a sign-up form.
type RegisterRequest struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	Type     string `json:"type" form:"type"`
}

// ForgotPasswordRequest represents a password reset form.
type ForgotPasswordRequest struct {
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required"`
}

// Login godoc
// @Summary Log in
// @Description Opens the device session and redirects to the page the browser came from, or to the role home.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} ActionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err, "Failed to login")
	}

	out, err := h.authService.Login(c.Request().Context(), SessionOf(c), req.Email, req.Password)
	if err != nil {
		return fail(c, err, "Failed to login")
	}

	redirect := out.Home
	if from := guard.SafeReturnPath(req.From); from != "" {
		redirect = from
	}
	return respond(c, http.StatusOK, out.Message, viewOf(SessionOf(c).Snapshot()), redirect)
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} ActionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err, "Failed to register")
	}

	msg, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Type:     req.Type,
	})
	if err != nil {
		return fail(c, err, "Failed to register")
	}
	return respond(c, http.StatusCreated, msg, nil, session.PathLogin)
}

// ForgotPassword godoc
// @Summary Reset a forgotten password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "New password"
// @Success 200 {object} ActionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /forgotpassword [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err, "Failed to reset password")
	}

	msg, err := h.authService.ForgotPassword(c.Request().Context(), apiclient.PasswordReset{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return fail(c, err, "Failed to reset password")
	}
	return respond(c, http.StatusOK, msg, nil, session.PathLogin)
}

// Logout godoc
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} ActionResponse
// @Failure 500 {object} ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), SessionOf(c)); err != nil {
		return fail(c, err, "Failed to log out")
	}
	return respond(c, http.StatusOK, "Logged out", nil, session.PathLogin)
}

// DeleteAccount godoc
// @Summary Delete the logged-in account
// @Tags profile
// @Produce json
// @Success 200 {object} ActionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /profile [delete]
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	msg, err := h.authService.DeleteAccount(c.Request().Context(), SessionOf(c))
	if err != nil {
		return fail(c, err, "Failed to delete account")
	}
	return respond(c, http.StatusOK, msg, nil, session.PathLogin)
}
