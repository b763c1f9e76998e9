package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"househunt/internal/apiclient"
	apperrors "househunt/internal/errors"
	"househunt/internal/model"
	"househunt/internal/session"
)

const msgLoggedIn = "Login successfully"

// AuthAPI is the authentication part of the remote API.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*apiclient.LoginResult, error)
	Register(ctx context.Context, r apiclient.Registration) (string, error)
	ForgotPassword(ctx context.Context, r apiclient.PasswordReset) (string, error)
	DeleteAccount(ctx context.Context, token, userID string) (string, error)
}

// LoginOutcome is the result of a successful login.
type LoginOutcome struct {
	User    model.User
	Message string
	Home    string
}

// RegisterInput is the sign-up form. An empty Type registers a renter.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Type     string
}

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, store *session.Store, email, password string) (*LoginOutcome, error)
	Register(ctx context.Context, in RegisterInput) (string, error)
	ForgotPassword(ctx context.Context, in apiclient.PasswordReset) (string, error)
	Logout(ctx context.Context, store *session.Store) error
	DeleteAccount(ctx context.Context, store *session.Store) (string, error)
}

type authService struct {
	api AuthAPI
}

// NewAuthService creates a new authentication service.
func NewAuthService(api AuthAPI) AuthService {
	return &authService{api: api}
}

// Login checks credentials against the API and opens the device session.
// Any failure leaves the device logged out.
func (s *authService) Login(ctx context.Context, store *session.Store, email, password string) (*LoginOutcome, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.ErrMissingFields
	}

	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		store.Logout(ctx)
		return nil, credentialsError(err)
	}
	if !res.User.Role.Valid() {
		store.Logout(ctx)
		return nil, apperrors.ErrInvalidUserType
	}
	if !res.User.Valid() {
		store.Logout(ctx)
		return nil, apperrors.Business("unexpected response from server", http.StatusBadGateway)
	}

	if err := store.Login(ctx, res.User, res.Token); err != nil {
		store.Logout(ctx)
		return nil, err
	}

	msg := res.Message
	if msg == "" {
		msg = msgLoggedIn
	}
	return &LoginOutcome{
		User:    res.User,
		Message: msg,
		Home:    session.CurrentRoleHome(res.User.Role),
	}, nil
}

// credentialsError turns a 401 from the login endpoint into a business error:
// there is no session yet that could have expired.
func credentialsError(err error) error {
	var e *apperrors.Error
	if errors.As(err, &e) && e.Kind == apperrors.KindAuth {
		return apperrors.Business(e.Message, http.StatusUnauthorized)
	}
	return err
}

// Register creates an account. The device stays logged out.
func (s *authService) Register(ctx context.Context, in RegisterInput) (string, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return "", apperrors.ErrMissingFields
	}
	role := model.RoleRenter
	if in.Type != "" {
		parsed, ok := model.ParseRole(in.Type)
		if !ok {
			return "", apperrors.ErrInvalidUserType
		}
		role = parsed
	}
	return s.api.Register(ctx, apiclient.Registration{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
		Role:     role,
	})
}

// ForgotPassword resets a password after checking the confirmation matches.
func (s *authService) ForgotPassword(ctx context.Context, in apiclient.PasswordReset) (string, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return "", apperrors.ErrMissingFields
	}
	if in.Password != in.ConfirmPassword {
		return "", apperrors.ErrPasswordMismatch
	}
	return s.api.ForgotPassword(ctx, in)
}

// Logout clears the device session.
func (s *authService) Logout(ctx context.Context, store *session.Store) error {
	return store.Logout(ctx)
}

// DeleteAccount removes the logged-in account and clears the session.
func (s *authService) DeleteAccount(ctx context.Context, store *session.Store) (string, error) {
	snap := store.Snapshot()
	if !snap.Authenticated {
		return "", apperrors.ErrNotLoggedIn
	}
	msg, err := s.api.DeleteAccount(ctx, snap.Token, snap.UserID())
	if err != nil {
		return "", err
	}
	if err := store.Logout(ctx); err != nil {
		return "", err
	}
	return msg, nil
}
