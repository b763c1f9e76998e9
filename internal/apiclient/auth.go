package apiclient

import (
	"context"
	"encoding/json"
	"net/http"

	apperrors "househunt/internal/errors"
	"househunt/internal/model"
)

// LoginResult is what a successful login hands back.
type LoginResult struct {
	Token   string
	User    model.User
	Message string
}

// Registration is the sign-up form.
type Registration struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"type"`
}

// PasswordReset is the forgot-password form.
type PasswordReset struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Login exchanges credentials for a bearer token and the user profile.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	env, err := c.doJSON(ctx, http.MethodPost, "/api/user/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var user model.User
	if len(env.User) == 0 || json.Unmarshal(env.User, &user) != nil {
		return nil, apperrors.Business("unexpected response from server", http.StatusBadGateway)
	}
	if env.Token == "" {
		return nil, apperrors.Business("login response carried no token", http.StatusBadGateway)
	}
	return &LoginResult{Token: env.Token, User: user, Message: env.Message}, nil
}

// Register creates an account and returns the API's confirmation message.
func (c *Client) Register(ctx context.Context, r Registration) (string, error) {
	env, err := c.doJSON(ctx, http.MethodPost, "/api/user/register", "", r)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// ForgotPassword resets the password of the account behind r.Email.
func (c *Client) ForgotPassword(ctx context.Context, r PasswordReset) (string, error) {
	env, err := c.doJSON(ctx, http.MethodPost, "/api/user/forgotpassword", "", r)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
