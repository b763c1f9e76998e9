package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"househunt/internal/model"
)

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// UpdateProfile saves the profile of userID.
func (c *Client) UpdateProfile(ctx context.Context, token, userID string, u ProfileUpdate) (string, error) {
	if err := c.authed(token); err != nil {
		return "", err
	}
	fields := []formField{
		{"name", u.Name},
		{"email", u.Email},
		{"phone", u.Phone},
		{"address", u.Address},
	}
	env, err := c.doForm(ctx, http.MethodPut, "/api/user/updateprofile/"+url.PathEscape(userID), token, fields)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// DeleteAccount removes the account of userID.
func (c *Client) DeleteAccount(ctx context.Context, token, userID string) (string, error) {
	if err := c.authed(token); err != nil {
		return "", err
	}
	env, err := c.doJSON(ctx, http.MethodDelete, "/api/user/deleteaccount/"+url.PathEscape(userID), token, nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// ListUsers returns every account. Admin only.
func (c *Client) ListUsers(ctx context.Context, token string) ([]model.User, error) {
	if err := c.authed(token); err != nil {
		return nil, err
	}
	env, err := c.doJSON(ctx, http.MethodGet, "/api/admin/getallusers", token, nil)
	if err != nil {
		return nil, err
	}
	var out []model.User
	if err := env.decodeData(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAllProperties returns every property including unavailable ones. Admin only.
func (c *Client) ListAllProperties(ctx context.Context, token string) ([]model.Property, error) {
	if err := c.authed(token); err != nil {
		return nil, err
	}
	env, err := c.doJSON(ctx, http.MethodGet, "/api/admin/getallproperties", token, nil)
	if err != nil {
		return nil, err
	}
	var out []model.Property
	if err := env.decodeData(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAllBookings returns every booking. Admin only.
func (c *Client) ListAllBookings(ctx context.Context, token string) ([]model.Booking, error) {
	if err := c.authed(token); err != nil {
		return nil, err
	}
	env, err := c.doJSON(ctx, http.MethodGet, "/api/admin/getallbookings", token, nil)
	if err != nil {
		return nil, err
	}
	var out []model.Booking
	if err := env.decodeData(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteUser removes any account. Admin only.
func (c *Client) DeleteUser(ctx context.Context, token, userID string) (string, error) {
	if err := c.authed(token); err != nil {
		return "", err
	}
	env, err := c.doJSON(ctx, http.MethodDelete, "/api/admin/deleteuser/"+url.PathEscape(userID), token, nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// AdminDeleteProperty removes any property. Admin only.
func (c *Client) AdminDeleteProperty(ctx context.Context, token, propertyID string) (string, error) {
	if err := c.authed(token); err != nil {
		return "", err
	}
	env, err := c.doJSON(ctx, http.MethodDelete, "/api/admin/deleteproperty/"+url.PathEscape(propertyID), token, nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
