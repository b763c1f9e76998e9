package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"househunt/internal/model"
)

// RenterDetails are the contact details a renter leaves with a request.
type RenterDetails struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

// BookingRequest is the payload of a renter's booking request.
type BookingRequest struct {
	UserDetails RenterDetails       `json:"userDetails"`
	Status      model.BookingStatus `json:"status"`
	UserID      string              `json:"userId"`
	OwnerID     string              `json:"ownerId"`
}

// CreateBooking files a booking request for propertyID.
func (c *Client) CreateBooking(ctx context.Context, token, propertyID string, req BookingRequest) (string, error) {
	if err := c.authed(token); err != nil {
		return "", err
	}
	env, err := c.doJSON(ctx, http.MethodPost, "/api/user/bookinghandle/"+url.PathEscape(propertyID), token, req)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// ListUserBookings returns the bookings made by userID.
func (c *Client) ListUserBookings(ctx context.Context, token, userID string) ([]model.Booking, error) {
	if err := c.authed(token); err != nil {
		return nil, err
	}
	env, err := c.doJSON(ctx, http.MethodGet, "/api/user/getallbookings/"+url.PathEscape(userID), token, nil)
	if err != nil {
		return nil, err
	}
	var out []model.Booking
	if err := env.decodeData(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListOwnerBookings returns the bookings on the token owner's properties.
func (c *Client) ListOwnerBookings(ctx context.Context, token string) ([]model.Booking, error) {
	if err := c.authed(token); err != nil {
		return nil, err
	}
	env, err := c.doJSON(ctx, http.MethodGet, "/api/owner/getallbookings", token, nil)
	if err != nil {
		return nil, err
	}
	var out []model.Booking
	if err := env.decodeData(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateBookingStatus moves a booking to status.
func (c *Client) UpdateBookingStatus(ctx context.Context, token, bookingID, propertyID string, status model.BookingStatus) (string, error) {
	if err := c.authed(token); err != nil {
		return "", err
	}
	env, err := c.doJSON(ctx, http.MethodPost, "/api/owner/handlebookingstatus", token, map[string]string{
		"bookingId":  bookingID,
		"propertyId": propertyID,
		"status":     string(status),
	})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
