package service

import (
	"context"
	"strings"

	"househunt/internal/apiclient"
	apperrors "househunt/internal/errors"
	"househunt/internal/model"
	"househunt/internal/session"
)

// ProfileAPI is the account part of the remote API.
type ProfileAPI interface {
	UpdateProfile(ctx context.Context, token, userID string, u apiclient.ProfileUpdate) (string, error)
}

// OwnerStats summarises an owner's listings and requests.
type OwnerStats struct {
	TotalProperties     int `json:"totalProperties"`
	AvailableProperties int `json:"availableProperties"`
	BookedProperties    int `json:"bookedProperties"`
	TotalBookings       int `json:"totalBookings"`
	PendingBookings     int `json:"pendingBookings"`
}

// RenterStats summarises a renter's requests.
type RenterStats struct {
	TotalBookings    int `json:"totalBookings"`
	BookedBookings   int `json:"bookedBookings"`
	PendingBookings  int `json:"pendingBookings"`
	RejectedBookings int `json:"rejectedBookings"`
}

// OwnerProfile is the owner's profile page.
type OwnerProfile struct {
	User  model.User `json:"user"`
	Stats OwnerStats `json:"stats"`
}

// RenterProfile is the renter's profile page.
type RenterProfile struct {
	User  model.User  `json:"user"`
	Stats RenterStats `json:"stats"`
}

// UserService exposes profile operations.
type UserService interface {
	UpdateProfile(ctx context.Context, store *session.Store, u apiclient.ProfileUpdate) (string, error)
	OwnerProfile(ctx context.Context, snap session.Snapshot) (*OwnerProfile, error)
	RenterProfile(ctx context.Context, snap session.Snapshot) (*RenterProfile, error)
}

type userService struct {
	api        ProfileAPI
	properties PropertyService
	bookings   BookingService
}

// NewUserService builds a UserService.
func NewUserService(api ProfileAPI, properties PropertyService, bookings BookingService) UserService {
	return &userService{api: api, properties: properties, bookings: bookings}
}

// UpdateProfile saves the profile and, once the API accepts it, rewrites the
// session's user record with the edited fields.
func (s *userService) UpdateProfile(ctx context.Context, store *session.Store, u apiclient.ProfileUpdate) (string, error) {
	snap := store.Snapshot()
	if !snap.Authenticated {
		return "", apperrors.ErrNotLoggedIn
	}
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	if u.Name == "" || u.Email == "" {
		return "", apperrors.ErrMissingFields
	}

	msg, err := s.api.UpdateProfile(ctx, snap.Token, snap.UserID(), u)
	if err != nil {
		return "", err
	}

	user := *snap.User
	user.Name = u.Name
	user.Email = u.Email
	user.Phone = u.Phone
	user.Address = u.Address
	if err := store.UpdateUser(ctx, user); err != nil {
		return "", err
	}
	return msg, nil
}

func (s *userService) OwnerProfile(ctx context.Context, snap session.Snapshot) (*OwnerProfile, error) {
	if !snap.Authenticated {
		return nil, apperrors.ErrNotLoggedIn
	}
	properties, err := s.properties.OwnerProperties(ctx, snap)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.OwnerBookings(ctx, snap)
	if err != nil {
		return nil, err
	}
	return &OwnerProfile{User: *snap.User, Stats: ComputeOwnerStats(properties, bookings)}, nil
}

func (s *userService) RenterProfile(ctx context.Context, snap session.Snapshot) (*RenterProfile, error) {
	if !snap.Authenticated {
		return nil, apperrors.ErrNotLoggedIn
	}
	bookings, err := s.bookings.RenterHistory(ctx, snap)
	if err != nil {
		return nil, err
	}
	return &RenterProfile{User: *snap.User, Stats: ComputeRenterStats(bookings)}, nil
}

// ComputeOwnerStats counts properties by availability and bookings by status.
// A property counts as booked when it holds a booked booking.
func ComputeOwnerStats(properties []model.Property, bookings []model.Booking) OwnerStats {
	booked := make(map[string]bool)
	stats := OwnerStats{TotalBookings: len(bookings), TotalProperties: len(properties)}
	for _, b := range bookings {
		switch b.Status {
		case model.BookingPending:
			stats.PendingBookings++
		case model.BookingBooked:
			booked[b.PropertyID] = true
		}
	}
	for _, p := range properties {
		if p.IsAvailable() {
			stats.AvailableProperties++
		}
		if booked[p.ID] {
			stats.BookedProperties++
		}
	}
	return stats
}

// ComputeRenterStats counts bookings by status.
func ComputeRenterStats(bookings []model.Booking) RenterStats {
	stats := RenterStats{TotalBookings: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case model.BookingBooked:
			stats.BookedBookings++
		case model.BookingPending:
			stats.PendingBookings++
		case model.BookingRejected:
			stats.RejectedBookings++
		}
	}
	return stats
}
