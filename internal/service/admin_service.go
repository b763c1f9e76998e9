package service

import (
	"context"

	apperrors "househunt/internal/errors"
	"househunt/internal/model"
	"househunt/internal/session"
)

// AdminAPI is the admin part of the remote API.
type AdminAPI interface {
	ListUsers(ctx context.Context, token string) ([]model.User, error)
	ListAllProperties(ctx context.Context, token string) ([]model.Property, error)
	ListAllBookings(ctx context.Context, token string) ([]model.Booking, error)
	DeleteUser(ctx context.Context, token, userID string) (string, error)
	AdminDeleteProperty(ctx context.Context, token, propertyID string) (string, error)
}

// AdminDashboard is the admin home page.
type AdminDashboard struct {
	Users      []model.User     `json:"users"`
	Properties []model.Property `json:"properties"`
	Bookings   []model.Booking  `json:"bookings"`
}

// AdminService exposes the admin's read-only overview and deletions.
type AdminService interface {
	Dashboard(ctx context.Context, snap session.Snapshot) (*AdminDashboard, error)
	Users(ctx context.Context, snap session.Snapshot) ([]model.User, error)
	Properties(ctx context.Context, snap session.Snapshot) ([]model.Property, error)
	Bookings(ctx context.Context, snap session.Snapshot) ([]model.Booking, error)
	DeleteUser(ctx context.Context, snap session.Snapshot, userID string) (string, error)
	DeleteProperty(ctx context.Context, snap session.Snapshot, propertyID string) (string, error)
	RecentActions(ctx context.Context, limit int) ([]model.BookingAction, error)
	BookingHistory(ctx context.Context, bookingID string) ([]model.BookingAction, error)
}

type adminService struct {
	api        AdminAPI
	properties PropertyService
	actions    *ActionLogger
}

// NewAdminService builds an AdminService. actions may be nil.
func NewAdminService(api AdminAPI, properties PropertyService, actions *ActionLogger) AdminService {
	return &adminService{api: api, properties: properties, actions: actions}
}

func (s *adminService) Dashboard(ctx context.Context, snap session.Snapshot) (*AdminDashboard, error) {
	users, err := s.Users(ctx, snap)
	if err != nil {
		return nil, err
	}
	properties, err := s.Properties(ctx, snap)
	if err != nil {
		return nil, err
	}
	bookings, err := s.Bookings(ctx, snap)
	if err != nil {
		return nil, err
	}
	return &AdminDashboard{Users: users, Properties: properties, Bookings: bookings}, nil
}

func (s *adminService) Users(ctx context.Context, snap session.Snapshot) ([]model.User, error) {
	return s.api.ListUsers(ctx, snap.Token)
}

func (s *adminService) Properties(ctx context.Context, snap session.Snapshot) ([]model.Property, error) {
	return s.api.ListAllProperties(ctx, snap.Token)
}

// Bookings returns every booking with property details attached.
func (s *adminService) Bookings(ctx context.Context, snap session.Snapshot) ([]model.Booking, error) {
	bookings, err := s.api.ListAllBookings(ctx, snap.Token)
	if err != nil {
		return nil, err
	}
	properties, err := s.api.ListAllProperties(ctx, snap.Token)
	if err != nil {
		return bookings, nil
	}
	return model.AttachProperties(bookings, properties), nil
}

func (s *adminService) DeleteUser(ctx context.Context, snap session.Snapshot, userID string) (string, error) {
	if userID == "" {
		return "", apperrors.ErrMissingFields
	}
	if userID == snap.UserID() {
		return "", apperrors.Validation("Admins cannot delete their own account here")
	}
	msg, err := s.api.DeleteUser(ctx, snap.Token, userID)
	if err != nil {
		return "", err
	}
	// a deleted owner takes their listings along
	s.properties.Invalidate(ctx)
	return msg, nil
}

func (s *adminService) DeleteProperty(ctx context.Context, snap session.Snapshot, propertyID string) (string, error) {
	if propertyID == "" {
		return "", apperrors.ErrMissingFields
	}
	msg, err := s.api.AdminDeleteProperty(ctx, snap.Token, propertyID)
	if err != nil {
		return "", err
	}
	s.properties.Invalidate(ctx)
	return msg, nil
}

// RecentActions returns the newest audit entries, empty when the ledger is off.
func (s *adminService) RecentActions(ctx context.Context, limit int) ([]model.BookingAction, error) {
	return s.actions.Recent(ctx, limit)
}

// BookingHistory returns the audit trail of one booking.
func (s *adminService) BookingHistory(ctx context.Context, bookingID string) ([]model.BookingAction, error) {
	return s.actions.History(ctx, bookingID)
}
