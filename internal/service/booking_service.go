package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"househunt/internal/apiclient"
	"househunt/internal/booking"
	apperrors "househunt/internal/errors"
	"househunt/internal/model"
	"househunt/internal/notify"
	"househunt/internal/session"
)

// BookingAPI is the booking part of the remote API.
type BookingAPI interface {
	booking.API
	CreateBooking(ctx context.Context, token, propertyID string, req apiclient.BookingRequest) (string, error)
	ListUserBookings(ctx context.Context, token, userID string) ([]model.Booking, error)
}

// BookingInput is the renter's request form.
type BookingInput struct {
	FullName string
	Phone    string
}

// BookingService handles booking requests and owner decisions.
type BookingService interface {
	Request(ctx context.Context, snap session.Snapshot, propertyID string, in BookingInput) (string, error)
	RenterHistory(ctx context.Context, snap session.Snapshot) ([]model.Booking, error)
	OwnerBookings(ctx context.Context, snap session.Snapshot) ([]model.Booking, error)
	Confirm(ctx context.Context, snap session.Snapshot, bookingID, propertyID string, n notify.Notifier) (*booking.Outcome, error)
	Reject(ctx context.Context, snap session.Snapshot, bookingID, propertyID string, n notify.Notifier) (*booking.Outcome, error)
}

type bookingService struct {
	api         BookingAPI
	properties  PropertyService
	coordinator *booking.Coordinator
	recorder    booking.Recorder
	logger      *slog.Logger
}

// NewBookingService builds a BookingService. recorder may be nil.
func NewBookingService(api BookingAPI, properties PropertyService, recorder booking.Recorder, logger *slog.Logger) BookingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &bookingService{
		api:         api,
		properties:  properties,
		coordinator: booking.NewCoordinator(api, recorder, logger),
		recorder:    recorder,
		logger:      logger,
	}
}

// Request files a pending booking for an available property.
func (s *bookingService) Request(ctx context.Context, snap session.Snapshot, propertyID string, in BookingInput) (string, error) {
	if propertyID == "" || strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.Phone) == "" {
		return "", apperrors.ErrMissingFields
	}
	if !snap.Authenticated {
		return "", apperrors.ErrNotLoggedIn
	}

	property, err := s.properties.Find(ctx, snap.Token, propertyID)
	if err != nil {
		return "", err
	}
	if !property.IsAvailable() {
		return "", apperrors.Business("Property is not available", http.StatusConflict)
	}

	msg, err := s.api.CreateBooking(ctx, snap.Token, propertyID, apiclient.BookingRequest{
		UserDetails: apiclient.RenterDetails{
			FullName: strings.TrimSpace(in.FullName),
			Phone:    strings.TrimSpace(in.Phone),
		},
		Status:  model.BookingPending,
		UserID:  snap.UserID(),
		OwnerID: property.OwnerID,
	})
	s.record(ctx, snap, propertyID, err)
	if err != nil {
		return "", err
	}
	return msg, nil
}

// RenterHistory returns the renter's bookings with property details attached.
func (s *bookingService) RenterHistory(ctx context.Context, snap session.Snapshot) ([]model.Booking, error) {
	bookings, err := s.api.ListUserBookings(ctx, snap.Token, snap.UserID())
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, snap.Token, bookings), nil
}

// OwnerBookings returns the bookings on the owner's properties with property
// details attached.
func (s *bookingService) OwnerBookings(ctx context.Context, snap session.Snapshot) ([]model.Booking, error) {
	bookings, err := s.api.ListOwnerBookings(ctx, snap.Token)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, snap.Token, bookings), nil
}

// Confirm books a pending request and rejects the competing ones.
func (s *bookingService) Confirm(ctx context.Context, snap session.Snapshot, bookingID, propertyID string, n notify.Notifier) (*booking.Outcome, error) {
	out, err := s.coordinator.Confirm(ctx, s.decision(snap, bookingID, propertyID), n)
	return s.afterDecision(ctx, snap.Token, out, err)
}

// Reject turns down a pending request.
func (s *bookingService) Reject(ctx context.Context, snap session.Snapshot, bookingID, propertyID string, n notify.Notifier) (*booking.Outcome, error) {
	out, err := s.coordinator.Reject(ctx, s.decision(snap, bookingID, propertyID), n)
	return s.afterDecision(ctx, snap.Token, out, err)
}

func (s *bookingService) decision(snap session.Snapshot, bookingID, propertyID string) booking.Request {
	return booking.Request{
		Token:      snap.Token,
		ActorID:    snap.UserID(),
		BookingID:  bookingID,
		PropertyID: propertyID,
	}
}

// afterDecision drops the cached catalogue, whose availability the API may
// have changed, and attaches property details to the refreshed listing.
func (s *bookingService) afterDecision(ctx context.Context, token string, out *booking.Outcome, err error) (*booking.Outcome, error) {
	if out == nil {
		return nil, err
	}
	s.properties.Invalidate(ctx)
	if out.Bookings != nil {
		out.Bookings = s.enrich(ctx, token, out.Bookings)
	}
	return out, err
}

// enrich attaches property details from the catalogue. A catalogue failure
// leaves the bookings as they are.
func (s *bookingService) enrich(ctx context.Context, token string, bookings []model.Booking) []model.Booking {
	if len(bookings) == 0 {
		return []model.Booking{}
	}
	properties, err := s.properties.Catalogue(ctx, token)
	if err != nil {
		s.logger.Warn("property details unavailable", "error", err)
		return bookings
	}
	return model.AttachProperties(bookings, properties)
}

func (s *bookingService) record(ctx context.Context, snap session.Snapshot, propertyID string, err error) {
	if s.recorder == nil {
		return
	}
	entry := model.BookingAction{
		PropertyID: propertyID,
		ActorID:    snap.UserID(),
		Action:     model.ActionRequest,
		Outcome:    model.OutcomeOK,
		CreatedAt:  time.Now(),
	}
	if err != nil {
		entry.Outcome = model.OutcomeFailed
		entry.ErrorMessage = err.Error()
	}
	s.recorder.Record(ctx, entry)
}
