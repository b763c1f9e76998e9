// Package booking coordinates an owner's decision on a booking request.
//
// Confirming a pending booking rejects every other pending booking of the same
// property first, one call at a time in listing order, then books the target.
// Individual rejections are best effort. The property's switch to Unavailable
// is left to the API; the coordinator re-fetches the owner's bookings once the
// decision has been sent.
package booking

import (
	"context"
	"log/slog"
	"time"

	apperrors "househunt/internal/errors"
	"househunt/internal/model"
	"househunt/internal/notify"
)

// Notification texts.
const (
	MsgUpdateFailed = "Failed to update booking status"
	MsgFetchFailed  = "Failed to fetch bookings"
	MsgConfirmed    = "Booking confirmed"
	MsgRejected     = "Booking rejected"
)

// ErrPropertyMismatch is returned when the booking belongs to another property.
var ErrPropertyMismatch = apperrors.Validation("booking does not belong to this property")

// ErrPropertyUnknown is returned when neither the listing nor the request
// names the booking's property, so its competing bookings cannot be told apart.
var ErrPropertyUnknown = apperrors.Validation("booking has no property")

// API is the part of the remote API the coordinator drives.
type API interface {
	ListOwnerBookings(ctx context.Context, token string) ([]model.Booking, error)
	UpdateBookingStatus(ctx context.Context, token, bookingID, propertyID string, status model.BookingStatus) (string, error)
}

// Recorder keeps a trail of every transition that was sent to the API.
type Recorder interface {
	Record(ctx context.Context, action model.BookingAction)
}

// Request identifies the decision and who takes it.
type Request struct {
	Token      string
	ActorID    string
	BookingID  string
	PropertyID string
}

// FailedCall is a transition the API refused or never received.
type FailedCall struct {
	BookingID string
	Status    model.BookingStatus
	Err       error
}

// Outcome describes what happened to each booking involved in a decision.
type Outcome struct {
	Target   string
	Status   model.BookingStatus
	Applied  bool
	Rejected []string
	Failed   []FailedCall
	// Bookings is the owner's listing fetched after the decision. It is nil
	// when the refresh failed.
	Bookings []model.Booking
}

// Coordinator runs confirm and reject decisions.
type Coordinator struct {
	api      API
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewCoordinator creates a coordinator. recorder and logger may be nil.
func NewCoordinator(api API, recorder Recorder, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{api: api, recorder: recorder, logger: logger, now: time.Now}
}

// Confirm books req.BookingID after rejecting the other pending bookings of
// its property.
//
// The returned Outcome is non-nil whenever the decision got as far as the
// API, including when the final booking call failed; the error then reports
// that failure. An authentication error stops the cascade at once and is
// returned without a refresh so the caller can clear the session.
func (c *Coordinator) Confirm(ctx context.Context, req Request, n notify.Notifier) (*Outcome, error) {
	if n == nil {
		n = notify.Discard
	}
	bookings, target, err := c.load(ctx, req)
	if err != nil {
		return nil, err
	}
	propertyID := target.PropertyID
	out := &Outcome{Target: target.ID, Status: model.BookingBooked}

	for _, other := range model.PendingForProperty(bookings, propertyID, target.ID) {
		_, err := c.api.UpdateBookingStatus(ctx, req.Token, other.ID, propertyID, model.BookingRejected)
		c.record(ctx, req, other.ID, propertyID, model.ActionCascadeReject, err)
		if err != nil {
			if apperrors.IsAuth(err) {
				return nil, err
			}
			c.logger.Warn("cascade reject failed",
				"booking_id", other.ID,
				"property_id", propertyID,
				"target_id", target.ID,
				"error", err,
			)
			out.Failed = append(out.Failed, FailedCall{BookingID: other.ID, Status: model.BookingRejected, Err: err})
			continue
		}
		out.Rejected = append(out.Rejected, other.ID)
	}
	if len(out.Failed) > 0 {
		n.Notify(notify.LevelError, MsgUpdateFailed)
	}

	msg, err := c.api.UpdateBookingStatus(ctx, req.Token, target.ID, propertyID, model.BookingBooked)
	c.record(ctx, req, target.ID, propertyID, model.ActionConfirm, err)
	if err != nil && apperrors.IsAuth(err) {
		return nil, err
	}
	if err != nil {
		c.logger.Warn("confirm booking failed", "booking_id", target.ID, "property_id", propertyID, "error", err)
		out.Failed = append(out.Failed, FailedCall{BookingID: target.ID, Status: model.BookingBooked, Err: err})
		n.Notify(notify.LevelError, MsgUpdateFailed)
	} else {
		out.Applied = true
		n.Notify(notify.LevelSuccess, firstNonEmpty(msg, MsgConfirmed))
	}

	if rerr := c.refresh(ctx, req.Token, out, n); rerr != nil {
		return nil, rerr
	}
	return out, err
}

// Reject turns down a single pending booking. Nothing else is touched.
func (c *Coordinator) Reject(ctx context.Context, req Request, n notify.Notifier) (*Outcome, error) {
	if n == nil {
		n = notify.Discard
	}
	_, target, err := c.load(ctx, req)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Target: target.ID, Status: model.BookingRejected}

	msg, err := c.api.UpdateBookingStatus(ctx, req.Token, target.ID, target.PropertyID, model.BookingRejected)
	c.record(ctx, req, target.ID, target.PropertyID, model.ActionReject, err)
	if err != nil && apperrors.IsAuth(err) {
		return nil, err
	}
	if err != nil {
		c.logger.Warn("reject booking failed", "booking_id", target.ID, "property_id", target.PropertyID, "error", err)
		out.Failed = append(out.Failed, FailedCall{BookingID: target.ID, Status: model.BookingRejected, Err: err})
		n.Notify(notify.LevelError, MsgUpdateFailed)
	} else {
		out.Applied = true
		n.Notify(notify.LevelSuccess, firstNonEmpty(msg, MsgRejected))
	}

	if rerr := c.refresh(ctx, req.Token, out, n); rerr != nil {
		return nil, rerr
	}
	return out, err
}

// load fetches the owner's bookings and checks the target can still be
// decided. No transition is sent when it cannot.
func (c *Coordinator) load(ctx context.Context, req Request) ([]model.Booking, model.Booking, error) {
	if req.BookingID == "" {
		return nil, model.Booking{}, apperrors.ErrMissingFields
	}
	bookings, err := c.api.ListOwnerBookings(ctx, req.Token)
	if err != nil {
		return nil, model.Booking{}, err
	}
	target, ok := model.FindBooking(bookings, req.BookingID)
	if !ok {
		return nil, model.Booking{}, apperrors.ErrBookingNotFound
	}
	if req.PropertyID != "" && target.PropertyID != "" && req.PropertyID != target.PropertyID {
		return nil, model.Booking{}, ErrPropertyMismatch
	}
	if target.PropertyID == "" {
		target.PropertyID = req.PropertyID
	}
	if target.PropertyID == "" {
		return nil, model.Booking{}, ErrPropertyUnknown
	}
	if target.Status != model.BookingPending {
		return nil, model.Booking{}, apperrors.ErrBookingNotPending
	}
	return bookings, target, nil
}

func (c *Coordinator) refresh(ctx context.Context, token string, out *Outcome, n notify.Notifier) error {
	bookings, err := c.api.ListOwnerBookings(ctx, token)
	if err != nil {
		if apperrors.IsAuth(err) {
			return err
		}
		c.logger.Warn("refresh bookings failed", "error", err)
		n.Notify(notify.LevelError, MsgFetchFailed)
		return nil
	}
	out.Bookings = bookings
	return nil
}

func (c *Coordinator) record(ctx context.Context, req Request, bookingID, propertyID string, action model.BookingActionType, err error) {
	if c.recorder == nil {
		return
	}
	entry := model.BookingAction{
		BookingID:  bookingID,
		PropertyID: propertyID,
		ActorID:    req.ActorID,
		Action:     action,
		Outcome:    model.OutcomeOK,
		CreatedAt:  c.now(),
	}
	if err != nil {
		entry.Outcome = model.OutcomeFailed
		entry.ErrorMessage = err.Error()
	}
	c.recorder.Record(ctx, entry)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
