package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "househunt/internal/errors"
	"househunt/internal/model"
	"househunt/internal/notify"
)

// MockAPI is a mock implementation of API.
type MockAPI struct {
	mock.Mock
	calls []string
}

func (m *MockAPI) ListOwnerBookings(ctx context.Context, token string) ([]model.Booking, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Booking), args.Error(1)
}

func (m *MockAPI) UpdateBookingStatus(ctx context.Context, token, bookingID, propertyID string, status model.BookingStatus) (string, error) {
	m.calls = append(m.calls, bookingID+"="+string(status))
	args := m.Called(ctx, token, bookingID, propertyID, status)
	return args.String(0), args.Error(1)
}

// MockRecorder is a mock implementation of Recorder.
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, action model.BookingAction) {
	m.Called(ctx, action)
}

func threePending() []model.Booking {
	return []model.Booking{
		{ID: "B1", PropertyID: "P1", Status: model.BookingPending},
		{ID: "B2", PropertyID: "P1", Status: model.BookingPending},
		{ID: "X1", PropertyID: "P2", Status: model.BookingPending},
		{ID: "B3", PropertyID: "P1", Status: model.BookingPending},
		{ID: "B0", PropertyID: "P1", Status: model.BookingRejected},
	}
}

func afterConfirm() []model.Booking {
	return []model.Booking{
		{ID: "B1", PropertyID: "P1", Status: model.BookingBooked},
		{ID: "B2", PropertyID: "P1", Status: model.BookingRejected},
		{ID: "X1", PropertyID: "P2", Status: model.BookingPending},
		{ID: "B3", PropertyID: "P1", Status: model.BookingRejected},
		{ID: "B0", PropertyID: "P1", Status: model.BookingRejected},
	}
}

func TestConfirm_RejectsOtherPendingInOrderThenBooks(t *testing.T) {
	ctx := context.Background()
	api := new(MockAPI)
	api.On("ListOwnerBookings", ctx, "tok").Return(threePending(), nil).Once()
	api.On("UpdateBookingStatus", ctx, "tok", "B2", "P1", model.BookingRejected).Return("rejected", nil).Once()
	api.On("UpdateBookingStatus", ctx, "tok", "B3", "P1", model.BookingRejected).Return("rejected", nil).Once()
	api.On("UpdateBookingStatus", ctx, "tok", "B1", "P1", model.BookingBooked).Return("changed the status of booking to booked", nil).Once()
	api.On("ListOwnerBookings", ctx, "tok").Return(afterConfirm(), nil).Once()

	var buf notify.Buffer
	c := NewCoordinator(api, nil, nil)
	out, err := c.Confirm(ctx, Request{Token: "tok", BookingID: "B1", PropertyID: "P1"}, &buf)

	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, []string{"B2", "B3"}, out.Rejected)
	assert.Empty(t, out.Failed)
	assert.Equal(t, []string{"B2=rejected", "B3=rejected", "B1=booked"}, api.calls)
	assert.Equal(t, afterConfirm(), out.Bookings)
	assert.Equal(t, []notify.Notice{{Level: notify.LevelSuccess, Message: "changed the status of booking to booked"}}, buf.Notices())
	api.AssertExpectations(t)
}

func TestConfirm_FailedRejectDoesNotStopCascade(t *testing.T) {
	ctx := context.Background()
	api := new(MockAPI)
	api.On("ListOwnerBookings", ctx, "tok").Return(threePending(), nil).Once()
	api.On("UpdateBookingStatus", ctx, "tok", "B2", "P1", model.BookingRejected).Return("", apperrors.Business("Internal server error", 500)).Once()
	api.On("UpdateBookingStatus", ctx, "tok", "B3", "P1", model.BookingRejected).Return("", nil).Once()
	api.On("UpdateBookingStatus", ctx, "tok", "B1", "P1", model.BookingBooked).Return("", nil).Once()
	api.On("ListOwnerBookings", ctx, "tok").Return(afterConfirm(), nil).Once()

	rec := new(MockRecorder)
	rec.On("Record", ctx, mock.AnythingOfType("model.BookingAction")).Return()

	var buf notify.Buffer
	c := NewCoordinator(api, rec, nil)
	out, err := c.Confirm(ctx, Request{Token: "tok", ActorID: "O1", BookingID: "B1", PropertyID: "P1"}, &buf)

	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, []string{"B3"}, out.Rejected)
	require.Len(t, out.Failed, 1)
	assert.Equal(t, "B2", out.Failed[0].BookingID)
	assert.Equal(t, []string{"B2=rejected", "B3=rejected", "B1=booked"}, api.calls)
	assert.NotNil(t, out.Bookings, "state is refreshed after a partial failure")
	assert.Equal(t, []notify.Notice{
		{Level: notify.LevelError, Message: MsgUpdateFailed},
		{Level: notify.LevelSuccess, Message: MsgConfirmed},
	}, buf.Notices())

	rec.AssertNumberOfCalls(t, "Record", 3)
	first := rec.Calls[0].Arguments.Get(1).(model.BookingAction)
	assert.Equal(t, model.ActionCascadeReject, first.Action)
	assert.Equal(t, model.OutcomeFailed, first.Outcome)
	assert.Equal(t, "O1", first.ActorID)
	last := rec.Calls[2].Arguments.Get(1).(model.BookingAction)
	assert.Equal(t, model.ActionConfirm, last.Action)
	assert.Equal(t, model.OutcomeOK, last.Outcome)
	api.AssertExpectations(t)
}

func TestConfirm_AuthErrorAbortsCascade(t *testing.T) {
	ctx := context.Background()
	api := new(MockAPI)
	api.On("ListOwnerBookings", ctx, "tok").Return(threePending(), nil).Once()
	api.On("UpdateBookingStatus", ctx, "tok", "B2", "P1", model.BookingRejected).Return("", apperrors.Auth("Authorization failed")).Once()

	c := NewCoordinator(api, nil, nil)
	out, err := c.Confirm(ctx, Request{Token: "tok", BookingID: "B1", PropertyID: "P1"}, nil)

	require.Error(t, err)
	assert.True(t, apperrors.IsAuth(err))
	assert.Nil(t, out)
	assert.Equal(t, []string{"B2=rejected"}, api.calls)
	api.AssertExpectations(t)
}

func TestConfirm_TargetFailureStillRefreshes(t *testing.T) {
	ctx := context.Background()
	api := new(MockAPI)
	bookings := []model.Booking{{ID: "B1", PropertyID: "P1", Status: model.BookingPending}}
	api.On("ListOwnerBookings", ctx, "tok").Return(bookings, nil).Twice()
	api.On("UpdateBookingStatus", ctx, "tok", "B1", "P1", model.BookingBooked).Return("", apperrors.Business("Property already booked", 409)).Once()

	var buf notify.Buffer
	c := NewCoordinator(api, nil, nil)
	out, err := c.Confirm(ctx, Request{Token: "tok", BookingID: "B1", PropertyID: "P1"}, &buf)

	require.Error(t, err)
	require.NotNil(t, out)
	assert.False(t, out.Applied)
	assert.Equal(t, bookings, out.Bookings)
	assert.Equal(t, []notify.Notice{{Level: notify.LevelError, Message: MsgUpdateFailed}}, buf.Notices())
	api.AssertExpectations(t)
}

func TestConfirm_TargetMustBePending(t *testing.T) {
	tests := []struct {
		name    string
		request Request
		wantErr error
	}{
		{"already booked", Request{Token: "tok", BookingID: "B1", PropertyID: "P1"}, apperrors.ErrBookingNotPending},
		{"unknown booking", Request{Token: "tok", BookingID: "B9", PropertyID: "P1"}, apperrors.ErrBookingNotFound},
		{"other property", Request{Token: "tok", BookingID: "B2", PropertyID: "P7"}, ErrPropertyMismatch},
		{"no property anywhere", Request{Token: "tok", BookingID: "B3"}, ErrPropertyUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			api := new(MockAPI)
			api.On("ListOwnerBookings", ctx, "tok").Return([]model.Booking{
				{ID: "B1", PropertyID: "P1", Status: model.BookingBooked},
				{ID: "B2", PropertyID: "P1", Status: model.BookingPending},
				{ID: "B3", Status: model.BookingPending},
				{ID: "Z9", Status: model.BookingPending},
			}, nil).Once()

			c := NewCoordinator(api, nil, nil)
			_, err := c.Confirm(ctx, tt.request, nil)

			assert.ErrorIs(t, err, tt.wantErr)
			api.AssertNotCalled(t, "UpdateBookingStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestConfirm_UnreferencedTargetUsesRequestProperty(t *testing.T) {
	ctx := context.Background()
	listing := []model.Booking{
		{ID: "B3", Status: model.BookingPending},
		{ID: "B4", PropertyID: "P2", Status: model.BookingPending},
		{ID: "Z9", Status: model.BookingPending},
	}
	api := new(MockAPI)
	api.On("ListOwnerBookings", ctx, "tok").Return(listing, nil).Twice()
	api.On("UpdateBookingStatus", ctx, "tok", "B4", "P2", model.BookingRejected).Return("rejected", nil).Once()
	api.On("UpdateBookingStatus", ctx, "tok", "B3", "P2", model.BookingBooked).Return("booked", nil).Once()

	c := NewCoordinator(api, nil, nil)
	out, err := c.Confirm(ctx, Request{Token: "tok", BookingID: "B3", PropertyID: "P2"}, &notify.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, []string{"B4"}, out.Rejected)
	assert.Equal(t, []string{"B4=rejected", "B3=booked"}, api.calls, "Z9 has no property and is left alone")
	api.AssertExpectations(t)
}

func TestConfirm_ListingFailure(t *testing.T) {
	ctx := context.Background()
	api := new(MockAPI)
	api.On("ListOwnerBookings", ctx, "tok").Return(nil, apperrors.Network(errors.New("connection refused"))).Once()

	c := NewCoordinator(api, nil, nil)
	_, err := c.Confirm(ctx, Request{Token: "tok", BookingID: "B1"}, nil)

	assert.Equal(t, apperrors.KindNetwork, apperrors.KindOf(err))
	assert.Empty(t, api.calls)
}

func TestReject_SingleCallNoCascade(t *testing.T) {
	ctx := context.Background()
	api := new(MockAPI)
	api.On("ListOwnerBookings", ctx, "tok").Return(threePending(), nil).Twice()
	api.On("UpdateBookingStatus", ctx, "tok", "B2", "P1", model.BookingRejected).Return("changed the status of booking to rejected", nil).Once()

	rec := new(MockRecorder)
	rec.On("Record", ctx, mock.MatchedBy(func(a model.BookingAction) bool {
		return a.Action == model.ActionReject && a.BookingID == "B2" && a.Outcome == model.OutcomeOK
	})).Return().Once()

	var buf notify.Buffer
	c := NewCoordinator(api, rec, nil)
	out, err := c.Reject(ctx, Request{Token: "tok", BookingID: "B2", PropertyID: "P1"}, &buf)

	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, model.BookingRejected, out.Status)
	assert.Equal(t, []string{"B2=rejected"}, api.calls)
	assert.Equal(t, "changed the status of booking to rejected", buf.Notices()[0].Message)
	api.AssertExpectations(t)
	rec.AssertExpectations(t)
}

func TestConfirm_RefreshFailureIsNotified(t *testing.T) {
	ctx := context.Background()
	api := new(MockAPI)
	api.On("ListOwnerBookings", ctx, "tok").Return([]model.Booking{{ID: "B1", PropertyID: "P1", Status: model.BookingPending}}, nil).Once()
	api.On("UpdateBookingStatus", ctx, "tok", "B1", "P1", model.BookingBooked).Return("ok", nil).Once()
	api.On("ListOwnerBookings", ctx, "tok").Return(nil, apperrors.Network(errors.New("timeout"))).Once()

	var buf notify.Buffer
	c := NewCoordinator(api, nil, nil)
	out, err := c.Confirm(ctx, Request{Token: "tok", BookingID: "B1"}, &buf)

	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Nil(t, out.Bookings)
	assert.Equal(t, MsgFetchFailed, buf.Notices()[1].Message)
}
