package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"househunt/internal/apiclient"
	apperrors "househunt/internal/errors"
	"househunt/internal/model"
	"househunt/internal/notify"
	"househunt/internal/session"
)

// MockBookingAPI is a mock implementation of BookingAPI.
type MockBookingAPI struct {
	mock.Mock
}

func (m *MockBookingAPI) ListOwnerBookings(ctx context.Context, token string) ([]model.Booking, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Booking), args.Error(1)
}

func (m *MockBookingAPI) UpdateBookingStatus(ctx context.Context, token, bookingID, propertyID string, status model.BookingStatus) (string, error) {
	args := m.Called(ctx, token, bookingID, propertyID, status)
	return args.String(0), args.Error(1)
}

func (m *MockBookingAPI) CreateBooking(ctx context.Context, token, propertyID string, req apiclient.BookingRequest) (string, error) {
	args := m.Called(ctx, token, propertyID, req)
	return args.String(0), args.Error(1)
}

func (m *MockBookingAPI) ListUserBookings(ctx context.Context, token, userID string) ([]model.Booking, error) {
	args := m.Called(ctx, token, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Booking), args.Error(1)
}

// MockRecorder is a mock implementation of booking.Recorder.
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, action model.BookingAction) {
	m.Called(ctx, action)
}

func renterSnapshot() session.Snapshot {
	return session.Snapshot{
		User:          &model.User{ID: "r1", Name: "Ravi", Role: model.RoleRenter},
		Token:         "rtok",
		Authenticated: true,
	}
}

func TestBookingService_Request(t *testing.T) {
	ctx := context.Background()
	props := new(MockPropertyAPI)
	props.On("ListProperties", ctx, "rtok").Return(catalogue(), nil)
	api := new(MockBookingAPI)
	api.On("CreateBooking", ctx, "rtok", "p1", apiclient.BookingRequest{
		UserDetails: apiclient.RenterDetails{FullName: "Ravi K", Phone: "555"},
		Status:      model.BookingPending,
		UserID:      "r1",
		OwnerID:     "o1",
	}).Return("Booking request sent", nil).Once()
	rec := new(MockRecorder)
	rec.On("Record", ctx, mock.MatchedBy(func(a model.BookingAction) bool {
		return a.Action == model.ActionRequest && a.PropertyID == "p1" && a.Outcome == model.OutcomeOK
	})).Return().Once()

	service := NewBookingService(api, NewPropertyService(props, nil, 0, nil), rec, nil)
	msg, err := service.Request(ctx, renterSnapshot(), "p1", BookingInput{FullName: " Ravi K ", Phone: "555"})

	require.NoError(t, err)
	assert.Equal(t, "Booking request sent", msg)
	api.AssertExpectations(t)
	rec.AssertExpectations(t)
}

func TestBookingService_RequestUnavailableProperty(t *testing.T) {
	ctx := context.Background()
	props := new(MockPropertyAPI)
	props.On("ListProperties", ctx, "rtok").Return(catalogue(), nil)
	api := new(MockBookingAPI)

	service := NewBookingService(api, NewPropertyService(props, nil, 0, nil), nil, nil)
	_, err := service.Request(ctx, renterSnapshot(), "p2", BookingInput{FullName: "Ravi", Phone: "555"})

	require.Error(t, err)
	assert.Equal(t, apperrors.KindBusiness, apperrors.KindOf(err))
	api.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_RequestMissingFields(t *testing.T) {
	service := NewBookingService(new(MockBookingAPI), NewPropertyService(new(MockPropertyAPI), nil, 0, nil), nil, nil)

	_, err := service.Request(context.Background(), renterSnapshot(), "p1", BookingInput{FullName: "Ravi"})

	assert.ErrorIs(t, err, apperrors.ErrMissingFields)
}

func TestBookingService_RenterHistoryEnriched(t *testing.T) {
	ctx := context.Background()
	props := new(MockPropertyAPI)
	props.On("ListProperties", ctx, "rtok").Return(catalogue(), nil)
	api := new(MockBookingAPI)
	api.On("ListUserBookings", ctx, "rtok", "r1").Return([]model.Booking{
		{ID: "b1", PropertyID: "p3", Status: model.BookingPending},
		{ID: "b2", PropertyID: "gone", Status: model.BookingRejected},
	}, nil)

	service := NewBookingService(api, NewPropertyService(props, nil, 0, nil), nil, nil)
	got, err := service.RenterHistory(ctx, renterSnapshot())

	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].Property)
	assert.Equal(t, model.PropertyDuplex, got[0].Property.Type)
	assert.Nil(t, got[1].Property)
}

func TestBookingService_ConfirmRunsCascade(t *testing.T) {
	ctx := context.Background()
	props := new(MockPropertyAPI)
	props.On("ListProperties", ctx, "tok").Return(catalogue(), nil)
	api := new(MockBookingAPI)
	pending := []model.Booking{
		{ID: "B1", PropertyID: "p1", Status: model.BookingPending},
		{ID: "B2", PropertyID: "p1", Status: model.BookingPending},
	}
	api.On("ListOwnerBookings", ctx, "tok").Return(pending, nil).Twice()
	api.On("UpdateBookingStatus", ctx, "tok", "B2", "p1", model.BookingRejected).Return("", nil).Once()
	api.On("UpdateBookingStatus", ctx, "tok", "B1", "p1", model.BookingBooked).Return("", nil).Once()

	var buf notify.Buffer
	service := NewBookingService(api, NewPropertyService(props, nil, 0, nil), nil, nil)
	out, err := service.Confirm(ctx, ownerSnapshot(), "B1", "p1", &buf)

	require.NoError(t, err)
	assert.Equal(t, []string{"B2"}, out.Rejected)
	require.Len(t, out.Bookings, 2)
	assert.NotNil(t, out.Bookings[0].Property)
	api.AssertExpectations(t)
}
