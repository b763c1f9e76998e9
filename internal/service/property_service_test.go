package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"househunt/internal/apiclient"
	"househunt/internal/cache"
	apperrors "househunt/internal/errors"
	"househunt/internal/model"
	"househunt/internal/session"
)

// MockPropertyAPI is a mock implementation of PropertyAPI.
type MockPropertyAPI struct {
	mock.Mock
}

func (m *MockPropertyAPI) ListProperties(ctx context.Context, token string) ([]model.Property, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Property), args.Error(1)
}

func (m *MockPropertyAPI) ListOwnerProperties(ctx context.Context, token string) ([]model.Property, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Property), args.Error(1)
}

func (m *MockPropertyAPI) CreateProperty(ctx context.Context, token string, p apiclient.NewProperty) (string, error) {
	args := m.Called(ctx, token, p)
	return args.String(0), args.Error(1)
}

func (m *MockPropertyAPI) UpdateProperty(ctx context.Context, token, propertyID string, u apiclient.PropertyUpdate) (string, error) {
	args := m.Called(ctx, token, propertyID, u)
	return args.String(0), args.Error(1)
}

func (m *MockPropertyAPI) DeleteProperty(ctx context.Context, token, propertyID string) (string, error) {
	args := m.Called(ctx, token, propertyID)
	return args.String(0), args.Error(1)
}

func newTestCache(t *testing.T) *cache.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func ownerSnapshot() session.Snapshot {
	return session.Snapshot{
		User:          &model.User{ID: "o1", Name: "Owner", Role: model.RoleOwner},
		Token:         "tok",
		Authenticated: true,
	}
}

func catalogue() []model.Property {
	return []model.Property{
		{ID: "p1", OwnerID: "o1", Type: model.PropertyHouse, Availability: model.Available, Price: decimal.NewFromInt(900)},
		{ID: "p2", OwnerID: "o1", Type: model.PropertyFlat, Availability: model.Unavailable, Price: decimal.NewFromInt(1200)},
		{ID: "p3", OwnerID: "o2", Type: model.PropertyDuplex, Availability: "available", Price: decimal.NewFromInt(2000)},
	}
}

func TestPropertyService_CatalogueIsCached(t *testing.T) {
	ctx := context.Background()
	mockAPI := new(MockPropertyAPI)
	mockAPI.On("ListProperties", ctx, "").Return(catalogue(), nil).Once()

	service := NewPropertyService(mockAPI, newTestCache(t), time.Minute, nil)

	first, err := service.Catalogue(ctx, "")
	require.NoError(t, err)
	second, err := service.Catalogue(ctx, "")
	require.NoError(t, err)

	assert.Len(t, first, 3)
	assert.Equal(t, len(first), len(second))
	assert.True(t, first[0].Price.Equal(second[0].Price))
	mockAPI.AssertNumberOfCalls(t, "ListProperties", 1)
}

func TestPropertyService_AvailableFilters(t *testing.T) {
	ctx := context.Background()
	mockAPI := new(MockPropertyAPI)
	mockAPI.On("ListProperties", ctx, "tok").Return(catalogue(), nil)

	service := NewPropertyService(mockAPI, nil, 0, nil)
	got, err := service.Available(ctx, "tok")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, "p3", got[1].ID)
}

func TestPropertyService_AddInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	mockAPI := new(MockPropertyAPI)
	mockAPI.On("ListProperties", ctx, "").Return(catalogue(), nil).Twice()
	mockAPI.On("CreateProperty", ctx, "tok", mock.MatchedBy(func(p apiclient.NewProperty) bool {
		return p.OwnerID == "o1" && p.Type == model.PropertyHouse && p.ListingType == model.ListingRent
	})).Return("New detail of property is added", nil).Once()

	service := NewPropertyService(mockAPI, newTestCache(t), time.Minute, nil)
	_, err := service.Catalogue(ctx, "")
	require.NoError(t, err)

	msg, err := service.Add(ctx, ownerSnapshot(), PropertyInput{
		Type:         "House",
		ListingType:  "Rent",
		Address:      "4 Hill St",
		OwnerContact: "555-0101",
		Price:        decimal.NewFromInt(750),
	})
	require.NoError(t, err)
	assert.Equal(t, "New detail of property is added", msg)

	_, err = service.Catalogue(ctx, "")
	require.NoError(t, err)
	mockAPI.AssertExpectations(t)
}

func TestPropertyService_AddValidation(t *testing.T) {
	tests := []struct {
		name string
		in   PropertyInput
	}{
		{"missing address", PropertyInput{Type: "house", ListingType: "rent", OwnerContact: "1", Price: decimal.NewFromInt(1)}},
		{"flat without bhk", PropertyInput{Type: "flat", ListingType: "rent", Address: "a", OwnerContact: "1", Price: decimal.NewFromInt(1)}},
		{"zero price", PropertyInput{Type: "house", ListingType: "sale", Address: "a", OwnerContact: "1"}},
		{"bad listing type", PropertyInput{Type: "house", ListingType: "lease", Address: "a", OwnerContact: "1", Price: decimal.NewFromInt(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAPI := new(MockPropertyAPI)
			service := NewPropertyService(mockAPI, nil, 0, nil)

			_, err := service.Add(context.Background(), ownerSnapshot(), tt.in)

			require.Error(t, err)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
			mockAPI.AssertNotCalled(t, "CreateProperty", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPropertyService_FindUnknown(t *testing.T) {
	ctx := context.Background()
	mockAPI := new(MockPropertyAPI)
	mockAPI.On("ListProperties", ctx, "").Return(catalogue(), nil)

	_, err := NewPropertyService(mockAPI, nil, 0, nil).Find(ctx, "", "nope")

	assert.Equal(t, apperrors.KindBusiness, apperrors.KindOf(err))
}
