package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"househunt/internal/apiclient"
	"househunt/internal/cache"
	apperrors "househunt/internal/errors"
	"househunt/internal/model"
	"househunt/internal/session"
)

const catalogueCacheKey = "properties:all"

// PropertyAPI is the property part of the remote API.
type PropertyAPI interface {
	ListProperties(ctx context.Context, token string) ([]model.Property, error)
	ListOwnerProperties(ctx context.Context, token string) ([]model.Property, error)
	CreateProperty(ctx context.Context, token string, p apiclient.NewProperty) (string, error)
	UpdateProperty(ctx context.Context, token, propertyID string, u apiclient.PropertyUpdate) (string, error)
	DeleteProperty(ctx context.Context, token, propertyID string) (string, error)
}

// PropertyInput is the owner's listing form.
type PropertyInput struct {
	Type           string
	ListingType    string
	Address        string
	OwnerContact   string
	Price          decimal.Decimal
	AdditionalInfo string
	BHKType        string
}

// PropertyService exposes the property catalogue and owner listings.
type PropertyService interface {
	Catalogue(ctx context.Context, token string) ([]model.Property, error)
	Available(ctx context.Context, token string) ([]model.Property, error)
	Find(ctx context.Context, token, propertyID string) (*model.Property, error)
	OwnerProperties(ctx context.Context, snap session.Snapshot) ([]model.Property, error)
	Add(ctx context.Context, snap session.Snapshot, in PropertyInput) (string, error)
	Update(ctx context.Context, snap session.Snapshot, propertyID string, u apiclient.PropertyUpdate) (string, error)
	Delete(ctx context.Context, snap session.Snapshot, propertyID string) (string, error)
	Invalidate(ctx context.Context)
}

type propertyService struct {
	api    PropertyAPI
	cache  *cache.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewPropertyService builds a PropertyService. A nil cache disables caching.
func NewPropertyService(api PropertyAPI, cache *cache.Client, ttl time.Duration, logger *slog.Logger) PropertyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &propertyService{api: api, cache: cache, ttl: ttl, logger: logger}
}

// Catalogue returns every listed property, served from the cache while fresh.
func (s *propertyService) Catalogue(ctx context.Context, token string) ([]model.Property, error) {
	var cached []model.Property
	if s.cache.GetJSON(ctx, catalogueCacheKey, &cached) {
		return cached, nil
	}

	properties, err := s.api.ListProperties(ctx, token)
	if err != nil {
		return nil, err
	}
	if properties == nil {
		properties = []model.Property{}
	}
	if s.ttl > 0 {
		if err := s.cache.SetJSON(ctx, catalogueCacheKey, properties, s.ttl); err != nil {
			s.logger.Warn("cache catalogue failed", "error", err)
		}
	}
	return properties, nil
}

// Available returns the properties a renter can still request.
func (s *propertyService) Available(ctx context.Context, token string) ([]model.Property, error) {
	properties, err := s.Catalogue(ctx, token)
	if err != nil {
		return nil, err
	}
	return model.FilterAvailable(properties), nil
}

// Find looks a property up in the catalogue.
func (s *propertyService) Find(ctx context.Context, token, propertyID string) (*model.Property, error) {
	properties, err := s.Catalogue(ctx, token)
	if err != nil {
		return nil, err
	}
	p, ok := model.IndexProperties(properties)[propertyID]
	if !ok {
		return nil, apperrors.Business("Property not found", http.StatusNotFound)
	}
	return &p, nil
}

func (s *propertyService) OwnerProperties(ctx context.Context, snap session.Snapshot) ([]model.Property, error) {
	return s.api.ListOwnerProperties(ctx, snap.Token)
}

// Add lists a new property for the logged-in owner. Flats need a BHK type.
func (s *propertyService) Add(ctx context.Context, snap session.Snapshot, in PropertyInput) (string, error) {
	listing := model.ListingType(strings.ToLower(strings.TrimSpace(in.ListingType)))
	kind := strings.ToLower(strings.TrimSpace(in.Type))
	if kind == "" || listing == "" || strings.TrimSpace(in.Address) == "" || strings.TrimSpace(in.OwnerContact) == "" {
		return "", apperrors.ErrMissingFields
	}
	if kind == model.PropertyFlat && strings.TrimSpace(in.BHKType) == "" {
		return "", apperrors.ErrMissingFields
	}
	if listing != model.ListingRent && listing != model.ListingSale {
		return "", apperrors.Validation("Listing type must be rent or sale")
	}
	if !in.Price.IsPositive() {
		return "", apperrors.Validation("Price must be greater than zero")
	}

	msg, err := s.api.CreateProperty(ctx, snap.Token, apiclient.NewProperty{
		OwnerID:        snap.UserID(),
		Type:           kind,
		ListingType:    listing,
		Address:        strings.TrimSpace(in.Address),
		OwnerContact:   strings.TrimSpace(in.OwnerContact),
		Price:          in.Price,
		AdditionalInfo: in.AdditionalInfo,
		BHKType:        in.BHKType,
	})
	if err != nil {
		return "", err
	}
	s.Invalidate(ctx)
	return msg, nil
}

func (s *propertyService) Update(ctx context.Context, snap session.Snapshot, propertyID string, u apiclient.PropertyUpdate) (string, error) {
	if propertyID == "" {
		return "", apperrors.ErrMissingFields
	}
	if u.Price != nil && !u.Price.IsPositive() {
		return "", apperrors.Validation("Price must be greater than zero")
	}
	msg, err := s.api.UpdateProperty(ctx, snap.Token, propertyID, u)
	if err != nil {
		return "", err
	}
	s.Invalidate(ctx)
	return msg, nil
}

func (s *propertyService) Delete(ctx context.Context, snap session.Snapshot, propertyID string) (string, error) {
	if propertyID == "" {
		return "", apperrors.ErrMissingFields
	}
	msg, err := s.api.DeleteProperty(ctx, snap.Token, propertyID)
	if err != nil {
		return "", err
	}
	s.Invalidate(ctx)
	return msg, nil
}

// Invalidate drops the cached catalogue so the next read hits the API.
func (s *propertyService) Invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, catalogueCacheKey)
}
