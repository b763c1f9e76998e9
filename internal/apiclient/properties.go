package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"househunt/internal/model"
)

// NewProperty is the owner's listing form.
type NewProperty struct {
	OwnerID        string
	Type           string
	ListingType    model.ListingType
	Address        string
	OwnerContact   string
	Price          decimal.Decimal
	AdditionalInfo string
	BHKType        string
}

// PropertyUpdate carries the fields an owner may change; nil fields are left alone.
type PropertyUpdate struct {
	Availability   *model.Availability `json:"isAvailable,omitempty"`
	Price          *decimal.Decimal    `json:"propertyAmt,omitempty"`
	Address        *string             `json:"propertyAddress,omitempty"`
	OwnerContact   *string             `json:"ownerContact,omitempty"`
	AdditionalInfo *string             `json:"additionalInfo,omitempty"`
}

// ListProperties returns the public catalogue. token may be empty.
func (c *Client) ListProperties(ctx context.Context, token string) ([]model.Property, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/api/user/getAllProperties", token, nil)
	if err != nil {
		return nil, err
	}
	var out []model.Property
	if err := env.decodeData(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListOwnerProperties returns the properties of the token's owner.
func (c *Client) ListOwnerProperties(ctx context.Context, token string) ([]model.Property, error) {
	if err := c.authed(token); err != nil {
		return nil, err
	}
	env, err := c.doJSON(ctx, http.MethodGet, "/api/owner/getallproperties", token, nil)
	if err != nil {
		return nil, err
	}
	var out []model.Property
	if err := env.decodeData(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProperty posts a new listing as multipart form fields.
func (c *Client) CreateProperty(ctx context.Context, token string, p NewProperty) (string, error) {
	if err := c.authed(token); err != nil {
		return "", err
	}
	fields := []formField{
		{"propertyType", p.Type},
		{"propertyAdType", string(p.ListingType)},
		{"propertyAddress", p.Address},
		{"ownerContact", p.OwnerContact},
		{"propertyAmt", p.Price.String()},
		{"additionalInfo", p.AdditionalInfo},
		{"userId", p.OwnerID},
	}
	if p.Type == model.PropertyFlat {
		fields = append(fields, formField{"bhkType", p.BHKType})
	}
	env, err := c.doForm(ctx, http.MethodPost, "/api/owner/postproperty", token, fields)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// UpdateProperty changes an owner's listing.
func (c *Client) UpdateProperty(ctx context.Context, token, propertyID string, u PropertyUpdate) (string, error) {
	if err := c.authed(token); err != nil {
		return "", err
	}
	env, err := c.doJSON(ctx, http.MethodPatch, "/api/owner/updateproperty/"+url.PathEscape(propertyID), token, u)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// DeleteProperty removes an owner's listing.
func (c *Client) DeleteProperty(ctx context.Context, token, propertyID string) (string, error) {
	if err := c.authed(token); err != nil {
		return "", err
	}
	env, err := c.doJSON(ctx, http.MethodDelete, "/api/owner/deleteproperty/"+url.PathEscape(propertyID), token, nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
