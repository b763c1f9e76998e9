package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Availability of a listed property.
type Availability string

const (
	Available   Availability = "Available"
	Unavailable Availability = "Unavailable"
)

// ListingType tells whether a property is offered for rent or for sale.
type ListingType string

const (
	ListingRent ListingType = "rent"
	ListingSale ListingType = "sale"
)

// Property types offered by the listing form.
const (
	PropertyHouse  = "house"
	PropertyDuplex = "duplex"
	PropertyFlat   = "flat"
)

// PropertyImage is a stored image path relative to the API host.
type PropertyImage struct {
	Path     string `json:"path"`
	Filename string `json:"filename,omitempty"`
}

// Property is a listing created by an owner.
type Property struct {
	ID             string          `json:"_id"`
	OwnerID        string          `json:"ownerId"`
	Type           string          `json:"propertyType"`
	ListingType    ListingType     `json:"propertyAdType"`
	Address        string          `json:"propertyAddress"`
	OwnerContact   string          `json:"ownerContact"`
	Price          decimal.Decimal `json:"propertyAmt"`
	AdditionalInfo string          `json:"additionalInfo,omitempty"`
	BHKType        string          `json:"bhkType,omitempty"`
	Images         []PropertyImage `json:"propertyImage,omitempty"`
	Availability   Availability    `json:"isAvailable"`
}

// IsAvailable reports whether the property can still be requested.
func (p Property) IsAvailable() bool {
	return strings.EqualFold(string(p.Availability), string(Available))
}

// FilterAvailable returns the properties that are still available, in order.
func FilterAvailable(properties []Property) []Property {
	out := make([]Property, 0, len(properties))
	for _, p := range properties {
		if p.IsAvailable() {
			out = append(out, p)
		}
	}
	return out
}

// IndexProperties maps properties by ID.
func IndexProperties(properties []Property) map[string]Property {
	idx := make(map[string]Property, len(properties))
	for _, p := range properties {
		idx[p.ID] = p
	}
	return idx
}
