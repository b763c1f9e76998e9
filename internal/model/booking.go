package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// BookingStatus is the lifecycle state of a booking request.
type BookingStatus string

const (
	BookingPending  BookingStatus = "pending"
	BookingBooked   BookingStatus = "booked"
	BookingRejected BookingStatus = "rejected"
)

// Terminal reports whether no further transition is allowed.
func (s BookingStatus) Terminal() bool {
	return s == BookingBooked || s == BookingRejected
}

// CanTransition reports whether a booking may move from s to next.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	return s == BookingPending && next.Terminal()
}

// UnmarshalJSON lower-cases the status so comparisons stay exact afterwards.
func (s *BookingStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = BookingStatus(strings.ToLower(strings.TrimSpace(raw)))
	return nil
}

// Booking is a renter's request to occupy a property.
type Booking struct {
	ID         string        `json:"_id"`
	PropertyID string        `json:"propertyId"`
	Property   *Property     `json:"property,omitempty"`
	OwnerID    string        `json:"ownerID,omitempty"`
	RenterID   string        `json:"userID,omitempty"`
	RenterName string        `json:"userName"`
	Phone      string        `json:"phone"`
	Status     BookingStatus `json:"bookingStatus"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// UnmarshalJSON accepts the property reference under either "propertyId" or
// "propertId", as a plain ID or as an embedded property document.
func (b *Booking) UnmarshalJSON(data []byte) error {
	type bookingAlias Booking
	var aux struct {
		bookingAlias
		PropertyID json.RawMessage `json:"propertyId"`
		PropertID  json.RawMessage `json:"propertId"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*b = Booking(aux.bookingAlias)

	ref := aux.PropertyID
	if len(bytes.TrimSpace(ref)) == 0 || bytes.Equal(bytes.TrimSpace(ref), []byte("null")) {
		ref = aux.PropertID
	}
	id, prop, err := decodePropertyRef(ref)
	if err != nil {
		return err
	}
	b.PropertyID = id
	if prop != nil {
		b.Property = prop
	}
	return nil
}

func decodePropertyRef(raw json.RawMessage) (string, *Property, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil, nil
	}
	if raw[0] == '"' {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return "", nil, err
		}
		return id, nil, nil
	}
	var p Property
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", nil, err
	}
	return p.ID, &p, nil
}

// PendingForProperty returns the pending bookings of propertyID in listing
// order, leaving out excludeID.
func PendingForProperty(bookings []Booking, propertyID, excludeID string) []Booking {
	var out []Booking
	for _, b := range bookings {
		if b.PropertyID == propertyID && b.ID != excludeID && b.Status == BookingPending {
			out = append(out, b)
		}
	}
	return out
}

// FindBooking returns the booking with the given ID.
func FindBooking(bookings []Booking, id string) (Booking, bool) {
	for _, b := range bookings {
		if b.ID == id {
			return b, true
		}
	}
	return Booking{}, false
}

// AttachProperties fills in Property for bookings that only carry an ID.
func AttachProperties(bookings []Booking, properties []Property) []Booking {
	idx := IndexProperties(properties)
	out := make([]Booking, len(bookings))
	for i, b := range bookings {
		if b.Property == nil {
			if p, ok := idx[b.PropertyID]; ok {
				p := p
				b.Property = &p
			}
		}
		out[i] = b
	}
	return out
}
