package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooking_UnmarshalPropertyReference(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		propertyID string
		embedded   bool
	}{
		{"propertyId string", `{"_id":"b1","propertyId":"p1"}`, "p1", false},
		{"misspelt propertId", `{"_id":"b1","propertId":"p2"}`, "p2", false},
		{"null propertyId falls back", `{"_id":"b1","propertyId":null,"propertId":"p3"}`, "p3", false},
		{"embedded document", `{"_id":"b1","propertyId":{"_id":"p4","propertyType":"house","propertyAmt":"900"}}`, "p4", true},
		{"no reference", `{"_id":"b1"}`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Booking
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &b))
			assert.Equal(t, "b1", b.ID)
			assert.Equal(t, tt.propertyID, b.PropertyID)
			assert.Equal(t, tt.embedded, b.Property != nil)
		})
	}
}

func TestBookingStatus_Normalised(t *testing.T) {
	var b Booking
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"b1","bookingStatus":" Booked "}`), &b))
	assert.Equal(t, BookingBooked, b.Status)
}

func TestBookingStatus_Transitions(t *testing.T) {
	assert.True(t, BookingPending.CanTransition(BookingBooked))
	assert.True(t, BookingPending.CanTransition(BookingRejected))
	assert.False(t, BookingPending.CanTransition(BookingPending))
	assert.False(t, BookingBooked.CanTransition(BookingRejected))
	assert.False(t, BookingRejected.CanTransition(BookingBooked))
}

func TestPendingForProperty_KeepsListingOrder(t *testing.T) {
	bookings := []Booking{
		{ID: "b3", PropertyID: "p1", Status: BookingPending},
		{ID: "b1", PropertyID: "p1", Status: BookingPending},
		{ID: "b2", PropertyID: "p1", Status: BookingRejected},
		{ID: "b4", PropertyID: "p2", Status: BookingPending},
		{ID: "b5", PropertyID: "p1", Status: BookingPending},
	}

	got := PendingForProperty(bookings, "p1", "b1")

	ids := make([]string, len(got))
	for i, b := range got {
		ids[i] = b.ID
	}
	assert.Equal(t, []string{"b3", "b5"}, ids)
}

func TestAttachProperties(t *testing.T) {
	embedded := &Property{ID: "p2", Type: PropertyDuplex}
	bookings := []Booking{
		{ID: "b1", PropertyID: "p1"},
		{ID: "b2", PropertyID: "p2", Property: embedded},
		{ID: "b3", PropertyID: "missing"},
	}

	got := AttachProperties(bookings, []Property{{ID: "p1", Type: PropertyFlat}, {ID: "p2", Type: PropertyHouse}})

	require.NotNil(t, got[0].Property)
	assert.Equal(t, PropertyFlat, got[0].Property.Type)
	assert.Same(t, embedded, got[1].Property)
	assert.Nil(t, got[2].Property)
	assert.Nil(t, bookings[0].Property, "input is left untouched")
}
