package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingActionType names the kind of decision that was sent to the API.
type BookingActionType string

const (
	ActionRequest       BookingActionType = "request"
	ActionConfirm       BookingActionType = "confirm"
	ActionReject        BookingActionType = "reject"
	ActionCascadeReject BookingActionType = "cascade_reject"
)

// BookingActionOutcome is the result of the remote call.
type BookingActionOutcome string

const (
	OutcomeOK     BookingActionOutcome = "ok"
	OutcomeFailed BookingActionOutcome = "failed"
)

// BookingAction is a local audit entry for every booking transition the
// gateway asked the API to perform. Entries are recorded whether the call
// succeeded or failed.
type BookingAction struct {
	ID           uuid.UUID            `json:"id" gorm:"type:char(36);primaryKey"`
	BookingID    string               `json:"booking_id" gorm:"size:64;not null;index"`
	PropertyID   string               `json:"property_id" gorm:"size:64;index"`
	ActorID      string               `json:"actor_id" gorm:"size:64;index"`
	Action       BookingActionType    `json:"action" gorm:"type:varchar(20);not null;index"`
	Outcome      BookingActionOutcome `json:"outcome" gorm:"type:varchar(10);not null;index"`
	ErrorMessage string               `json:"error_message,omitempty" gorm:"type:text"`
	CreatedAt    time.Time            `json:"created_at" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (a *BookingAction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
