package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RegistrationPending  = "pending"
	RegistrationApproved = "approved"
	RegistrationRejected = "rejected"
	RegistrationAttended = "attended"
	RegistrationNoShow   = "no-show"
)

// ActiveRegistrationStatuses are the statuses that count against an event's
// capacity. Rejecting or cancelling a registration frees the spot.
var ActiveRegistrationStatuses = []string{RegistrationPending, RegistrationApproved}

type Registration struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID      primitive.ObjectID `bson:"event" json:"event"`
	VolunteerID  primitive.ObjectID `bson:"volunteer" json:"volunteer"`
	Status       string             `bson:"status" json:"status"` // pending, approved, rejected, attended, no-show
	Message      string             `bson:"message,omitempty" json:"message,omitempty"`
	RegisteredAt time.Time          `bson:"registered_at" json:"registered_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`

	// Enriched fields, attached at query time
	Volunteer *UserSummary `bson:"-" json:"volunteer_info,omitempty"`
	Event     *Event       `bson:"-" json:"event_info,omitempty"`
}
