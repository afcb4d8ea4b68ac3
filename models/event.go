package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EventStatusUpcoming  = "upcoming"
	EventStatusOngoing   = "ongoing"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"
)

type Location struct {
	Address string `bson:"address" json:"address" binding:"required"`
	City    string `bson:"city" json:"city" binding:"required"`
}

type Event struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NGOID            primitive.ObjectID `bson:"ngo" json:"ngo"` // Owning NGO, immutable after creation
	Title            string             `bson:"title" json:"title"`
	Description      string             `bson:"description" json:"description"`
	EventType        string             `bson:"event_type" json:"event_type"` // beach-clean, food-drive, tree-plantation, education, health-camp, animal-welfare, other
	Location         Location           `bson:"location" json:"location"`
	Date             time.Time          `bson:"date" json:"date"`
	StartTime        string             `bson:"start_time" json:"start_time"`
	EndTime          string             `bson:"end_time" json:"end_time"`
	VolunteersNeeded int                `bson:"volunteers_needed" json:"volunteers_needed"`
	Requirements     string             `bson:"requirements,omitempty" json:"requirements,omitempty"`
	Status           string             `bson:"status" json:"status"` // upcoming, ongoing, completed, cancelled
	Images           []string           `bson:"images,omitempty" json:"images,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`

	// Enriched fields, attached at query time
	NGO           *UserSummary   `bson:"-" json:"ngo_info,omitempty"`
	Registrations []Registration `bson:"-" json:"registrations,omitempty"`
}
