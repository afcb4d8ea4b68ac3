package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleNGO       = "ngo"
	RoleVolunteer = "volunteer"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	Role     string             `bson:"role" json:"role"` // ngo, volunteer
	Phone    string             `bson:"phone,omitempty" json:"phone,omitempty"`

	// NGO profile
	OrganizationName        string `bson:"organization_name,omitempty" json:"organization_name,omitempty"`
	OrganizationDescription string `bson:"organization_description,omitempty" json:"organization_description,omitempty"`

	// Volunteer profile
	Skills       []string `bson:"skills,omitempty" json:"skills,omitempty"`
	Availability string   `bson:"availability,omitempty" json:"availability,omitempty"` // weekdays, weekends, both, flexible

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// UserSummary is the subset of user fields attached to joined responses.
// Which fields are populated depends on the projection of the query that
// loaded it.
type UserSummary struct {
	ID                      primitive.ObjectID `bson:"_id" json:"id"`
	Name                    string             `bson:"name,omitempty" json:"name,omitempty"`
	Email                   string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone                   string             `bson:"phone,omitempty" json:"phone,omitempty"`
	OrganizationName        string             `bson:"organization_name,omitempty" json:"organization_name,omitempty"`
	OrganizationDescription string             `bson:"organization_description,omitempty" json:"organization_description,omitempty"`
	Skills                  []string           `bson:"skills,omitempty" json:"skills,omitempty"`
	Availability            string             `bson:"availability,omitempty" json:"availability,omitempty"`
}
