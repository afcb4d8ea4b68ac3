package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/haseeb/volunteer-hub-go/config"
	models "github.com/haseeb/volunteer-hub-go/models"
)

// User projections for joined responses. Which profile fields a caller sees
// depends on who is asking and for what.
var (
	ngoSummaryProjection = bson.M{"name": 1, "organization_name": 1, "email": 1}
	ngoProfileProjection = bson.M{"name": 1, "organization_name": 1, "organization_description": 1, "email": 1, "phone": 1}
	ngoOrgProjection     = bson.M{"organization_name": 1}
	volunteerProjection  = bson.M{"name": 1, "email": 1, "phone": 1, "skills": 1, "availability": 1}
)

// currentUserID returns the authenticated user's ObjectID. Responds 401 and
// returns false when the context carries no usable id.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	uid, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid user id"})
		return primitive.NilObjectID, false
	}
	return uid, true
}

// requireOwner is the single ownership gate used by every mutating
// operation: the request proceeds only when the authenticated user owns the
// resource. Responds 403 and returns false otherwise.
func requireOwner(c *gin.Context, ownerID primitive.ObjectID, message string) bool {
	if ownerID.Hex() != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": message})
		return false
	}
	return true
}

// buildEventFilter translates list query parameters into a Mongo filter.
// City matching is a case-insensitive substring match.
func buildEventFilter(status, eventType, city string) bson.M {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	if eventType != "" {
		filter["event_type"] = eventType
	}
	if city != "" {
		filter["location.city"] = bson.M{"$regex": city, "$options": "i"}
	}
	return filter
}

// attachRegistrations loads the registrations of every event in one query
// and attaches them. Registrations are never stored on the event document.
func attachRegistrations(ctx context.Context, cfg *config.Config, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}

	col := cfg.MongoClient.Database(cfg.DBName).Collection("registrations")
	cursor, err := col.Find(ctx, bson.M{"event": bson.M{"$in": ids}})
	if err != nil {
		return err
	}

	var regs []models.Registration
	if err := cursor.All(ctx, &regs); err != nil {
		return err
	}

	byEvent := make(map[primitive.ObjectID][]models.Registration, len(events))
	for _, reg := range regs {
		byEvent[reg.EventID] = append(byEvent[reg.EventID], reg)
	}
	for i := range events {
		events[i].Registrations = byEvent[events[i].ID]
	}
	return nil
}

// attachNGOs loads the owning NGO of every event with the given projection
// and attaches the summaries.
func attachNGOs(ctx context.Context, cfg *config.Config, events []models.Event, projection bson.M) error {
	if len(events) == 0 {
		return nil
	}

	seen := make(map[primitive.ObjectID]bool, len(events))
	ids := make([]primitive.ObjectID, 0, len(events))
	for _, ev := range events {
		if !seen[ev.NGOID] {
			seen[ev.NGOID] = true
			ids = append(ids, ev.NGOID)
		}
	}

	summaries, err := loadUserSummaries(ctx, cfg, ids, projection)
	if err != nil {
		return err
	}
	for i := range events {
		if s, ok := summaries[events[i].NGOID]; ok {
			events[i].NGO = s
		}
	}
	return nil
}

// attachVolunteers loads each registration's volunteer profile and attaches
// the summaries.
func attachVolunteers(ctx context.Context, cfg *config.Config, regs []models.Registration) error {
	if len(regs) == 0 {
		return nil
	}

	seen := make(map[primitive.ObjectID]bool, len(regs))
	ids := make([]primitive.ObjectID, 0, len(regs))
	for _, reg := range regs {
		if !seen[reg.VolunteerID] {
			seen[reg.VolunteerID] = true
			ids = append(ids, reg.VolunteerID)
		}
	}

	summaries, err := loadUserSummaries(ctx, cfg, ids, volunteerProjection)
	if err != nil {
		return err
	}
	for i := range regs {
		if s, ok := summaries[regs[i].VolunteerID]; ok {
			regs[i].Volunteer = s
		}
	}
	return nil
}

// loadUserSummaries fetches the given users in one query, keeping only the
// projected fields.
func loadUserSummaries(ctx context.Context, cfg *config.Config, ids []primitive.ObjectID, projection bson.M) (map[primitive.ObjectID]*models.UserSummary, error) {
	col := cfg.MongoClient.Database(cfg.DBName).Collection("users")
	cursor, err := col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, err
	}

	var users []models.UserSummary
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]*models.UserSummary, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID, nil
}
