package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/haseeb/volunteer-hub-go/config"
	models "github.com/haseeb/volunteer-hub-go/models"
	utils "github.com/haseeb/volunteer-hub-go/utils"
)

// ---------------- CREATE ----------------
func CreateRegistration(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// --- Authenticated volunteer ---
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var input struct {
			EventID string `json:"event_id" binding:"required"`
			Message string `json:"message" binding:"omitempty,max=500"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": utils.ValidationMessage(err)})
			return
		}

		eventID, err := primitive.ObjectIDFromHex(input.EventID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid event id"})
			return
		}

		db := cfg.MongoClient.Database(cfg.DBName)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// --- Check the event exists and is still open ---
		var event models.Event
		err = db.Collection("events").FindOne(ctx, bson.M{"_id": eventID}).Decode(&event)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Event not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not fetch event"})
			return
		}
		if event.Status != models.EventStatusUpcoming {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Cannot register for this event"})
			return
		}

		regCol := db.Collection("registrations")

		// --- Advisory duplicate check; the unique index is authoritative ---
		err = regCol.FindOne(ctx, bson.M{"event": eventID, "volunteer": userID}).Err()
		if err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "You have already registered for this event"})
			return
		}
		if err != mongo.ErrNoDocuments {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not check registrations"})
			return
		}

		// --- Capacity check: only pending and approved registrations count ---
		count, err := regCol.CountDocuments(ctx, bson.M{
			"event":  eventID,
			"status": bson.M{"$in": models.ActiveRegistrationStatuses},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not count registrations"})
			return
		}
		if count >= int64(event.VolunteersNeeded) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No spots available for this event"})
			return
		}

		now := time.Now()
		registration := models.Registration{
			ID:           primitive.NewObjectID(),
			EventID:      eventID,
			VolunteerID:  userID,
			Status:       models.RegistrationPending,
			Message:      input.Message,
			RegisteredAt: now,
			UpdatedAt:    now,
		}

		if _, err := regCol.InsertOne(ctx, registration); err != nil {
			// Two concurrent attempts for the same (event, volunteer) pair:
			// the unique index lets exactly one through.
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "You have already registered for this event"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not create registration"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": registration})
	}
}

// ---------------- EVENT REGISTRATIONS ----------------
func ListEventRegistrations(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := primitive.ObjectIDFromHex(c.Param("eventId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid event id"})
			return
		}

		db := cfg.MongoClient.Database(cfg.DBName)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var event models.Event
		err = db.Collection("events").FindOne(ctx, bson.M{"_id": eventID}).Decode(&event)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Event not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not fetch event"})
			return
		}

		if !requireOwner(c, event.NGOID, "Not authorized to view these registrations") {
			return
		}

		cursor, err := db.Collection("registrations").Find(ctx, bson.M{"event": eventID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not fetch registrations"})
			return
		}

		regs := []models.Registration{}
		if err := cursor.All(ctx, &regs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not decode registrations"})
			return
		}

		if err := attachVolunteers(ctx, cfg, regs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not fetch volunteers"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(regs), "data": regs})
	}
}

// ---------------- MY REGISTRATIONS ----------------
func ListMyRegistrations(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		db := cfg.MongoClient.Database(cfg.DBName)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := db.Collection("registrations").Find(ctx,
			bson.M{"volunteer": userID},
			options.Find().SetSort(bson.D{{Key: "registered_at", Value: -1}}),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not fetch registrations"})
			return
		}

		regs := []models.Registration{}
		if err := cursor.All(ctx, &regs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not decode registrations"})
			return
		}

		if err := attachEvents(ctx, cfg, regs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not fetch events"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(regs), "data": regs})
	}
}

// attachEvents loads each registration's event, with the organizing NGO's
// organization name attached, in two queries.
func attachEvents(ctx context.Context, cfg *config.Config, regs []models.Registration) error {
	if len(regs) == 0 {
		return nil
	}

	seen := make(map[primitive.ObjectID]bool, len(regs))
	ids := make([]primitive.ObjectID, 0, len(regs))
	for _, reg := range regs {
		if !seen[reg.EventID] {
			seen[reg.EventID] = true
			ids = append(ids, reg.EventID)
		}
	}

	cursor, err := cfg.MongoClient.Database(cfg.DBName).
		Collection("events").
		Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}

	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return err
	}

	if err := attachNGOs(ctx, cfg, events, ngoOrgProjection); err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]*models.Event, len(events))
	for i := range events {
		byID[events[i].ID] = &events[i]
	}
	for i := range regs {
		regs[i].Event = byID[regs[i].EventID]
	}
	return nil
}

// ---------------- UPDATE STATUS ----------------
func UpdateRegistrationStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		regID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid registration id"})
			return
		}

		// Any enum value is accepted from any prior state; the NGO uses the
		// statuses as bookkeeping, not a strict workflow.
		var input struct {
			Status string `json:"status" binding:"required,oneof=pending approved rejected attended no-show"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": utils.ValidationMessage(err)})
			return
		}

		db := cfg.MongoClient.Database(cfg.DBName)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		regCol := db.Collection("registrations")

		var registration models.Registration
		err = regCol.FindOne(ctx, bson.M{"_id": regID}).Decode(&registration)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Registration not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not fetch registration"})
			return
		}

		// --- Ownership is checked against the registration's event ---
		var event models.Event
		err = db.Collection("events").FindOne(ctx, bson.M{"_id": registration.EventID}).Decode(&event)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Event not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not fetch event"})
			return
		}

		if !requireOwner(c, event.NGOID, "Not authorized to update this registration") {
			return
		}

		update := bson.M{"status": input.Status, "updated_at": time.Now()}
		if _, err := regCol.UpdateOne(ctx, bson.M{"_id": regID}, bson.M{"$set": update}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not update registration"})
			return
		}

		var updated models.Registration
		if err := regCol.FindOne(ctx, bson.M{"_id": regID}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to retrieve updated registration"})
			return
		}

		regs := []models.Registration{updated}
		if err := attachVolunteers(ctx, cfg, regs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not fetch volunteer"})
			return
		}

		// Best-effort decision notice; failures are logged, never surfaced.
		if input.Status == models.RegistrationApproved || input.Status == models.RegistrationRejected {
			go notifyRegistrationDecision(cfg, updated, event.Title)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": regs[0]})
	}
}

func notifyRegistrationDecision(cfg *config.Config, reg models.Registration, eventTitle string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var volunteer models.User
	err := cfg.MongoClient.Database(cfg.DBName).
		Collection("users").
		FindOne(ctx, bson.M{"_id": reg.VolunteerID}).
		Decode(&volunteer)
	if err != nil {
		log.Printf("could not load volunteer for decision email: %v", err)
		return
	}

	subject, body := utils.RegistrationDecisionEmail(volunteer.Name, eventTitle, reg.Status)
	if err := utils.SendEmail(volunteer.Email, volunteer.Name, subject, body); err != nil {
		log.Printf("could not send decision email to %s: %v", volunteer.Email, err)
	}
}

// ---------------- CANCEL ----------------
func CancelRegistration(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		regID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid registration id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("registrations")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var registration models.Registration
		err = col.FindOne(ctx, bson.M{"_id": regID}).Decode(&registration)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Registration not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not fetch registration"})
			return
		}

		// --- Only the registering volunteer may cancel ---
		if !requireOwner(c, registration.VolunteerID, "Not authorized to cancel this registration") {
			return
		}

		if _, err := col.DeleteOne(ctx, bson.M{"_id": regID}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to delete registration"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
	}
}
