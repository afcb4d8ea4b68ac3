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

// ---------------- LIST ----------------
func ListEvents(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.MongoClient.Database(cfg.DBName).Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// --- Build filter ---
		filter := buildEventFilter(c.Query("status"), c.Query("event_type"), c.Query("city"))

		// --- Fetch data, soonest first ---
		cursor, err := col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not fetch events"})
			return
		}

		events := []models.Event{}
		if err := cursor.All(ctx, &events); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not decode events"})
			return
		}

		// --- Attach NGO summaries and registrations ---
		if err := attachNGOs(ctx, cfg, events, ngoSummaryProjection); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not fetch event organizers"})
			return
		}
		if err := attachRegistrations(ctx, cfg, events); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not fetch registrations"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(events), "data": events})
	}
}

// ---------------- GET ----------------
func GetEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid event id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var event models.Event
		err = cfg.MongoClient.Database(cfg.DBName).
			Collection("events").
			FindOne(ctx, bson.M{"_id": eventID}).
			Decode(&event)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Event not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not fetch event"})
			return
		}

		events := []models.Event{event}
		if err := attachNGOs(ctx, cfg, events, ngoProfileProjection); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not fetch event organizer"})
			return
		}
		if err := attachRegistrations(ctx, cfg, events); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not fetch registrations"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": events[0]})
	}
}

// ---------------- CREATE ----------------
func CreateEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// --- Authenticated user ---
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		// --- Bind and validate payload ---
		var input struct {
			Title            string          `json:"title" binding:"required,max=100"`
			Description      string          `json:"description" binding:"required,max=2000"`
			EventType        string          `json:"event_type" binding:"required,oneof=beach-clean food-drive tree-plantation education health-camp animal-welfare other"`
			Location         models.Location `json:"location" binding:"required"`
			Date             time.Time       `json:"date" binding:"required"`
			StartTime        string          `json:"start_time" binding:"required"`
			EndTime          string          `json:"end_time" binding:"required"`
			VolunteersNeeded int             `json:"volunteers_needed" binding:"required,min=1"`
			Requirements     string          `json:"requirements" binding:"omitempty,max=500"`
			Status           string          `json:"status" binding:"omitempty,oneof=upcoming ongoing completed cancelled"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": utils.ValidationMessage(err)})
			return
		}

		status := input.Status
		if status == "" {
			status = models.EventStatusUpcoming
		}

		// --- Save event; the owner is always the authenticated NGO ---
		event := models.Event{
			ID:               primitive.NewObjectID(),
			NGOID:            userID,
			Title:            input.Title,
			Description:      input.Description,
			EventType:        input.EventType,
			Location:         input.Location,
			Date:             input.Date,
			StartTime:        input.StartTime,
			EndTime:          input.EndTime,
			VolunteersNeeded: input.VolunteersNeeded,
			Requirements:     input.Requirements,
			Status:           status,
			CreatedAt:        time.Now(),
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := col.InsertOne(ctx, event); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not create event"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": event})
	}
}

// ---------------- UPDATE ----------------
func UpdateEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		objID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid event id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// --- Fetch existing event ---
		var existing models.Event
		if err := col.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Event not found"})
			return
		}

		// --- Check ownership ---
		if !requireOwner(c, existing.NGOID, "Not authorized to update this event") {
			return
		}

		// --- Bind partial update ---
		var input struct {
			Title            string           `json:"title" binding:"omitempty,max=100"`
			Description      string           `json:"description" binding:"omitempty,max=2000"`
			EventType        string           `json:"event_type" binding:"omitempty,oneof=beach-clean food-drive tree-plantation education health-camp animal-welfare other"`
			Location         *models.Location `json:"location"`
			Date             *time.Time       `json:"date"`
			StartTime        string           `json:"start_time"`
			EndTime          string           `json:"end_time"`
			VolunteersNeeded *int             `json:"volunteers_needed" binding:"omitempty,min=1"`
			Requirements     *string          `json:"requirements" binding:"omitempty,max=500"`
			Status           string           `json:"status" binding:"omitempty,oneof=upcoming ongoing completed cancelled"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": utils.ValidationMessage(err)})
			return
		}

		// --- Prepare update document; the ngo reference is immutable ---
		update := bson.M{}
		if input.Title != "" {
			update["title"] = input.Title
		}
		if input.Description != "" {
			update["description"] = input.Description
		}
		if input.EventType != "" {
			update["event_type"] = input.EventType
		}
		if input.Location != nil {
			update["location"] = *input.Location
		}
		if input.Date != nil {
			update["date"] = *input.Date
		}
		if input.StartTime != "" {
			update["start_time"] = input.StartTime
		}
		if input.EndTime != "" {
			update["end_time"] = input.EndTime
		}
		if input.VolunteersNeeded != nil {
			update["volunteers_needed"] = *input.VolunteersNeeded
		}
		if input.Requirements != nil {
			update["requirements"] = *input.Requirements
		}
		if input.Status != "" {
			update["status"] = input.Status
		}

		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "no fields to update"})
			return
		}

		if _, err := col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not update event"})
			return
		}

		// --- Fetch updated event ---
		var updated models.Event
		if err := col.FindOne(ctx, bson.M{"_id": objID}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to retrieve updated event"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
	}
}

// ---------------- DELETE ----------------
func DeleteEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid event id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// --- Fetch existing event ---
		var existing models.Event
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Event not found"})
			return
		}

		// --- Check ownership ---
		if !requireOwner(c, existing.NGOID, "Not authorized to delete this event") {
			return
		}

		// Registrations go first so a crash between the two deletes leaves a
		// still-deletable event rather than orphaned registrations; retrying
		// the cascade is a no-op.
		regCol := cfg.MongoClient.Database(cfg.DBName).Collection("registrations")
		if _, err := regCol.DeleteMany(ctx, bson.M{"event": oid}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to delete event registrations"})
			return
		}

		if _, err := col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to delete event"})
			return
		}

		// Best-effort image cleanup
		for _, img := range existing.Images {
			if err := utils.DeleteEventImage(img); err != nil {
				log.Printf("could not delete event image %s: %v", img, err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
	}
}

// ---------------- MY EVENTS ----------------
func ListMyEvents(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := col.Find(ctx, bson.M{"ngo": userID}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not fetch events"})
			return
		}

		events := []models.Event{}
		if err := cursor.All(ctx, &events); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not decode events"})
			return
		}

		if err := attachRegistrations(ctx, cfg, events); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not fetch registrations"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(events), "data": events})
	}
}

// ---------------- IMAGES ----------------
func UploadEventImages(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid event id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var existing models.Event
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Event not found"})
			return
		}

		if !requireOwner(c, existing.NGOID, "Not authorized to update this event") {
			return
		}

		// --- Handle file uploads ---
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid form data"})
			return
		}

		files := form.File["images"] // key must be "images"
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "no images provided"})
			return
		}

		var imageURLs []string
		for _, fileHeader := range files {
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to open file"})
				return
			}

			url, err := utils.UploadEventImage(file, fileHeader)
			file.Close()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   "image upload failed",
					"details": err.Error(),
					"file":    fileHeader.Filename,
				})
				return
			}

			imageURLs = append(imageURLs, url)
		}

		update := bson.M{"$push": bson.M{"images": bson.M{"$each": imageURLs}}}
		if _, err := col.UpdateOne(ctx, bson.M{"_id": oid}, update); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not save images"})
			return
		}

		var updated models.Event
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to retrieve updated event"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
	}
}
