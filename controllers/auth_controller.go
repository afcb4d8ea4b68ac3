package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	config "github.com/haseeb/volunteer-hub-go/config"
	models "github.com/haseeb/volunteer-hub-go/models"
	utils "github.com/haseeb/volunteer-hub-go/utils"
)

const tokenTTL = 30 * 24 * time.Hour

// ---------------- REGISTER ----------------
func Register(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name                    string   `json:"name" binding:"required,max=50"`
			Email                   string   `json:"email" binding:"required,email"`
			Password                string   `json:"password" binding:"required,min=6"`
			Role                    string   `json:"role" binding:"required,oneof=ngo volunteer"`
			Phone                   string   `json:"phone"`
			OrganizationName        string   `json:"organization_name" binding:"omitempty,max=100"`
			OrganizationDescription string   `json:"organization_description" binding:"omitempty,max=500"`
			Skills                  []string `json:"skills"`
			Availability            string   `json:"availability" binding:"omitempty,oneof=weekdays weekends both flexible"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": utils.ValidationMessage(err)})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not hash password"})
			return
		}

		user := models.User{
			ID:                      primitive.NewObjectID(),
			Name:                    input.Name,
			Email:                   input.Email,
			Password:                string(hash),
			Role:                    input.Role,
			Phone:                   input.Phone,
			OrganizationName:        input.OrganizationName,
			OrganizationDescription: input.OrganizationDescription,
			Skills:                  input.Skills,
			Availability:            input.Availability,
			CreatedAt:               time.Now(),
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := col.InsertOne(ctx, user); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not create user"})
			return
		}

		token, err := utils.GenerateToken(user.ID.Hex(), user.Role, cfg.JWTSecret, tokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not generate token"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "token": token, "data": user})
	}
}

// ---------------- LOGIN ----------------
func Login(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": utils.ValidationMessage(err)})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := col.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
			return
		}

		token, err := utils.GenerateToken(user.ID.Hex(), user.Role, cfg.JWTSecret, tokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not generate token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "data": user})
	}
}

// ---------------- ME ----------------
func Me(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := col.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
	}
}
