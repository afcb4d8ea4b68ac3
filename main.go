package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	config "github.com/haseeb/volunteer-hub-go/config"
	routes "github.com/haseeb/volunteer-hub-go/routes"
	utils "github.com/haseeb/volunteer-hub-go/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading config from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	defer cfg.Close()

	if err := config.EnsureIndexes(cfg); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	utils.RegisterValidatorTagNames()

	r := gin.Default()
	r.Use(cors.Default())

	routes.SetupRoutes(r, cfg)

	log.Printf("Server running on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
