// Seeder: wipes the database and loads demo NGOs, volunteers, events and
// registrations for local development.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	config "github.com/haseeb/volunteer-hub-go/config"
	models "github.com/haseeb/volunteer-hub-go/models"
)

const demoPassword = "password123"

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := cfg.MongoClient.Database(cfg.DBName)

	log.Println("Clearing existing data...")
	for _, name := range []string{"users", "events", "registrations"} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s: %v", name, err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	now := time.Now()

	log.Println("Creating NGO accounts...")
	ngos := []models.User{
		{
			ID:                      primitive.NewObjectID(),
			Name:                    "Green Earth Foundation",
			Email:                   "ngo1@example.com",
			Password:                string(hash),
			Role:                    models.RoleNGO,
			Phone:                   "+92-300-1234567",
			OrganizationName:        "Green Earth Foundation",
			OrganizationDescription: "Dedicated to environmental conservation and sustainability initiatives across Pakistan.",
			CreatedAt:               now,
		},
		{
			ID:                      primitive.NewObjectID(),
			Name:                    "Hope for All Pakistan",
			Email:                   "ngo2@example.com",
			Password:                string(hash),
			Role:                    models.RoleNGO,
			Phone:                   "+92-321-9876543",
			OrganizationName:        "Hope for All Pakistan",
			OrganizationDescription: "Providing food, education, and healthcare to underprivileged communities.",
			CreatedAt:               now,
		},
	}
	for _, ngo := range ngos {
		if _, err := db.Collection("users").InsertOne(ctx, ngo); err != nil {
			log.Fatalf("Failed to create NGO %s: %v", ngo.Email, err)
		}
		log.Printf("  Created NGO: %s", ngo.OrganizationName)
	}

	log.Println("Creating Volunteer accounts...")
	volunteers := []models.User{
		{
			ID:           primitive.NewObjectID(),
			Name:         "Ahmed Khan",
			Email:        "volunteer1@example.com",
			Password:     string(hash),
			Role:         models.RoleVolunteer,
			Phone:        "+92-333-1111111",
			Skills:       []string{"Teaching", "First Aid", "Photography"},
			Availability: "weekends",
			CreatedAt:    now,
		},
		{
			ID:           primitive.NewObjectID(),
			Name:         "Sara Ali",
			Email:        "volunteer2@example.com",
			Password:     string(hash),
			Role:         models.RoleVolunteer,
			Phone:        "+92-344-2222222",
			Skills:       []string{"Cooking", "Event Management", "Social Media"},
			Availability: "flexible",
			CreatedAt:    now,
		},
	}
	for _, v := range volunteers {
		if _, err := db.Collection("users").InsertOne(ctx, v); err != nil {
			log.Fatalf("Failed to create volunteer %s: %v", v.Email, err)
		}
		log.Printf("  Created Volunteer: %s", v.Name)
	}

	log.Println("Creating sample events...")
	events := sampleEvents(ngos[0].ID, now)
	for _, ev := range events {
		if _, err := db.Collection("events").InsertOne(ctx, ev); err != nil {
			log.Fatalf("Failed to create event %s: %v", ev.Title, err)
		}
		log.Printf("  Created Event: %s", ev.Title)
	}

	log.Println("Creating sample registrations...")
	registrations := []models.Registration{
		{
			ID:           primitive.NewObjectID(),
			EventID:      events[0].ID,
			VolunteerID:  volunteers[0].ID,
			Status:       models.RegistrationApproved,
			Message:      "I am very excited to participate in this beach cleanup!",
			RegisteredAt: now,
			UpdatedAt:    now,
		},
		{
			ID:           primitive.NewObjectID(),
			EventID:      events[1].ID,
			VolunteerID:  volunteers[1].ID,
			Status:       models.RegistrationPending,
			Message:      "Looking forward to helping with food distribution.",
			RegisteredAt: now,
			UpdatedAt:    now,
		},
	}
	for _, reg := range registrations {
		if _, err := db.Collection("registrations").InsertOne(ctx, reg); err != nil {
			log.Fatalf("Failed to create registration: %v", err)
		}
	}

	log.Println("Database seeded successfully!")
	log.Println("NGO login: ngo1@example.com / " + demoPassword)
	log.Println("Volunteer login: volunteer1@example.com / " + demoPassword)
	log.Printf("NGOs: %d, Volunteers: %d, Events: %d, Registrations: %d",
		len(ngos), len(volunteers), len(events), len(registrations))
}

func sampleEvents(ngoID primitive.ObjectID, now time.Time) []models.Event {
	date := func(s string) time.Time {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			log.Fatalf("bad sample date %q: %v", s, err)
		}
		return t
	}

	return []models.Event{
		{
			ID:          primitive.NewObjectID(),
			NGOID:       ngoID,
			Title:       "Beach Cleanup Drive - Clifton",
			Description: "Join us for a beach cleanup drive at Clifton Beach. We will collect trash, plastic waste, and help restore the natural beauty of our coastline. All cleaning materials will be provided. Bring your enthusiasm and a reusable water bottle!",
			EventType:   "beach-clean",
			Location: models.Location{
				Address: "Clifton Beach, Near Do Darya",
				City:    "Karachi",
			},
			Date:             date("2025-01-15"),
			StartTime:        "07:00",
			EndTime:          "11:00",
			VolunteersNeeded: 50,
			Requirements:     "Wear comfortable clothes and shoes that can get wet. Sunscreen recommended.",
			Status:           models.EventStatusUpcoming,
			CreatedAt:        now,
		},
		{
			ID:          primitive.NewObjectID(),
			NGOID:       ngoID,
			Title:       "Food Distribution - Ramadan Drive",
			Description: "Help us distribute iftar meals and ration packages to families in need. We will be preparing and distributing food packets to over 500 families in the local area.",
			EventType:   "food-drive",
			Location: models.Location{
				Address: "Saddar Town Community Center",
				City:    "Karachi",
			},
			Date:             date("2025-01-20"),
			StartTime:        "15:00",
			EndTime:          "19:00",
			VolunteersNeeded: 30,
			Requirements:     "Basic physical fitness for loading and carrying food packages.",
			Status:           models.EventStatusUpcoming,
			CreatedAt:        now,
		},
		{
			ID:          primitive.NewObjectID(),
			NGOID:       ngoID,
			Title:       "Tree Plantation Campaign",
			Description: "Be part of our annual tree plantation drive! We aim to plant 1000 trees in the city to combat climate change and improve air quality. Training will be provided on proper planting techniques.",
			EventType:   "tree-plantation",
			Location: models.Location{
				Address: "Model Colony Park",
				City:    "Lahore",
			},
			Date:             date("2025-02-01"),
			StartTime:        "08:00",
			EndTime:          "12:00",
			VolunteersNeeded: 100,
			Requirements:     "Bring gardening gloves if you have them. Water will be provided.",
			Status:           models.EventStatusUpcoming,
			CreatedAt:        now,
		},
		{
			ID:          primitive.NewObjectID(),
			NGOID:       ngoID,
			Title:       "Free Health Camp",
			Description: "Volunteer at our free health camp providing basic medical checkups, blood pressure monitoring, and health awareness sessions to the community.",
			EventType:   "health-camp",
			Location: models.Location{
				Address: "Government School Ground, Gulberg",
				City:    "Lahore",
			},
			Date:             date("2025-02-10"),
			StartTime:        "09:00",
			EndTime:          "16:00",
			VolunteersNeeded: 25,
			Requirements:     "Medical students and healthcare professionals preferred but not required.",
			Status:           models.EventStatusUpcoming,
			CreatedAt:        now,
		},
		{
			ID:          primitive.NewObjectID(),
			NGOID:       ngoID,
			Title:       "Education Workshop for Street Children",
			Description: "Help teach basic literacy and numeracy skills to street children. We provide all materials - you just need to bring patience and enthusiasm!",
			EventType:   "education",
			Location: models.Location{
				Address: "Community Hall, F-7",
				City:    "Islamabad",
			},
			Date:             date("2025-01-25"),
			StartTime:        "10:00",
			EndTime:          "14:00",
			VolunteersNeeded: 15,
			Requirements:     "Basic teaching ability. Training provided.",
			Status:           models.EventStatusUpcoming,
			CreatedAt:        now,
		},
	}
}
