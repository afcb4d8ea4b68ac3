// Integration tests exercising the full HTTP API against a real MongoDB.
// They are skipped unless MONGO_TEST_URI is set, e.g.
//
//	MONGO_TEST_URI=mongodb://localhost:27017 go test ./controllers/...
//
// Each test run uses a throwaway database that is dropped afterwards.
package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/haseeb/volunteer-hub-go/config"
	routes "github.com/haseeb/volunteer-hub-go/routes"
	utils "github.com/haseeb/volunteer-hub-go/utils"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Token   string          `json:"token"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
}

func setupTestAPI(t *testing.T) (*gin.Engine, *config.Config) {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	cfg := &config.Config{
		MongoClient: client,
		DBName:      fmt.Sprintf("volunteer_hub_test_%d", time.Now().UnixNano()),
		JWTSecret:   "integration-test-secret",
	}
	require.NoError(t, config.EnsureIndexes(cfg))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = client.Database(cfg.DBName).Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	utils.RegisterValidatorTagNames()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	routes.SetupRoutes(r, cfg)
	return r, cfg
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w, resp
}

func registerUser(t *testing.T, r http.Handler, role, name string) (string, string) {
	t.Helper()

	email := fmt.Sprintf("%s@example.com", primitive.NewObjectID().Hex())
	payload := map[string]interface{}{
		"name":     name,
		"email":    email,
		"password": "password123",
		"role":     role,
	}
	if role == "ngo" {
		payload["organization_name"] = name
	}

	w, resp := doJSON(t, r, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotEmpty(t, resp.Token)

	var user struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &user))
	return resp.Token, user.ID
}

func createEvent(t *testing.T, r http.Handler, token string, overrides map[string]interface{}) string {
	t.Helper()

	payload := map[string]interface{}{
		"title":             "Beach Cleanup Drive",
		"description":       "Help clean the beach.",
		"event_type":        "beach-clean",
		"location":          map[string]string{"address": "Clifton Beach", "city": "Karachi"},
		"date":              time.Now().Add(14 * 24 * time.Hour).UTC().Format(time.RFC3339),
		"start_time":        "07:00",
		"end_time":          "11:00",
		"volunteers_needed": 10,
	}
	for k, v := range overrides {
		payload[k] = v
	}

	w, resp := doJSON(t, r, http.MethodPost, "/api/events", token, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var event struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &event))
	return event.ID
}

func registerForEvent(t *testing.T, r http.Handler, token, eventID string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	return doJSON(t, r, http.MethodPost, "/api/registrations", token, map[string]interface{}{
		"event_id": eventID,
		"message":  "Count me in!",
	})
}

func TestHealthCheck(t *testing.T) {
	r, _ := setupTestAPI(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}

func TestCapacityLifecycle(t *testing.T) {
	r, _ := setupTestAPI(t)

	ngoToken, _ := registerUser(t, r, "ngo", "Green Earth Foundation")
	v1Token, _ := registerUser(t, r, "volunteer", "Ahmed Khan")
	v2Token, _ := registerUser(t, r, "volunteer", "Sara Ali")

	eventID := createEvent(t, r, ngoToken, map[string]interface{}{"volunteers_needed": 1})

	// V1 takes the only spot
	w, resp := registerForEvent(t, r, v1Token, eventID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reg struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &reg))
	assert.Equal(t, "pending", reg.Status)

	// V2 is turned away
	w, resp = registerForEvent(t, r, v2Token, eventID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No spots available for this event", resp.Error)

	// Approval keeps the spot occupied
	w, resp = doJSON(t, r, http.MethodPut, "/api/registrations/"+reg.ID, ngoToken, map[string]interface{}{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &updated))
	assert.Equal(t, "approved", updated.Status)

	// Cancellation frees it again
	w, _ = doJSON(t, r, http.MethodDelete, "/api/registrations/"+reg.ID, v1Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = registerForEvent(t, r, v2Token, eventID)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestDuplicateRegistration(t *testing.T) {
	r, _ := setupTestAPI(t)

	ngoToken, _ := registerUser(t, r, "ngo", "Hope for All")
	vToken, _ := registerUser(t, r, "volunteer", "Ahmed Khan")
	eventID := createEvent(t, r, ngoToken, nil)

	w, _ := registerForEvent(t, r, vToken, eventID)
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := registerForEvent(t, r, vToken, eventID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You have already registered for this event", resp.Error)
}

func TestConcurrentDuplicateRegistration(t *testing.T) {
	r, _ := setupTestAPI(t)

	ngoToken, _ := registerUser(t, r, "ngo", "Hope for All")
	vToken, _ := registerUser(t, r, "volunteer", "Ahmed Khan")
	eventID := createEvent(t, r, ngoToken, map[string]interface{}{"volunteers_needed": 100})

	const attempts = 2
	codes := make(chan int, attempts)
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			w, _ := registerForEvent(t, r, vToken, eventID)
			codes <- w.Code
		}()
	}
	wg.Wait()
	close(codes)

	created, rejected := 0, 0
	for code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest:
			rejected++
		default:
			t.Fatalf("unexpected status code %d", code)
		}
	}
	// The unique index admits exactly one of two simultaneous attempts.
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, rejected)
}

func TestEventOwnership(t *testing.T) {
	r, _ := setupTestAPI(t)

	ownerToken, _ := registerUser(t, r, "ngo", "Owner NGO")
	otherToken, _ := registerUser(t, r, "ngo", "Other NGO")
	eventID := createEvent(t, r, ownerToken, nil)

	update := map[string]interface{}{"title": "Updated Title"}

	w, resp := doJSON(t, r, http.MethodPut, "/api/events/"+eventID, otherToken, update)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Not authorized to update this event", resp.Error)

	w, _ = doJSON(t, r, http.MethodDelete, "/api/events/"+eventID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp = doJSON(t, r, http.MethodPut, "/api/events/"+eventID, ownerToken, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var event struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &event))
	assert.Equal(t, "Updated Title", event.Title)
}

func TestDeleteEventCascadesRegistrations(t *testing.T) {
	r, cfg := setupTestAPI(t)

	ngoToken, _ := registerUser(t, r, "ngo", "Green Earth Foundation")
	v1Token, _ := registerUser(t, r, "volunteer", "Ahmed Khan")
	v2Token, _ := registerUser(t, r, "volunteer", "Sara Ali")
	eventID := createEvent(t, r, ngoToken, nil)

	w, _ := registerForEvent(t, r, v1Token, eventID)
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = registerForEvent(t, r, v2Token, eventID)
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, "/api/events/"+eventID, ngoToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	oid, err := primitive.ObjectIDFromHex(eventID)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	count, err := cfg.MongoClient.Database(cfg.DBName).
		Collection("registrations").
		CountDocuments(ctx, bson.M{"event": oid})
	require.NoError(t, err)
	assert.Zero(t, count)

	w, _ = doJSON(t, r, http.MethodGet, "/api/events/"+eventID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListEventsFilterByStatus(t *testing.T) {
	r, _ := setupTestAPI(t)

	ngoToken, _ := registerUser(t, r, "ngo", "Green Earth Foundation")
	createEvent(t, r, ngoToken, map[string]interface{}{"title": "Upcoming One"})
	createEvent(t, r, ngoToken, map[string]interface{}{"title": "Finished One", "status": "completed"})

	w, resp := doJSON(t, r, http.MethodGet, "/api/events?status=completed", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, resp.Count)

	var events []struct {
		Title  string `json:"title"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Finished One", events[0].Title)
	assert.Equal(t, "completed", events[0].Status)
}

func TestRegisterForNonUpcomingEvent(t *testing.T) {
	r, _ := setupTestAPI(t)

	ngoToken, _ := registerUser(t, r, "ngo", "Green Earth Foundation")
	vToken, _ := registerUser(t, r, "volunteer", "Ahmed Khan")
	eventID := createEvent(t, r, ngoToken, map[string]interface{}{"status": "cancelled"})

	w, resp := registerForEvent(t, r, vToken, eventID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot register for this event", resp.Error)
}

func TestGetEventNotFound(t *testing.T) {
	r, _ := setupTestAPI(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/events/"+primitive.NewObjectID().Hex(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Event not found", resp.Error)
}

func TestVolunteerCannotCreateEvent(t *testing.T) {
	r, _ := setupTestAPI(t)

	vToken, _ := registerUser(t, r, "volunteer", "Ahmed Khan")
	w, _ := doJSON(t, r, http.MethodPost, "/api/events", vToken, map[string]interface{}{"title": "Nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateEventValidation(t *testing.T) {
	r, _ := setupTestAPI(t)

	ngoToken, _ := registerUser(t, r, "ngo", "Green Earth Foundation")
	w, resp := doJSON(t, r, http.MethodPost, "/api/events", ngoToken, map[string]interface{}{
		"description":       "Missing title",
		"event_type":        "beach-clean",
		"location":          map[string]string{"address": "Somewhere", "city": "Karachi"},
		"date":              time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"start_time":        "07:00",
		"end_time":          "11:00",
		"volunteers_needed": 5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please add a title", resp.Error)
}

func TestMyRegistrationsIncludeEvent(t *testing.T) {
	r, _ := setupTestAPI(t)

	ngoToken, _ := registerUser(t, r, "ngo", "Green Earth Foundation")
	vToken, _ := registerUser(t, r, "volunteer", "Ahmed Khan")
	eventID := createEvent(t, r, ngoToken, map[string]interface{}{"title": "Tree Plantation"})

	w, _ := registerForEvent(t, r, vToken, eventID)
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := doJSON(t, r, http.MethodGet, "/api/registrations/myregistrations", vToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, resp.Count)

	var regs []struct {
		Event struct {
			Title string `json:"title"`
			NGO   struct {
				OrganizationName string `json:"organization_name"`
			} `json:"ngo_info"`
		} `json:"event_info"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &regs))
	require.Len(t, regs, 1)
	assert.Equal(t, "Tree Plantation", regs[0].Event.Title)
	assert.Equal(t, "Green Earth Foundation", regs[0].Event.NGO.OrganizationName)
}

func TestEventRegistrationsVisibleToOwnerOnly(t *testing.T) {
	r, _ := setupTestAPI(t)

	ownerToken, _ := registerUser(t, r, "ngo", "Owner NGO")
	otherToken, _ := registerUser(t, r, "ngo", "Other NGO")
	vToken, _ := registerUser(t, r, "volunteer", "Ahmed Khan")
	eventID := createEvent(t, r, ownerToken, nil)

	w, _ := registerForEvent(t, r, vToken, eventID)
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/registrations/event/"+eventID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp := doJSON(t, r, http.MethodGet, "/api/registrations/event/"+eventID, ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, resp.Count)

	var regs []struct {
		Volunteer struct {
			Name string `json:"name"`
		} `json:"volunteer_info"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &regs))
	require.Len(t, regs, 1)
	assert.Equal(t, "Ahmed Khan", regs[0].Volunteer.Name)
}

func TestCancelRegistrationOwnership(t *testing.T) {
	r, _ := setupTestAPI(t)

	ngoToken, _ := registerUser(t, r, "ngo", "Green Earth Foundation")
	v1Token, _ := registerUser(t, r, "volunteer", "Ahmed Khan")
	v2Token, _ := registerUser(t, r, "volunteer", "Sara Ali")
	eventID := createEvent(t, r, ngoToken, nil)

	w, resp := registerForEvent(t, r, v1Token, eventID)
	require.Equal(t, http.StatusCreated, w.Code)
	var reg struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &reg))

	w, _ = doJSON(t, r, http.MethodDelete, "/api/registrations/"+reg.ID, v2Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, "/api/registrations/"+reg.ID, v1Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, "/api/registrations/"+reg.ID, v1Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
