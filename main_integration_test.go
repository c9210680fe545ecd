package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"syscall"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Priyanka03s/travel-sid-sub002/internal/utils"
)

const (
	testAppBinary      = "./travel_test_app"
	testAppPort        = "8089"
	testServiceApiPort = "8091"
	testAppURL         = "http://localhost:" + testAppPort
	testServiceApiURL  = "http://localhost:" + testServiceApiPort
	testJwtSecret      = "integration-test-secret"
	testDbName         = "travel_integration_test"
	startupTimeout     = 15 * time.Second
	pingEndpoint       = testAppURL + "/v1/ping"
)

// appRunning is set by TestMain once the binary answers on /v1/ping.
var appRunning bool

// TestMain builds the binary and runs it in "all" mode against the test
// database. Without MONGO_URI the tests are skipped.
func TestMain(m *testing.M) {
	_ = godotenv.Load()
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Println("MONGO_URI not set; integration tests will be skipped.")
		os.Exit(m.Run())
	}
	os.Exit(runWithApp(m, mongoURI))
}

func runWithApp(m *testing.M, mongoURI string) int {
	defer func() { _ = os.Remove(testAppBinary) }()

	buildOutput, err := exec.Command("go", "build", "-o", testAppBinary, ".").CombinedOutput()
	if err != nil {
		log.Printf("Failed to build application: %v\nOutput:\n%s", err, string(buildOutput))
		return 1
	}
	defer dropTestDatabase(mongoURI)

	appCmd := exec.Command(testAppBinary, "-m", "all")
	appCmd.Env = append(os.Environ(),
		"MONGO_URI="+mongoURI,
		"MONGO_DB_NAME="+testDbName,
		"API_PORT="+testAppPort,
		"SERVICE_API_PORT="+testServiceApiPort,
		"JWT_SECRET="+testJwtSecret,
		"AWS_S3_BUCKET=",
		"GIN_MODE=release",
		"RATE_LIMIT_SOFT_BUCKET_SIZE=50",
		"RATE_LIMIT_SOFT_REFILL_RATE=50",
		"RATE_LIMIT_HARD_BUCKET_SIZE=100",
		"RATE_LIMIT_HARD_REFILL_RATE=100",
	)
	appCmd.Stderr = os.Stderr
	appCmd.Stdout = os.Stdout
	if err := appCmd.Start(); err != nil {
		log.Printf("Failed to start application: %v", err)
		return 1
	}
	defer func() {
		if err := appCmd.Process.Signal(syscall.SIGTERM); err != nil {
			_ = appCmd.Process.Kill()
		}
		_, _ = appCmd.Process.Wait()
	}()

	startTime := time.Now()
	for time.Since(startTime) < startupTimeout {
		resp, err := http.Get(pingEndpoint)
		if err == nil {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK && string(body) == "pong" {
				appRunning = true
				break
			}
		}
		time.Sleep(200 * time.Millisecond)
	}
	if !appRunning {
		log.Printf("Application failed to start within %v", startupTimeout)
		return 1
	}
	return m.Run()
}

func dropTestDatabase(mongoURI string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Printf("Cleanup: failed to connect to MongoDB: %v", err)
		return
	}
	defer client.Disconnect(ctx)
	if err := client.Database(testDbName).Drop(ctx); err != nil {
		log.Printf("Cleanup: failed to drop %s: %v", testDbName, err)
	}
}

func requireApp(t *testing.T) {
	t.Helper()
	if !appRunning {
		t.Skip("application not running; skipping integration test")
	}
}

func hostToken(t *testing.T, hostID string) string {
	return utils.HostToken(t, hostID, false, testJwtSecret, time.Hour)
}

func call(t *testing.T, method, url, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var respBody map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &respBody), string(raw))
	}
	return resp.StatusCode, respBody
}

func TestIntegration_Ping(t *testing.T) {
	requireApp(t)
	resp, err := http.Get(pingEndpoint)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestIntegration_ServiceHealth(t *testing.T) {
	requireApp(t)
	code, body := call(t, http.MethodPost, testServiceApiURL+"/api", "", map[string]string{"method": "health"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
}

func TestIntegration_TripLifecycle(t *testing.T) {
	requireApp(t)
	token := hostToken(t, "integration-host")
	start := time.Now().Add(60 * 24 * time.Hour).UTC()
	earlyEnd := time.Now().Add(10 * 24 * time.Hour).UTC()

	// An empty draft is accepted but cannot be published.
	code, body := call(t, http.MethodPost, testAppURL+"/v1/trips", token, map[string]interface{}{})
	require.Equal(t, http.StatusCreated, code, body)
	listingID := body["listing"].(map[string]interface{})["id"].(string)

	code, body = call(t, http.MethodPatch, fmt.Sprintf("%s/v1/trips/%s/publish", testAppURL, listingID), token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, []interface{}{"title", "description", "destination", "category", "startDate", "price"}, body["missingFields"])

	// Drafts are not public.
	code, _ = call(t, http.MethodGet, fmt.Sprintf("%s/v1/trips/%s", testAppURL, listingID), "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	// Another host cannot touch it.
	code, _ = call(t, http.MethodPatch, fmt.Sprintf("%s/v1/trips/%s/publish", testAppURL, listingID), hostToken(t, "someone-else"), nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = call(t, http.MethodPut, fmt.Sprintf("%s/v1/trips/%s", testAppURL, listingID), token, map[string]interface{}{
		"title":       "Annapurna Circuit",
		"description": "Two weeks in the Himalaya.",
		"destination": "Nepal",
		"category":    "trekking",
		"startDate":   start,
		"basePrice":   5000,
		"paymentType": "full",
		"earlyBooking": map[string]interface{}{
			"allowEarlyBooking":    true,
			"earlyBookingDiscount": 20,
			"earlyBookingEndDate":  earlyEnd,
		},
	})
	require.Equal(t, http.StatusOK, code, body)

	code, body = call(t, http.MethodPatch, fmt.Sprintf("%s/v1/trips/%s/publish", testAppURL, listingID), token, nil)
	require.Equal(t, http.StatusOK, code, body)
	listing := body["listing"].(map[string]interface{})
	assert.Equal(t, "published", listing["status"])
	assert.Equal(t, 4000.0, listing["quote"].(map[string]interface{})["finalPrice"])
	assert.Equal(t, 100.0, listing["paymentRequirement"].(map[string]interface{})["percentage"])

	code, _ = call(t, http.MethodPatch, fmt.Sprintf("%s/v1/trips/%s/publish", testAppURL, listingID), token, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, body = call(t, http.MethodGet, fmt.Sprintf("%s/v1/trips/%s", testAppURL, listingID), "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Annapurna Circuit", body["listing"].(map[string]interface{})["title"])

	code, body = call(t, http.MethodGet, testAppURL+"/v1/trips?destination=Nepal", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["listings"])

	code, body = call(t, http.MethodPatch, fmt.Sprintf("%s/v1/trips/%s/cancel", testAppURL, listingID), token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "cancelled", body["listing"].(map[string]interface{})["status"])
}

func TestIntegration_PricingPreview(t *testing.T) {
	requireApp(t)
	code, body := call(t, http.MethodPost, testAppURL+"/v1/pricing/preview", "", map[string]interface{}{
		"listing": map[string]interface{}{
			"pricing": map[string]interface{}{
				"accommodationItems": []map[string]interface{}{{"name": "Hostel", "cost": 500}, {"name": "Hut", "cost": 300}},
				"transportation":     1000,
				"bufferPercentage":   10,
				"yourFee":            200,
			},
		},
	})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, 2180.0, body["quote"].(map[string]interface{})["computedTotal"])
}
