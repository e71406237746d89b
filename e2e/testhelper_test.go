package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/xeroq/api/internal/auth"
	"github.com/xeroq/api/internal/handler"
	"github.com/xeroq/api/internal/middleware"
	"github.com/xeroq/api/internal/model"
	"github.com/xeroq/api/internal/namecache"
	"github.com/xeroq/api/internal/queue"
	"github.com/xeroq/api/internal/service"
	"github.com/xeroq/api/internal/store"
)

const testJWTSecret = "test-secret-for-e2e"

// testApp holds all components needed for testing
type testApp struct {
	app *fiber.App
}

// setupApp creates a Fiber app wired like main.go but backed by the
// in-memory store, so no Redis is required. The rate limiter's Redis
// client points nowhere and fails open.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	redisClient := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // use DB 15 for tests to avoid collision
	})

	validate := validator.New()

	names, err := namecache.New(64)
	if err != nil {
		t.Fatalf("failed to create name cache: %v", err)
	}
	queueService := service.NewQueueService(
		store.NewMemoryStore(),
		queue.DefaultSpeeds,
		queue.DefaultPricing,
		names,
	)

	jobHandler := handler.NewJobHandler(queueService, validate)
	queueHandler := handler.NewQueueHandler(queueService)
	verifyHandler := handler.NewVerifyHandler(queueService)

	authMiddleware := middleware.NewAuthMiddleware(testJWTSecret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	app := fiber.New()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"redis": false,
				"auth":  true,
			},
		})
	})

	api := app.Group("/api", authMiddleware.Authenticate())
	operator := authMiddleware.RequireRole("operator")

	// Use very high rate limits so tests don't get blocked
	jobs := api.Group("/jobs")
	jobs.Post("/", rateLimiter.SubmitLimit(10000), jobHandler.Submit)
	jobs.Get("/mine", jobHandler.Mine)
	jobs.Get("/:jobId", jobHandler.Get)
	jobs.Get("/:jobId/quote", jobHandler.Quote)
	jobs.Post("/:jobId/pay", jobHandler.Pay)
	jobs.Post("/:jobId/acknowledge", jobHandler.Acknowledge)
	jobs.Post("/:jobId/advance", operator, jobHandler.Advance)
	jobs.Post("/:jobId/comments", operator, jobHandler.Comment)
	jobs.Post("/:jobId/collect", operator, jobHandler.Collect)

	queueGroup := api.Group("/queue")
	queueGroup.Get("/active", queueHandler.Active)
	queueGroup.Get("/ready", queueHandler.Ready)
	queueGroup.Get("/slots", queueHandler.Slots)

	api.Get("/verify/:code", operator, rateLimiter.VerifyLimit(10000), verifyHandler.Verify)

	return &testApp{app: app}
}

// generateToken creates an HMAC JWT for test requests.
func generateToken(t *testing.T, userID, name, role string) string {
	t.Helper()
	claims := auth.Claims{
		UserID: userID,
		Name:   name,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "xeroq-api",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return signed
}

func submitterToken(t *testing.T) string {
	return generateToken(t, "student-1", "Asha", auth.RoleSubmitter)
}

func operatorToken(t *testing.T) string {
	return generateToken(t, "operator-1", "Front Desk", auth.RoleOperator)
}

// doRequest is a helper to perform HTTP requests against the test app.
func doRequest(app *fiber.App, method, path string, body string, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.Test(req, -1)
}

// doAuthRequest performs a request with the given bearer token.
func doAuthRequest(t *testing.T, app *fiber.App, token, method, path, body string) (*http.Response, error) {
	t.Helper()
	return doRequest(app, method, path, body, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

// submitJob submits a basic job and returns its parsed response.
func submitJob(t *testing.T, app *fiber.App, token string, body string) map[string]interface{} {
	t.Helper()
	if body == "" {
		body = `{
			"documentName": "notes.pdf",
			"documentSizeBytes": 120000,
			"pageCount": 3,
			"copies": 1,
			"colorMode": "monochrome",
			"urgency": "normal",
			"pickupSlot": "1"
		}`
	}
	resp, err := doAuthRequest(t, app, token, "POST", "/api/jobs/", body)
	if err != nil {
		t.Fatalf("submit request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusCreated)
	return parseJSON(t, resp)
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(b)
}

// parseJSON parses response body into a map.
func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := readBody(t, resp)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

// assertStatus checks the HTTP status code.
func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// errorCode extracts the error code from an error envelope.
func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	parsed := parseJSON(t, resp)
	errObj, ok := parsed["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no error envelope: %v", parsed)
	}
	code, _ := errObj["code"].(string)
	return code
}

// advance moves a job through an operator status change.
func advance(t *testing.T, app *fiber.App, jobID string, target model.Status) *http.Response {
	t.Helper()
	body := `{"targetStatus": "` + string(target) + `"}`
	resp, err := doAuthRequest(t, app, operatorToken(t), "POST", "/api/jobs/"+jobID+"/advance", body)
	if err != nil {
		t.Fatalf("advance request failed: %v", err)
	}
	return resp
}
