package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"libtrack/internal/adapters/http/middleware"
	"libtrack/internal/config"
	"libtrack/internal/pkg/jwt"
	"libtrack/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := testutil.NewDB(t)
	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.CustomErrorHandler,
	})
	Setup(app, db, cfg)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}

	return resp, parsed
}

func registerUser(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	resp, body := doJSON(t, app, "POST", "/registration", "", fiber.Map{
		"name":     "Test",
		"surname":  "User",
		"email":    email,
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]any)
	return data["access_token"].(string)
}

func adminToken(t *testing.T, db *gorm.DB) string {
	t.Helper()

	adminID := testutil.SeedUser(t, db, "admin@example.org", true)
	token, err := jwt.GenerateAccessToken(adminID, "admin@example.org", true, "test-secret", 15)
	require.NoError(t, err)
	return token
}

func TestRegistrationLogsUserIn(t *testing.T) {
	app, _ := newTestApp(t)

	token := registerUser(t, app, "ada@example.org")
	require.NotEmpty(t, token)

	// The returned token authenticates follow-up requests right away
	resp, body := doJSON(t, app, "GET", "/api/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	user := data["user"].(map[string]any)
	assert.Equal(t, "ada@example.org", user["email"])
}

func TestBookListRequiresAuth(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, "GET", "/book-list", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRentToggleEndToEnd(t *testing.T) {
	app, db := newTestApp(t)

	bookID := testutil.SeedCatalog(t, db, 3)
	path := fmt.Sprintf("/book/%d/rent", bookID)
	token := registerUser(t, app, "reader@example.org")

	// Rent
	resp, body := doJSON(t, app, "POST", path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, false, data["returned"])
	assert.Equal(t, float64(2), data["available_book"])

	// Explicit rent of the same book conflicts
	resp, _ = doJSON(t, app, "POST", path, token, fiber.Map{"action": "rent"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Toggle back returns the copy
	resp, body = doJSON(t, app, "POST", path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]any)
	assert.Equal(t, true, data["returned"])
	assert.Equal(t, float64(3), data["available_book"])

	// History shows the completed cycle
	resp, body = doJSON(t, app, "GET", "/rents-list", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]any)
	rents := data["rents"].([]any)
	require.Len(t, rents, 1)
}

func TestAdminOnlyRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	token := registerUser(t, app, "reader@example.org")

	// Regular users cannot create books
	resp, _ := doJSON(t, app, "POST", "/book", token, fiber.Map{
		"title": "X", "year": 2000, "available_count": 1, "category_id": 1, "author_id": 1,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Or list users
	resp, _ = doJSON(t, app, "GET", "/api/users", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRentMalformedBody(t *testing.T) {
	app, db := newTestApp(t)

	bookID := testutil.SeedCatalog(t, db, 3)
	token := registerUser(t, app, "reader@example.org")

	// A present body that is not valid JSON is rejected, not treated as toggle
	req := httptest.NewRequest("POST", fmt.Sprintf("/book/%d/rent", bookID), bytes.NewReader([]byte("{oops")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// No loan was opened by the rejected request
	resp, body := doJSON(t, app, "GET", "/rents-list", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Empty(t, data["rents"])
}

func TestCreateCategoryDuplicateConflict(t *testing.T) {
	app, db := newTestApp(t)
	token := adminToken(t, db)

	resp, _ := doJSON(t, app, "POST", "/categories", token, fiber.Map{"name": "Classic"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/categories", token, fiber.Map{"name": "Classic"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateBookUnknownReferences(t *testing.T) {
	app, db := newTestApp(t)
	token := adminToken(t, db)

	resp, _ := doJSON(t, app, "POST", "/book", token, fiber.Map{
		"title": "Ghost", "year": 2000, "available_count": 1, "category_id": 99, "author_id": 99,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnknownBookRent(t *testing.T) {
	app, _ := newTestApp(t)

	token := registerUser(t, app, "reader@example.org")

	resp, _ := doJSON(t, app, "POST", "/book/42/rent", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
