package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"kindling/internal/chat"
	"kindling/internal/config"
	"kindling/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeProvisioner is a recording chat provider used by handler tests.
type fakeProvisioner struct {
	mu   sync.Mutex
	fail bool
}

func (f *fakeProvisioner) EnsureIdentity(_ context.Context, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("provider unavailable")
	}
	return nil
}

func (f *fakeProvisioner) OpenChannel(_ context.Context, userA, userB, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("provider unavailable")
	}
	if userA > userB {
		userA, userB = userB, userA
	}
	return fmt.Sprintf("match-%s-%s", userA, userB), nil
}

func (f *fakeProvisioner) CreateUserToken(userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("provider unavailable")
	}
	return "token-" + userID, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Port:      "0",
		JWTSecret: "test-secret-key-for-handler-tests",
		Env:       "test",
	}
}

// newTestApp builds a Fiber app backed by an isolated in-memory database.
func newTestApp(t *testing.T) (*fiber.App, *Server) {
	return newTestAppWithProvisioner(t, &fakeProvisioner{})
}

func newTestAppWithProvisioner(t *testing.T, provisioner chat.Provisioner) (*fiber.App, *Server) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: database.NewGormLogger(),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	srv, err := NewServerWithDeps(testConfig(), db, nil, provisioner)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)
	return app, srv
}

// doJSON performs a JSON request against the app and decodes the response
// body into a generic map.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
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
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

// signupUser registers a user through the API and returns their token and id.
func signupUser(t *testing.T, app *fiber.App, email, gender string) (string, uint) {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/users/signup", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
		"name":     strings.Split(email, "@")[0],
		"age":      28,
		"gender":   gender,
	})
	require.Equal(t, http.StatusCreated, status, "signup body: %v", body)

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	user, _ := body["user"].(map[string]interface{})
	require.NotNil(t, user)
	id, _ := user["id"].(float64)
	require.NotZero(t, id)

	return token, uint(id)
}
