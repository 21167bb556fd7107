package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-marketplace/internal/app"
	"auction-marketplace/internal/clock"
	"auction-marketplace/internal/config"
	accounthelpers "auction-marketplace/services/account/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)

// SetupTestApp wires the full in-memory marketplace behind a fake clock for integration testing.
func SetupTestApp(t *testing.T) (*app.Deps, *clock.Fake) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Defaults()
	cfg.Notifications.Log = false
	cfg.Scheduler.Enabled = false
	cfg.Retry.InitialInterval = time.Microsecond
	cfg.Retry.MaxInterval = time.Millisecond
	cfg.Retry.MaxAttempts = 50

	clk := clock.NewFake(testStart)
	deps, cleanup, err := app.Wire(context.Background(), cfg, clk)
	t.Cleanup(cleanup)
	require.NoError(t, err)
	return deps, clk
}

// ExecuteRequestAndParse executes an HTTP request on the given router as the holder of token
// and parses the response envelope
func ExecuteRequestAndParse(t *testing.T, router http.Handler, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// testUser is a registered user and the token they authenticate with
type testUser struct {
	ID    string
	Token string
}

// RegisterUser signs a user up through the API
func RegisterUser(t *testing.T, router http.Handler, name, email string) testUser {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/users", "",
		accounthelpers.RegisterUserRequest{Name: name, Email: email})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := resp["data"].(map[string]any)
	user := data["user"].(map[string]any)
	return testUser{ID: user["user_id"].(string), Token: data["access_token"].(string)}
}

// Data returns the envelope's data object
func Data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response data should be an object: %v", resp)
	return data
}
