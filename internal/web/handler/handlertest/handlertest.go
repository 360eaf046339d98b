// Package handlertest builds fiber apps around a single handler service for tests.
package handlertest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rbacadmin/rbac-admin/internal/config"
	"github.com/rbacadmin/rbac-admin/internal/web/handler"
)

// APIPrefix is the group the service is mounted on.
const APIPrefix = "/api"

// NewApp mounts svc below APIPrefix on a fresh fiber app using the API error handler.
func NewApp(t *testing.T, db *gorm.DB, svc handler.Service) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	cfg := &config.Config{Webserver: config.Webserver{APIPrefix: APIPrefix}}

	svc.Init(app.Group(APIPrefix), cfg, db)

	return app
}

// Do sends a request with body encoded as JSON (a string is sent as is) and
// returns the status code and raw response body.
func Do(t *testing.T, app *fiber.App, method, path string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader

	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, out
}

// DoJSON is Do and decodes the response body into out.
func DoJSON(t *testing.T, app *fiber.App, method, path string, body, out any) int {
	t.Helper()

	status, raw := Do(t, app, method, path, body)
	require.NoError(t, json.Unmarshal(raw, out), "response: %s", raw)

	return status
}
