package documents

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selfora/backend/internal/config"
	"github.com/selfora/backend/internal/middleware"
	"github.com/selfora/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mount(p *DocumentsPlugin) *fiber.App {
	cfg := &config.Config{JWTSecret: testutil.JWTSecret}
	app := fiber.New()
	p.RegisterPublicRoutes(app.Group("/api"), nil, cfg)
	p.RegisterRoutes(app.Group("/api/p", middleware.JWTProtected(cfg)), nil, cfg)
	p.RegisterAdminRoutes(app.Group("/api/admin", middleware.JWTProtected(cfg)), nil, cfg)
	return app
}

func TestRoutesUnavailableWithoutStore(t *testing.T) {
	app := mount(New(nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/public-templates", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	req := httptest.NewRequest("GET", "/api/p/user-documents", nil)
	req.Header.Set("Authorization", testutil.Bearer(uuid.New()))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	assert.NoError(t, New(nil).PurgeUser(nil, uuid.New()))
}

func TestDocumentRoutes(t *testing.T) {
	app := mount(New(&memStore{}))
	user := uuid.New()

	send := func(method, path string, body interface{}) (int, []byte) {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", testutil.Bearer(user))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		var raw bytes.Buffer
		_, _ = raw.ReadFrom(resp.Body)
		return resp.StatusCode, raw.Bytes()
	}

	status, raw := send("POST", "/api/admin/initialize-templates", nil)
	require.Equal(t, fiber.StatusOK, status)
	var init InitializeResponse
	require.NoError(t, json.Unmarshal(raw, &init))
	assert.ElementsMatch(t, []string{"study_plan", "goal_tracker"}, init.Created)

	status, raw = send("GET", "/api/p/mongo-templates?type=study_plan", nil)
	require.Equal(t, fiber.StatusOK, status)
	var list []NotionTemplate
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 1)

	status, _ = send("GET", "/api/p/mongo-templates/not-an-id", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, raw = send("POST", "/api/p/user-documents", map[string]string{"template_id": list[0].ID.Hex(), "title": "Finals"})
	require.Equal(t, fiber.StatusCreated, status)
	var doc UserDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, user.String(), doc.UserID)

	status, raw = send("PUT", "/api/p/user-documents/"+doc.ID.Hex(), map[string]string{"title": "Finals week"})
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "Finals week", doc.Title)
	assert.Equal(t, 2, doc.Metadata.Version)
}
