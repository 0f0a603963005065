package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selfora/backend/internal/config"
	"github.com/selfora/backend/internal/middleware"
	"github.com/selfora/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	keys  []string
	types []string
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, err := io.Copy(io.Discard, in.Body); err != nil {
		return nil, err
	}
	f.keys = append(f.keys, aws.ToString(in.Key))
	f.types = append(f.types, aws.ToString(in.ContentType))
	return &s3.PutObjectOutput{}, nil
}

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newUploadApp(storage *Storage) *fiber.App {
	cfg := &config.Config{JWTSecret: testutil.JWTSecret}
	app := fiber.New()
	New(storage).RegisterRoutes(app.Group("/api/p", middleware.JWTProtected(cfg)), nil, cfg)
	return app
}

func post(t *testing.T, app *fiber.App, user uuid.UUID, field string, data []byte) (int, map[string]interface{}) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, "image.bin")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/p/uploads", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", testutil.Bearer(user))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	out := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestUploadStoresImage(t *testing.T) {
	putter := &fakePutter{}
	app := newUploadApp(NewStorage(putter, "media", "https://cdn.example.com/"))
	user := uuid.New()

	status, out := post(t, app, user, "file", pngHeader)
	require.Equal(t, fiber.StatusCreated, status)
	require.Len(t, putter.keys, 1)

	key := putter.keys[0]
	assert.True(t, strings.HasPrefix(key, "uploads/"+user.String()+"/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, "image/png", putter.types[0])
	assert.Equal(t, "https://cdn.example.com/"+key, out["url"])
}

func TestUploadRejections(t *testing.T) {
	putter := &fakePutter{}
	app := newUploadApp(NewStorage(putter, "media", "https://cdn.example.com"))
	user := uuid.New()

	status, _ := post(t, app, user, "file", []byte("just some text"))
	assert.Equal(t, fiber.StatusUnsupportedMediaType, status)

	status, _ = post(t, app, user, "attachment", pngHeader)
	assert.Equal(t, fiber.StatusBadRequest, status)

	assert.Empty(t, putter.keys)

	putter.err = errors.New("bucket gone")
	status, _ = post(t, app, user, "file", pngHeader)
	assert.Equal(t, fiber.StatusBadGateway, status)
}

func TestUploadWithoutStorage(t *testing.T) {
	app := newUploadApp(nil)
	status, _ := post(t, app, uuid.New(), "file", pngHeader)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestNewS3StorageUnconfigured(t *testing.T) {
	s, err := NewS3Storage(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, s)
}
