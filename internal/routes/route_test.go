package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joshua-takyi/evently/internal/config"
	"github.com/joshua-takyi/evently/internal/container"
	"github.com/joshua-takyi/evently/internal/helpers"
	"github.com/joshua-takyi/evently/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type emptyRepo struct{}

func (emptyRepo) CreateEvent(ctx context.Context, e *models.Event) (*models.Event, error) {
	return e, nil
}
func (emptyRepo) ListEvents(ctx context.Context) ([]*models.Event, error) { return nil, nil }
func (emptyRepo) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	return nil, models.ErrEventNotFound
}
func (emptyRepo) ListSimilarEvents(ctx context.Context, ref *models.Event) ([]*models.Event, error) {
	return nil, nil
}
func (emptyRepo) EnsureEventIndexes(ctx context.Context) error { return nil }

type stubImages struct{}

func (stubImages) Upload(ctx context.Context, file io.Reader, fileName string) (*helpers.UploadedImage, error) {
	return &helpers.UploadedImage{URL: "https://res.cloudinary.com/demo/x.png", PublicID: "events/x"}, nil
}
func (stubImages) Delete(ctx context.Context, publicID string) error { return nil }
func (stubImages) SignUpload(params url.Values) (string, error)      { return "sig", nil }
func (stubImages) PublicKey() string                                 { return "pk" }
func (stubImages) Folder() string                                    { return helpers.EventsFolder }

func testRouter(validator *helpers.TokenValidator) *gin.Engine {
	cfg := &config.Config{
		Environment:        "test",
		UploadAuthTTL:      10 * time.Minute,
		MaxUploadBytes:     1 << 20,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return SetupRoutes(container.NewContainer(cfg, logger, emptyRepo{}, stubImages{}, validator))
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK","service":"evently-api"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestPublicRoutes(t *testing.T) {
	r := testRouter(nil)

	for path, want := range map[string]int{
		"/api/events":              http.StatusOK,
		"/api/events/nope":         http.StatusNotFound,
		"/api/events/nope/similar": http.StatusNotFound,
		"/api/upload-auth":         http.StatusOK,
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}

func TestWriteRoutesRequireBearerWhenEnabled(t *testing.T) {
	r := testRouter(helpers.NewSecretValidator("hmac-secret"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/upload-auth", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/events", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// reads stay public
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("hmac-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/upload-auth", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/events", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	testRouter(nil).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
