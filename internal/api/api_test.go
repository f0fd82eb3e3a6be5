package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fridgechef/backend/internal/api"
	"github.com/fridgechef/backend/internal/middleware"
	"github.com/fridgechef/backend/internal/recommend"
	"github.com/fridgechef/backend/internal/service"
	"github.com/fridgechef/backend/internal/testhelpers"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const jwtSecret = "test-secret"

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func setupAPI(t *testing.T, text service.TextGenerator) *testAPI {
	t.Helper()
	db := testhelpers.SetupSQLiteDatabase(t)
	auth := service.NewAuthService(db, jwtSecret, time.Hour)

	dataset := &recommend.Dataset{Recipes: []recommend.Candidate{
		recommend.NewCandidate("김치볶음밥", []string{"김치 200g", "밥 1공기", "돼지고기 100g"}, 20, "초급", "한식"),
	}}
	recommendations := service.NewRecommendationService(service.RecommendationDeps{
		DB:     db,
		Engine: recommend.NewEngine(recommend.StaticDataset{Snapshot: dataset}, recommend.NewMatcher(nil), recommend.DefaultRanker(), nil),
		Text:   text,
		Config: service.RecommendationConfig{
			TextTimeout:    time.Second,
			PlaceholderURL: "https://source.unsplash.com/800x600/?%s,food",
		},
	})

	router := gin.New()
	router.Use(middleware.ErrorHandler(zap.NewNop()))
	api.RegisterRoutes(router, api.Dependencies{
		DB:              db,
		Auth:            auth,
		Recipes:         service.NewRecipeService(db, nil),
		Pantry:          service.NewPantryService(db),
		Favorites:       service.NewFavoriteService(db),
		Comments:        service.NewCommentService(db),
		Recommendations: recommendations,
	})
	return &testAPI{router: router, db: db, auth: auth}
}

// do sends body as JSON unless it is already a string.
func (a *testAPI) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	a := setupAPI(t, nil)

	w := a.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	a := setupAPI(t, nil)

	w := a.do(t, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestInvalidRecipeID(t *testing.T) {
	a := setupAPI(t, nil)

	w := a.do(t, http.MethodGet, "/api/recipes/abc/", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid recipe id"}`, w.Body.String())
}

func TestMalformedBody(t *testing.T) {
	a := setupAPI(t, nil)

	w := a.do(t, http.MethodPost, "/api/recommend/", `{"ingredients": "김치"`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"잘못된 요청 형식입니다."}`, w.Body.String())
}
