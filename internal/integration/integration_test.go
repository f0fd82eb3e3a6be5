package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fridgechef/backend/config"
	"github.com/fridgechef/backend/internal/api"
	"github.com/fridgechef/backend/internal/middleware"
	"github.com/fridgechef/backend/internal/models"
	"github.com/fridgechef/backend/internal/recommend"
	"github.com/fridgechef/backend/internal/server"
	"github.com/fridgechef/backend/internal/service"
	"github.com/fridgechef/backend/internal/testhelpers"
	"github.com/fridgechef/backend/internal/types"
)

const detailsReply = `{
  "description": "묵은지로 만드는 고소한 볶음밥",
  "cooking_time": 15,
  "difficulty": "초급",
  "health_tags": ["프로틴 업"],
  "steps": ["1. 김치를 썬다.", "2. 볶는다.", "3. 밥을 넣는다."]
}`

type stack struct {
	db     *gorm.DB
	server *httptest.Server
	text   *testhelpers.MockTextGenerator
	images *testhelpers.MockImageGenerator
}

// newStack wires the real services to PostgreSQL and Redis containers.
// Only the AI collaborators and the image store are mocked.
func newStack(t *testing.T, rateLimit int) *stack {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupPostgresDatabase(t)
	rdb := testhelpers.SetupRedis(t)

	text := new(testhelpers.MockTextGenerator)
	text.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return(detailsReply, nil)
	images := new(testhelpers.MockImageGenerator)
	images.On("GenerateImage", mock.Anything, mock.Anything).Return([]byte("jpeg"), nil)
	store := new(testhelpers.MockImageStore)
	store.On("Save", mock.Anything, mock.Anything, mock.Anything).Return("http://localhost:8000/media/kimchi.jpg", nil)

	dataset := &recommend.Dataset{Recipes: []recommend.Candidate{
		recommend.NewCandidate("김치볶음밥", []string{"김치 200g", "밥 1공기", "돼지고기 100g"}, 20, "초급", "한식"),
		recommend.NewCandidate("김치찌개", []string{"김치 300g", "두부 1/2모", "돼지고기 150g"}, 30, "중급", "한식"),
	}}
	recommendations := service.NewRecommendationService(service.RecommendationDeps{
		DB:     db,
		Engine: recommend.NewEngine(recommend.StaticDataset{Snapshot: dataset}, nil, recommend.DefaultRanker(), nil),
		Text:   text,
		Images: images,
		Store:  store,
		Locker: service.ChainLocker{service.NewKeyedMutex(), service.NewRedisLocker(rdb, time.Minute, nil)},
		Config: service.RecommendationConfig{
			TextTimeout:    5 * time.Second,
			ImageTimeout:   5 * time.Second,
			PlaceholderURL: "https://source.unsplash.com/800x600/?%s,food",
			Parallel:       true,
		},
	})

	var limiter *middleware.RateLimiter
	if rateLimit > 0 {
		limiter = middleware.NewAIRateLimiter(rdb, rateLimit, time.Minute, nil)
	}

	srv := server.New(config.ServerConfig{Host: "127.0.0.1", Port: "0"}, api.Dependencies{
		DB:              db,
		Auth:            service.NewAuthService(db, "integration-secret", time.Hour),
		Recipes:         service.NewRecipeService(db, nil),
		Pantry:          service.NewPantryService(db),
		Favorites:       service.NewFavoriteService(db),
		Comments:        service.NewCommentService(db),
		Recommendations: recommendations,
		AILimiter:       limiter,
	}, nil)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	flushRedis(t, rdb)
	return &stack{db: db, server: ts, text: text, images: images}
}

func flushRedis(t *testing.T, rdb *redis.Client) {
	t.Helper()
	require.NoError(t, rdb.FlushDB(t.Context()).Err())
}

func (s *stack) post(t *testing.T, path string, body interface{}, token string) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, s.server.URL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (s *stack) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(model).Count(&n).Error)
	return n
}

func TestConcurrentRecommendationsEnrichOnce(t *testing.T) {
	s := newStack(t, 0)

	const clients = 8
	var wg sync.WaitGroup
	results := make([][]types.RecommendedRecipe, clients)
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload := strings.NewReader(`{"ingredients": ["김치", "돼지고기"]}`)
			resp, err := http.Post(s.server.URL+"/api/recommend/", "application/json", payload)
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()
			if !assert.Equal(t, http.StatusOK, resp.StatusCode) {
				return
			}
			assert.NoError(t, json.NewDecoder(resp.Body).Decode(&results[i]))
		}(i)
	}
	wg.Wait()

	for _, recipes := range results {
		require.Len(t, recipes, 2)
		assert.Equal(t, results[0][0].ID, recipes[0].ID)
		assert.Equal(t, []string{"김치를 썬다.", "볶는다.", "밥을 넣는다."}, recipes[0].Steps)
		assert.Equal(t, "http://localhost:8000/media/kimchi.jpg", recipes[0].Image)
	}

	s.text.AssertNumberOfCalls(t, "Complete", 2)
	s.images.AssertNumberOfCalls(t, "GenerateImage", 2)
	assert.Equal(t, int64(2), s.count(t, &models.Recipe{}))
	assert.Equal(t, int64(6), s.count(t, &models.Step{}))
	assert.Equal(t, int64(6), s.count(t, &models.RecipeIngredient{}))
}

func TestSignupFavoriteFlow(t *testing.T) {
	s := newStack(t, 0)

	resp := s.post(t, "/api/signup/", map[string]string{"username": "chef", "password": "secret123"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var auth types.AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&auth))

	resp = s.post(t, "/api/recommend/", map[string][]string{"ingredients": {"김치", "밥"}}, auth.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var recipes []types.RecommendedRecipe
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&recipes))
	require.NotEmpty(t, recipes)

	// the token identifies the user, so the body carries no username
	resp = s.post(t, "/api/user/favorites/", map[string]string{"recipe_id": recipes[0].ID}, auth.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var toggled map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&toggled))
	assert.Equal(t, "added", toggled["status"])

	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/api/user/favorites/", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	listResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer listResp.Body.Close()
	var favorites []types.RecipeSummary
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&favorites))
	require.Len(t, favorites, 1)
	assert.Equal(t, recipes[0].Name, favorites[0].Name)
}

func TestRecommendIsRateLimited(t *testing.T) {
	s := newStack(t, 1)

	body := map[string][]string{"ingredients": {"김치"}}
	first := s.post(t, "/api/recommend/", body, "")
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second := s.post(t, "/api/recommend/", body, "")
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
	assert.NotEmpty(t, second.Header.Get("Retry-After"))

	// other routes are not limited
	resp, err := http.Get(s.server.URL + "/api/recipes/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
