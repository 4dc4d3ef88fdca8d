package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipe-globe/internal/core/ai/provider"
	aiService "recipe-globe/internal/core/ai/service"
	"recipe-globe/internal/core/geo"
	imageService "recipe-globe/internal/core/image"
	recipeService "recipe-globe/internal/core/recipe"
	"recipe-globe/internal/infrastructure/config"
	"recipe-globe/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	common.Logger = zap.NewNop()
}

// stubGeocoder 測試用地理編碼器
type stubGeocoder struct {
	result *geo.GeocodeResult
	err    error
	calls  int
}

func (s *stubGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (*geo.GeocodeResult, error) {
	s.calls++
	return s.result, s.err
}

// stubTextGenerator 測試用文字生成器
type stubTextGenerator struct {
	content string
	err     error
	calls   int
}

func (s *stubTextGenerator) GenerateText(ctx context.Context, req *provider.ChatRequest) (*aiService.Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &aiService.Response{Content: s.content}, nil
}

// stubImageGenerator 測試用圖片生成器
type stubImageGenerator struct {
	result *provider.ImageResult
	err    error
	calls  int
}

func (s *stubImageGenerator) GenerateImage(ctx context.Context, req *provider.ImageRequest) (*provider.ImageResult, error) {
	s.calls++
	return s.result, s.err
}

type testDeps struct {
	geocoder  *stubGeocoder
	generator *stubTextGenerator
	image     *stubImageGenerator
	router    *gin.Engine
}

func newTestRouter(t *testing.T) *testDeps {
	t.Helper()

	deps := &testDeps{
		geocoder:  &stubGeocoder{result: &geo.GeocodeResult{City: "Tainan", Country: "Taiwan", Formatted: "Tainan, Taiwan"}},
		generator: &stubTextGenerator{content: `{"recipeName": "Dan Zai Noodles", "ingredients": ["100 g noodles"], "steps": ["Boil."]}`},
		image:     &stubImageGenerator{result: &provider.ImageResult{URL: "http://x/y.png"}},
	}

	cfg := &config.Config{
		Image: config.ImageConfig{Size: "1024x1024", MaxSizeBytes: 10 * 1024 * 1024},
	}
	handler := NewHandler(
		recipeService.NewService(deps.geocoder, deps.generator),
		recipeService.NewSubstituteService(deps.generator),
		imageService.NewService(deps.image, cfg),
	)

	router := gin.New()
	router.GET("/api/v1/recipe", handler.HandleRecipeByLocation)
	router.POST("/api/v1/recipe/substitute", handler.HandleSubstitute)
	router.POST("/api/v1/recipe/image", handler.HandleImage)
	deps.router = router
	return deps
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestHandleRecipeByLocation(t *testing.T) {
	t.Run("returns the generated recipe", func(t *testing.T) {
		deps := newTestRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/recipe?lat=22.99&lng=120.21", nil)
		deps.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Dan Zai Noodles", body["recipeName"])
		assert.Equal(t, "Tainan, Taiwan", body["location"])
	})

	t.Run("missing or malformed coordinates are a 400 without downstream calls", func(t *testing.T) {
		deps := newTestRouter(t)

		for _, query := range []string{"", "lat=22.99", "lng=120.21", "lat=abc&lng=120.21", "lat=22.99&lng="} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/recipe?"+query, nil)
			deps.router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", query)
			assert.Equal(t, "lat and lng query parameters are required.", errorBody(t, w))
		}
		assert.Zero(t, deps.geocoder.calls)
		assert.Zero(t, deps.generator.calls)
	})

	t.Run("geocoder failure is a 500 with the error message", func(t *testing.T) {
		deps := newTestRouter(t)
		deps.geocoder.result = nil
		deps.geocoder.err = errors.New("OpenCage request failed: 401")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/recipe?lat=22.99&lng=120.21", nil)
		deps.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, errorBody(t, w), "OpenCage")
	})

	t.Run("echoes the caller request ID", func(t *testing.T) {
		deps := newTestRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/recipe?lat=22.99&lng=120.21", nil)
		req.Header.Set("X-Request-ID", "req-123")
		deps.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHandleSubstitute(t *testing.T) {
	validPayload := `{
		"recipe": {
			"recipeName": "Paella",
			"ingredients": ["2 cups rice", "300 g chicken"],
			"steps": ["Toast the rice.", "Add stock."]
		},
		"replaceIngredient": "chicken",
		"newIngredient": "tofu"
	}`

	t.Run("returns the adapted recipe", func(t *testing.T) {
		deps := newTestRouter(t)
		deps.generator.content = `{"recipeName": "Tofu Paella", "ingredients": ["2 cups rice", "300 g tofu"], "steps": ["Toast the rice.", "Add stock and tofu."]}`

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recipe/substitute", strings.NewReader(validPayload))
		req.Header.Set("Content-Type", "application/json")
		deps.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Tofu Paella", body["recipeName"])
	})

	t.Run("non-JSON body is a 400", func(t *testing.T) {
		deps := newTestRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recipe/substitute", strings.NewReader("not json"))
		req.Header.Set("Content-Type", "application/json")
		deps.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid recipe payload", errorBody(t, w))
		assert.Zero(t, deps.generator.calls)
	})

	t.Run("missing fields are a 400 without a model call", func(t *testing.T) {
		deps := newTestRouter(t)

		cases := []string{
			`{}`,
			`{"recipe": null, "replaceIngredient": "chicken", "newIngredient": "tofu"}`,
			`{"recipe": {"ingredients": ["1 egg"], "steps": ["Stir."]}, "replaceIngredient": "", "newIngredient": "tofu"}`,
			`{"recipe": {"ingredients": ["1 egg"], "steps": ["Stir."]}, "replaceIngredient": "egg", "newIngredient": "  "}`,
			`{"recipe": {"ingredients": [], "steps": ["Stir."]}, "replaceIngredient": "egg", "newIngredient": "tofu"}`,
		}
		for _, payload := range cases {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/recipe/substitute", strings.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			deps.router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, "payload %s", payload)
		}
		assert.Zero(t, deps.generator.calls)
	})

	t.Run("model failure is a 500", func(t *testing.T) {
		deps := newTestRouter(t)
		deps.generator.err = errors.New("OpenAI API returned error")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recipe/substitute", strings.NewReader(validPayload))
		req.Header.Set("Content-Type", "application/json")
		deps.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHandleImage(t *testing.T) {
	t.Run("returns the image source", func(t *testing.T) {
		deps := newTestRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recipe/image", strings.NewReader(`{"prompt": "a bowl of noodles"}`))
		req.Header.Set("Content-Type", "application/json")
		deps.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body ImageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "http://x/y.png", body.Image)
	})

	t.Run("empty prompt is a 400 without an upstream call", func(t *testing.T) {
		deps := newTestRouter(t)

		for _, payload := range []string{`{}`, `{"prompt": ""}`, `{"prompt": "   "}`} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/recipe/image", strings.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			deps.router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, "payload %s", payload)
		}
		assert.Zero(t, deps.image.calls)
	})

	t.Run("upstream failure is a 500", func(t *testing.T) {
		deps := newTestRouter(t)
		deps.image.result = nil
		deps.image.err = errors.New("OpenAI image API returned error")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recipe/image", strings.NewReader(`{"prompt": "a red apple"}`))
		req.Header.Set("Content-Type", "application/json")
		deps.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
