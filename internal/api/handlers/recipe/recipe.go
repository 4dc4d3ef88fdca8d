package recipe

import (
	"net/http"
	"strconv"

	imageService "recipe-globe/internal/core/image"
	recipeService "recipe-globe/internal/core/recipe"
	"recipe-globe/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler 食譜處理程序
type Handler struct {
	recipeService     *recipeService.Service
	substituteService *recipeService.SubstituteService
	imageService      *imageService.Service
}

// NewHandler 創建新的食譜處理程序
func NewHandler(recipeSvc *recipeService.Service, substituteSvc *recipeService.SubstituteService, imageSvc *imageService.Service) *Handler {
	return &Handler{
		recipeService:     recipeSvc,
		substituteService: substituteSvc,
		imageService:      imageSvc,
	}
}

// requestID 取出或補發請求 ID
func requestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.New().String()
		c.Header("X-Request-ID", id)
	}
	return id
}

// fail 統一錯誤出口：驗證錯誤回 400，其餘回 500，payload 一律 {"error": ...}
func fail(c *gin.Context, reqID string, err error) {
	if common.IsValidationError(err) {
		common.LogWarn("請求驗證失敗",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{Error: err.Error()})
		return
	}

	common.LogError("請求處理失敗",
		zap.Error(err),
		zap.String("request_id", reqID),
	)
	c.JSON(http.StatusInternalServerError, common.ErrorResponse{Error: err.Error()})
}

// HandleRecipeByLocation 依經緯度生成在地食譜
func (h *Handler) HandleRecipeByLocation(c *gin.Context) {
	reqID := requestID(c)

	common.LogInfo("開始處理食譜生成請求",
		zap.String("request_id", reqID),
		zap.String("client_ip", c.ClientIP()),
	)

	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		common.LogWarn("經緯度參數無效",
			zap.String("lat", c.Query("lat")),
			zap.String("lng", c.Query("lng")),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{Error: "lat and lng query parameters are required."})
		return
	}

	result, err := h.recipeService.FetchRecipe(c.Request.Context(), lat, lng)
	if err != nil {
		fail(c, reqID, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
