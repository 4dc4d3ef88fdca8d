package recipe

import (
	"net/http"

	recipeService "recipe-globe/internal/core/recipe"
	"recipe-globe/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SubstituteRequest 食材替換請求
type SubstituteRequest struct {
	Recipe            *recipeService.Recipe `json:"recipe"`
	ReplaceIngredient string                `json:"replaceIngredient"`
	NewIngredient     string                `json:"newIngredient"`
}

// HandleSubstitute 將食譜中的一項食材換成另一項
func (h *Handler) HandleSubstitute(c *gin.Context) {
	reqID := requestID(c)

	common.LogInfo("開始處理食材替換請求",
		zap.String("request_id", reqID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req SubstituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{Error: "Invalid recipe payload"})
		return
	}

	result, err := h.substituteService.Substitute(c.Request.Context(), req.Recipe, req.ReplaceIngredient, req.NewIngredient)
	if err != nil {
		fail(c, reqID, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
