package recipe

import (
	"net/http"

	"recipe-globe/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImageRequest 料理圖片生成請求
type ImageRequest struct {
	Prompt string `json:"prompt"`
}

// ImageResponse 料理圖片生成響應，image 為 data URI 或 URL
type ImageResponse struct {
	Image string `json:"image"`
}

// HandleImage 依提示詞生成料理圖片
func (h *Handler) HandleImage(c *gin.Context) {
	reqID := requestID(c)

	common.LogInfo("開始處理圖片生成請求",
		zap.String("request_id", reqID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{Error: "prompt is required"})
		return
	}

	src, err := h.imageService.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		fail(c, reqID, err)
		return
	}

	c.JSON(http.StatusOK, ImageResponse{Image: src})
}
