package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	healthHandler "recipe-globe/internal/api/handlers/health"
	recipeHandler "recipe-globe/internal/api/handlers/recipe"
	"recipe-globe/internal/api/middleware"
	"recipe-globe/internal/core/ai/cache"
	"recipe-globe/internal/core/ai/openai"
	aiService "recipe-globe/internal/core/ai/service"
	"recipe-globe/internal/core/geo"
	imageService "recipe-globe/internal/core/image"
	recipeService "recipe-globe/internal/core/recipe"
	"recipe-globe/internal/infrastructure/config"
	"recipe-globe/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (10MB)
	maxBodySize = 10 << 20
)

// SetupRouter 設置路由，所有服務在這裡建構一次後注入處理程序
func SetupRouter(cfg *config.Config, store cache.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("model", cfg.OpenAI.Model),
		zap.String("image_model", cfg.OpenAI.ImageModel),
		zap.Duration("timeout", timeoutDuration),
	)

	// OpenAI 客戶端只建構一次，所有請求共用
	openAIClient := openai.NewClient(cfg)

	aiSvc, err := aiService.NewService(cfg, openAIClient, openAIClient, store)
	if err != nil {
		common.LogError("Failed to initialize AI service", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize AI service: %w", err)
	}

	geoSvc := geo.NewService(cfg)
	recipeSvc := recipeService.NewService(geoSvc, aiSvc)
	substituteSvc := recipeService.NewSubstituteService(aiSvc)
	imageSvc := imageService.NewService(aiSvc, cfg)

	// 全局中間件：設置請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
			})
		}
	})

	// 健康檢查路由
	healthInstance := healthHandler.NewHandler(cfg, store)
	router.GET("/health", healthInstance.HealthCheck)
	router.GET("/ready", healthInstance.ReadinessCheck)
	router.GET("/live", healthInstance.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		recipeInstance := recipeHandler.NewHandler(recipeSvc, substituteSvc, imageSvc)

		recipeGroup := api.Group("/recipe")
		{
			// 依經緯度生成在地食譜
			recipeGroup.GET("", recipeInstance.HandleRecipeByLocation)

			// 食材替換
			recipeGroup.POST("/substitute", recipeInstance.HandleSubstitute)

			// 料理圖片生成
			recipeGroup.POST("/image", recipeInstance.HandleImage)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
