package api

import (
	"net/http"

	"github.com/fridgechef/backend/internal/service"
	"github.com/fridgechef/backend/internal/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecommendHandler serves both recommendation flows. Each request may call
// the AI generators, so the routes take optional rate limiting middleware.
type RecommendHandler struct {
	recommendations service.IRecommendationService
	logger          *zap.Logger
}

func NewRecommendHandler(recommendations service.IRecommendationService, logger *zap.Logger) *RecommendHandler {
	return &RecommendHandler{recommendations: recommendations, logger: logger}
}

func (h *RecommendHandler) RegisterRoutes(router *gin.RouterGroup, limiters ...gin.HandlerFunc) {
	recommend := router.Group("/recommend", limiters...)
	{
		recommend.POST("/", h.Recommend)
		recommend.POST("/ai/", h.RecommendForSituation)
	}
}

// Recommend matches the request ingredients against the dataset and returns
// enriched recipes, or the single fallback dish when nothing matches.
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req types.RecommendRequest
	if !bindJSON(c, &req) {
		return
	}

	recipes, err := h.recommendations.Recommend(c.Request.Context(), req.Ingredients)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Debug("recommendation served",
		zap.Int("ingredients", len(req.Ingredients)),
		zap.Int("recipes", len(recipes)))
	c.JSON(http.StatusOK, recipes)
}

func (h *RecommendHandler) RecommendForSituation(c *gin.Context) {
	var req types.SituationalRecommendRequest
	if !bindJSON(c, &req) {
		return
	}

	recipes, err := h.recommendations.RecommendForSituation(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}
