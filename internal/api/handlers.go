package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fridgechef/backend/internal/apperr"
	"github.com/fridgechef/backend/internal/database"
	"github.com/fridgechef/backend/internal/middleware"
	"github.com/fridgechef/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	recipeListLimit = 100
	recentListLimit = 20
)

// Dependencies holds everything the HTTP layer needs. Nil services leave
// their routes unregistered, and a nil AILimiter disables rate limiting.
type Dependencies struct {
	DB              *gorm.DB
	Auth            service.IAuthService
	Recipes         service.IRecipeService
	Pantry          service.IPantryService
	Favorites       service.IFavoriteService
	Comments        service.ICommentService
	Recommendations service.IRecommendationService
	AILimiter       *middleware.RateLimiter
	MediaDir        string
	Logger          *zap.Logger
}

// HealthCheck reports whether the API and its database are reachable.
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := database.HealthCheck(ctx, db); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "unhealthy",
					"error":  "database unreachable",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router.GET("/health", HealthCheck(deps.DB))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if deps.MediaDir != "" {
		router.Static("/media", deps.MediaDir)
	}

	group := router.Group("/api")
	if deps.Auth != nil {
		group.Use(middleware.OptionalAuth(deps.Auth))
		NewAuthHandler(deps.Auth).RegisterRoutes(group)
	}

	limiters := []gin.HandlerFunc{}
	if deps.AILimiter != nil {
		limiters = append(limiters, deps.AILimiter.RateLimitMiddleware())
	}
	if deps.Recommendations != nil {
		NewRecommendHandler(deps.Recommendations, logger).RegisterRoutes(group, limiters...)
	}
	if deps.Recipes != nil {
		NewRecipeHandler(deps.Recipes).RegisterRoutes(group)
	}
	if deps.Comments != nil {
		NewCommentHandler(deps.Comments).RegisterRoutes(group)
	}
	if deps.Pantry != nil && deps.Favorites != nil {
		NewUserHandler(deps.Pantry, deps.Favorites).RegisterRoutes(group)
	}
}

// respondError attaches err to the context for the logger and writes the
// {error} body that matches its kind.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(apperr.HTTPStatus(err), middleware.ErrorResponse{Error: apperr.Message(err)})
}

func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		respondError(c, &apperr.Error{Kind: apperr.KindInput, Message: "잘못된 요청 형식입니다.", Err: err})
		return false
	}
	return true
}

func recipeIDParam(c *gin.Context) (uint, bool) {
	id, err := service.ParseRecipeID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	return id, true
}
