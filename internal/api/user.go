package api

import (
	"net/http"

	"github.com/fridgechef/backend/internal/middleware"
	"github.com/fridgechef/backend/internal/service"
	"github.com/fridgechef/backend/internal/types"
	"github.com/gin-gonic/gin"
)

// UserHandler serves the per-user lists: saved ingredients, favorites and
// recently viewed recipes.
type UserHandler struct {
	pantryService   service.IPantryService
	favoriteService service.IFavoriteService
}

func NewUserHandler(pantryService service.IPantryService, favoriteService service.IFavoriteService) *UserHandler {
	return &UserHandler{pantryService: pantryService, favoriteService: favoriteService}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	user := router.Group("/user")
	{
		user.GET("/ingredients/", h.GetIngredients)
		user.POST("/ingredients/", h.SaveIngredients)
		user.DELETE("/ingredients/", h.DeleteIngredient)
		user.GET("/favorites/", h.ListFavorites)
		user.POST("/favorites/", h.ToggleFavorite)
		user.GET("/recent/", h.ListRecent)
	}
}

func (h *UserHandler) GetIngredients(c *gin.Context) {
	names, err := h.pantryService.GetIngredients(c.Request.Context(), middleware.Username(c, c.Query("username")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": names})
}

// SaveIngredients replaces the whole saved list with the request body.
func (h *UserHandler) SaveIngredients(c *gin.Context) {
	var req types.UserIngredientsRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Username == "" {
		req.Username = c.Query("username")
	}

	names, err := h.pantryService.ReplaceIngredients(c.Request.Context(), middleware.Username(c, req.Username), req.Ingredients)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "저장 완료", "ingredients": names})
}

// DeleteIngredient removes one saved ingredient, or all of them when no
// name is given.
func (h *UserHandler) DeleteIngredient(c *gin.Context) {
	username := middleware.Username(c, c.Query("username"))
	if err := h.pantryService.RemoveIngredient(c.Request.Context(), username, c.Query("name")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "삭제 완료"})
}

func (h *UserHandler) ListFavorites(c *gin.Context) {
	recipes, err := h.favoriteService.ListFavorites(c.Request.Context(), middleware.Username(c, c.Query("username")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *UserHandler) ToggleFavorite(c *gin.Context) {
	var req types.FavoriteRequest
	if !bindJSON(c, &req) {
		return
	}
	recipeID, err := service.ParseRecipeID(req.RecipeID)
	if err != nil {
		respondError(c, err)
		return
	}

	added, err := h.favoriteService.ToggleFavorite(c.Request.Context(), middleware.Username(c, req.Username), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	if added {
		c.JSON(http.StatusOK, gin.H{"message": "추가됨", "status": "added"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "삭제됨", "status": "removed"})
}

func (h *UserHandler) ListRecent(c *gin.Context) {
	recipes, err := h.favoriteService.ListRecent(c.Request.Context(), middleware.Username(c, c.Query("username")), recentListLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}
