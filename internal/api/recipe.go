package api

import (
	"net/http"

	"github.com/fridgechef/backend/internal/middleware"
	"github.com/fridgechef/backend/internal/service"
	"github.com/fridgechef/backend/internal/types"
	"github.com/gin-gonic/gin"
)

type RecipeHandler struct {
	recipeService service.IRecipeService
}

func NewRecipeHandler(recipeService service.IRecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/", h.ListRecipes)
		recipes.POST("/create/", h.CreateRecipe)
		recipes.GET("/:id/", h.GetRecipe)
		recipes.PUT("/:id/update/", h.UpdateRecipe)
		recipes.DELETE("/:id/delete/", h.DeleteRecipe)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), recipeListLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// GetRecipe returns one recipe. A known viewer gets it added to their
// recently viewed list.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeIDParam(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id, middleware.Username(c, c.Query("username")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var in types.RecipeInput
	if !bindJSON(c, &in) {
		return
	}
	in.Username = middleware.Username(c, in.Username)

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "레시피가 등록되었습니다!",
		"recipe_id": recipe.ID,
	})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := recipeIDParam(c)
	if !ok {
		return
	}
	var in types.RecipeInput
	if !bindJSON(c, &in) {
		return
	}
	in.Username = middleware.Username(c, in.Username)

	if err := h.recipeService.UpdateRecipe(c.Request.Context(), id, &in); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "수정 성공!"})
}

// DeleteRecipe accepts the username from the query string or a JSON body.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := recipeIDParam(c)
	if !ok {
		return
	}

	username := c.Query("username")
	if username == "" && c.Request.ContentLength != 0 {
		var body struct {
			Username string `json:"username"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			username = body.Username
		}
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id, middleware.Username(c, username)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "삭제되었습니다."})
}
