package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fridgechef/backend/internal/apperr"
	"github.com/fridgechef/backend/internal/models"
	"github.com/fridgechef/backend/internal/types"
	"gorm.io/gorm"
)

const (
	recipeIDPrefix     = "db-"
	msgRecipeNotFound  = "존재하지 않는 레시피입니다."
	defaultEquipmentUI = "조리 도구"
)

// PublicRecipeID formats a persisted recipe id the way clients address it.
func PublicRecipeID(id uint) string {
	return fmt.Sprintf("%s%d", recipeIDPrefix, id)
}

// ParseRecipeID accepts "db-12", "12" or a JSON number.
func ParseRecipeID(v interface{}) (uint, error) {
	switch id := v.(type) {
	case float64:
		if id <= 0 || id != float64(uint(id)) {
			return 0, apperr.Input("invalid recipe id")
		}
		return uint(id), nil
	case int:
		if id <= 0 {
			return 0, apperr.Input("invalid recipe id")
		}
		return uint(id), nil
	case uint:
		if id == 0 {
			return 0, apperr.Input("invalid recipe id")
		}
		return id, nil
	case string:
		n, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(id), recipeIDPrefix), 10, 64)
		if err != nil || n == 0 {
			return 0, apperr.Input("invalid recipe id")
		}
		return uint(n), nil
	default:
		return 0, apperr.Input("recipe_id is required")
	}
}

func preloadRecipe(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Ingredients.Ingredient").
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") })
}

func loadRecipe(ctx context.Context, db *gorm.DB, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := preloadRecipe(db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(msgRecipeNotFound)
		}
		return nil, apperr.Unexpected(err)
	}
	return &recipe, nil
}

func ingredientAmounts(links []models.RecipeIngredient) []types.IngredientAmount {
	out := make([]types.IngredientAmount, 0, len(links))
	for _, link := range links {
		out = append(out, types.IngredientAmount{Name: link.Ingredient.Name, Amount: link.Amount})
	}
	return out
}

func stepContents(steps []models.Step) []string {
	out := make([]string, 0, len(steps))
	for _, step := range steps {
		out = append(out, step.Content)
	}
	return out
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func authorName(r *models.Recipe) string {
	if r.Author != nil && r.Author.Username != "" {
		return r.Author.Username
	}
	return types.AIAuthor
}

func summarize(r *models.Recipe) types.RecipeSummary {
	subs := r.AlternativeIngredients
	if subs == nil {
		subs = models.Substitutions{}
	}
	return types.RecipeSummary{
		ID:                     PublicRecipeID(r.ID),
		Name:                   r.Name,
		CookingTime:            r.CookingTime,
		Difficulty:             r.Difficulty,
		Category:               r.Category,
		Dishwashing:            r.Dishwashing,
		LateNightSuitable:      r.LateNightSuitable,
		HealthTags:             nonNil(r.HealthTags),
		Ingredients:            ingredientAmounts(r.Ingredients),
		Steps:                  stepContents(r.Steps),
		Image:                  r.Image,
		Description:            r.Description,
		Tips:                   nonNil(r.Tips),
		Nutrition:              r.Nutrition,
		RequiredEquipment:      nonNil(r.RequiredEquipment),
		AlternativeIngredients: subs,
		Author:                 authorName(r),
		IsUserRecipe:           r.IsUserRecipe(),
		CreatedAt:              r.CreatedAt,
	}
}

func summarizeAll(recipes []models.Recipe) []types.RecipeSummary {
	out := make([]types.RecipeSummary, 0, len(recipes))
	for i := range recipes {
		out = append(out, summarize(&recipes[i]))
	}
	return out
}
