package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fridgechef/backend/internal/apperr"
	"github.com/fridgechef/backend/internal/models"
	"github.com/fridgechef/backend/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultListLimit caps the recipe list endpoint.
const DefaultListLimit = 100

// RecipeService handles recipe operations
type RecipeService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, logger *zap.Logger) *RecipeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeService{db: db, logger: logger}
}

// ListRecipes returns the newest recipes first.
func (s *RecipeService) ListRecipes(ctx context.Context, limit int) ([]types.RecipeSummary, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	var recipes []models.Recipe
	err := preloadRecipe(s.db.WithContext(ctx)).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return summarizeAll(recipes), nil
}

// GetRecipe returns one recipe. A known viewer gets the visit recorded in
// their recently viewed list.
func (s *RecipeService) GetRecipe(ctx context.Context, id uint, viewer string) (*types.RecipeSummary, error) {
	recipe, err := loadRecipe(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(viewer) != "" {
		if err := s.recordView(ctx, viewer, recipe.ID); err != nil {
			s.logger.Warn("failed to record recently viewed recipe",
				zap.String("username", viewer), zap.Uint("recipe_id", recipe.ID), zap.Error(err))
		}
	}

	summary := summarize(recipe)
	return &summary, nil
}

func (s *RecipeService) recordView(ctx context.Context, username string, recipeID uint) error {
	user, err := findUser(ctx, s.db, username)
	if err != nil {
		return err
	}
	view := models.RecentlyViewed{UserID: user.ID, RecipeID: recipeID, ViewedAt: time.Now()}
	return s.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"viewed_at"}),
	}).Create(&view).Error
}

// CreateRecipe stores a user-authored recipe with its ingredients and steps.
func (s *RecipeService) CreateRecipe(ctx context.Context, in *types.RecipeInput) (*models.Recipe, error) {
	author, err := findUser(ctx, s.db, in.Username)
	if err != nil {
		if apperr.Is(err, apperr.KindInput) {
			return nil, apperr.Input("작성자 정보(author)가 필요합니다.")
		}
		return nil, err
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, apperr.Input("레시피 이름이 필요합니다.")
	}

	recipe := models.Recipe{
		AuthorID:          &author.ID,
		Name:              strings.TrimSpace(*in.Name),
		CookingTime:       models.DefaultCookingTime,
		Difficulty:        models.DefaultDifficulty,
		Category:          models.DefaultCategory,
		Dishwashing:       models.DefaultDishwashing,
		Tips:              models.StringList(nonNil(in.Tips)),
		HealthTags:        models.StringList(nonNil(in.HealthTags)),
		RequiredEquipment: models.StringList(nonNil(in.RequiredEquipment)),
	}
	applyRecipeInput(&recipe, in)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		if err := attachIngredients(tx, recipe.ID, in.Ingredients); err != nil {
			return err
		}
		return insertSteps(tx, recipe.ID, in.Steps)
	})
	if err != nil {
		return nil, apperr.Unexpected(err)
	}

	s.logger.Info("user recipe created", zap.Uint("recipe_id", recipe.ID), zap.String("author", author.Username))
	return &recipe, nil
}

// UpdateRecipe edits a recipe owned by the acting user. Ingredients and steps
// are replaced only when supplied.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uint, in *types.RecipeInput) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Preload("Author").First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("레시피를 찾을 수 없습니다.")
		}
		return apperr.Unexpected(err)
	}
	if err := checkOwner(&recipe, in.Username); err != nil {
		return err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return apperr.Input("레시피 이름이 필요합니다.")
	}

	applyRecipeInput(&recipe, in)
	if in.Tips != nil {
		recipe.Tips = in.Tips
	}
	if in.HealthTags != nil {
		recipe.HealthTags = in.HealthTags
	}
	if in.RequiredEquipment != nil {
		recipe.RequiredEquipment = in.RequiredEquipment
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(&recipe).Error; err != nil {
			return err
		}
		if in.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := attachIngredients(tx, recipe.ID, in.Ingredients); err != nil {
				return err
			}
		}
		if in.Steps != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Step{}).Error; err != nil {
				return err
			}
			if err := insertSteps(tx, recipe.ID, in.Steps); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperr.Unexpected(err)
	}
	return nil
}

// DeleteRecipe removes a recipe. Recipes with an author may only be removed by
// that author.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uint, username string) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Preload("Author").First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("이미 삭제되었거나 없는 레시피입니다.")
		}
		return apperr.Unexpected(err)
	}
	if recipe.IsUserRecipe() {
		if err := checkOwner(&recipe, username); err != nil {
			return err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// children first so the delete works without foreign key cascades
		for _, child := range []interface{}{
			&models.RecipeIngredient{}, &models.Step{}, &models.Comment{},
			&models.Favorite{}, &models.RecentlyViewed{},
		} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Recipe{}, recipe.ID).Error
	})
	if err != nil {
		return apperr.Unexpected(err)
	}
	return nil
}

func checkOwner(recipe *models.Recipe, username string) error {
	if recipe.Author == nil || recipe.Author.Username != strings.TrimSpace(username) {
		return apperr.Forbidden("수정 권한이 없습니다.")
	}
	return nil
}

func applyRecipeInput(recipe *models.Recipe, in *types.RecipeInput) {
	if in.Name != nil {
		recipe.Name = strings.TrimSpace(*in.Name)
	}
	if in.CookingTime != nil && *in.CookingTime > 0 {
		recipe.CookingTime = *in.CookingTime
	}
	if in.Difficulty != nil && *in.Difficulty != "" {
		recipe.Difficulty = *in.Difficulty
	}
	if in.Category != nil && *in.Category != "" {
		recipe.Category = *in.Category
	}
	if in.Dishwashing != nil && *in.Dishwashing != "" {
		recipe.Dishwashing = *in.Dishwashing
	}
	if in.LateNightSuitable != nil {
		recipe.LateNightSuitable = *in.LateNightSuitable
	}
	if in.Image != nil {
		recipe.Image = *in.Image
	}
	if in.Description != nil {
		recipe.Description = *in.Description
	}
}
