package service

import (
	"context"
	"errors"

	"github.com/fridgechef/backend/internal/apperr"
	"github.com/fridgechef/backend/internal/models"
	"github.com/fridgechef/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultRecentLimit is how many recently viewed recipes are returned.
const DefaultRecentLimit = 20

// FavoriteService manages favorites and the recently viewed list.
type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

func (s *FavoriteService) ListFavorites(ctx context.Context, username string) ([]types.RecipeSummary, error) {
	user, err := findUser(ctx, s.db, username)
	if err != nil {
		return nil, err
	}

	var recipes []models.Recipe
	err = preloadRecipe(s.db.WithContext(ctx)).
		Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
		Where("favorites.user_id = ?", user.ID).
		Order("favorites.created_at DESC").
		Order("favorites.id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return summarizeAll(recipes), nil
}

// ToggleFavorite adds the recipe to the user's favorites, or removes it if it
// is already there. It reports whether the recipe is now a favorite.
func (s *FavoriteService) ToggleFavorite(ctx context.Context, username string, recipeID uint) (bool, error) {
	user, err := findUser(ctx, s.db, username)
	if err != nil {
		return false, err
	}

	var added bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Select("id").First(&recipe, recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(msgRecipeNotFound)
			}
			return err
		}

		removed := tx.Where("user_id = ? AND recipe_id = ?", user.ID, recipeID).Delete(&models.Favorite{})
		if removed.Error != nil {
			return removed.Error
		}
		if removed.RowsAffected > 0 {
			return nil
		}

		added = true
		return tx.Omit(clause.Associations).Create(&models.Favorite{UserID: user.ID, RecipeID: recipeID}).Error
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return false, err
		}
		return false, apperr.Unexpected(err)
	}
	return added, nil
}

// ListRecent returns the recipes the user opened most recently.
func (s *FavoriteService) ListRecent(ctx context.Context, username string, limit int) ([]types.RecipeSummary, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	user, err := findUser(ctx, s.db, username)
	if err != nil {
		return nil, err
	}

	var recipes []models.Recipe
	err = preloadRecipe(s.db.WithContext(ctx)).
		Joins("JOIN recently_viewed ON recently_viewed.recipe_id = recipes.id").
		Where("recently_viewed.user_id = ?", user.ID).
		Order("recently_viewed.viewed_at DESC").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return summarizeAll(recipes), nil
}
