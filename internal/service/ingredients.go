package service

import (
	"strings"

	"github.com/fridgechef/backend/internal/models"
	"github.com/fridgechef/backend/internal/recommend"
	"github.com/fridgechef/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// findOrCreateIngredient returns the global catalogue row for name, creating
// it when missing. Concurrent callers converge on the same row.
func findOrCreateIngredient(tx *gorm.DB, name string) (models.Ingredient, error) {
	candidate := models.Ingredient{Name: name}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&candidate).Error
	if err != nil {
		return models.Ingredient{}, err
	}

	var ingredient models.Ingredient
	if err := tx.Where("name = ?", name).First(&ingredient).Error; err != nil {
		return models.Ingredient{}, err
	}
	return ingredient, nil
}

// attachIngredients links every named input to the recipe once. Blank names
// are skipped and blank amounts become the default amount.
func attachIngredients(tx *gorm.DB, recipeID uint, items []types.IngredientInput) error {
	for _, item := range items {
		name := recommend.Canonical(item.Name)
		if name == "" {
			continue
		}
		amount := strings.TrimSpace(item.Amount)
		if amount == "" {
			amount = models.DefaultAmount
		}

		ingredient, err := findOrCreateIngredient(tx, name)
		if err != nil {
			return err
		}
		link := models.RecipeIngredient{RecipeID: recipeID, IngredientID: ingredient.ID, Amount: amount}
		err = tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "ingredient_id"}},
			DoNothing: true,
		}).Create(&link).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// insertSteps stores steps in order starting at 1. Blank steps are dropped and
// an existing (recipe, order) row is left in place.
func insertSteps(tx *gorm.DB, recipeID uint, steps []string) error {
	rows := make([]models.Step, 0, len(steps))
	for _, content := range steps {
		content = strings.TrimSpace(content)
		if content == "" {
			continue
		}
		rows = append(rows, models.Step{RecipeID: recipeID, Order: len(rows) + 1, Content: content})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "step_order"}},
		DoNothing: true,
	}).Create(&rows).Error
}

func ingredientInputs(items []recommend.Ingredient) []types.IngredientInput {
	out := make([]types.IngredientInput, 0, len(items))
	for _, item := range items {
		out = append(out, types.IngredientInput{Name: item.Name, Amount: item.Amount})
	}
	return out
}
