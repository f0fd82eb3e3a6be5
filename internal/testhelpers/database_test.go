package testhelpers

import (
	"testing"

	"github.com/fridgechef/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDatabaseSetup(t *testing.T) {
	db := SetupSQLiteDatabase(t)

	user := CreateUser(t, db, "cook")
	recipe := CreateRecipe(t, db, user, "계란말이", []string{"계란", "파"}, []string{"계란을 푼다.", "말아서 굽는다."})

	var got models.Recipe
	require.NoError(t, db.Preload("Ingredients.Ingredient").Preload("Steps").First(&got, recipe.ID).Error)
	assert.True(t, got.IsUserRecipe())
	assert.Len(t, got.Ingredients, 2)
	assert.Len(t, got.Steps, 2)
}

func TestPostgresDatabaseSetup(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	db := SetupPostgresDatabase(t)

	CreateRecipe(t, db, nil, "김치볶음밥", []string{"김치", "밥"}, nil)

	var count int64
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
