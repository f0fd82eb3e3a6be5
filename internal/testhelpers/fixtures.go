package testhelpers

import (
	"testing"

	"github.com/fridgechef/backend/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the password of every user created by CreateUser.
const TestPassword = "password123"

// CreateUser stores a user whose password is TestPassword.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Username: username, Email: username + "@example.com", PasswordHash: string(hash)}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateRecipe stores a recipe with the given ingredient names and steps.
// A nil author makes it a dataset recipe keyed by name.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, ingredients []string, steps []string) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{Name: name}
	if author != nil {
		recipe.AuthorID = &author.ID
	} else {
		key := name
		recipe.DatasetKey = &key
	}
	require.NoError(t, db.Omit("Author", "Ingredients", "Steps").Create(recipe).Error)

	for _, n := range ingredients {
		ing := models.Ingredient{Name: n}
		require.NoError(t, db.Where(models.Ingredient{Name: n}).FirstOrCreate(&ing).Error)
		link := models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: ing.ID, Amount: models.DefaultAmount}
		require.NoError(t, db.Omit("Ingredient").Create(&link).Error)
	}
	for i, content := range steps {
		require.NoError(t, db.Create(&models.Step{RecipeID: recipe.ID, Order: i + 1, Content: content}).Error)
	}
	return recipe
}
