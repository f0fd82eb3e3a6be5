package types

import (
	"time"

	"github.com/fridgechef/backend/internal/models"
)

// AIAuthor is shown as the author of every dataset recipe.
const AIAuthor = "AI 셰프"

type IngredientAmount struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// RecommendedRecipe is the projection returned by the recommend endpoint.
type RecommendedRecipe struct {
	ID                     string               `json:"id"`
	Name                   string               `json:"name"`
	CookingTime            int                  `json:"cookingTime"`
	Difficulty             string               `json:"difficulty"`
	Category               string               `json:"category"`
	LateNightSuitable      bool                 `json:"lateNightSuitable"`
	HealthTags             []string             `json:"healthTags"`
	Ingredients            []IngredientAmount   `json:"ingredients"`
	Steps                  []string             `json:"steps"`
	Image                  string               `json:"image"`
	Description            string               `json:"description"`
	Tips                   []string             `json:"tips"`
	Nutrition              models.Nutrition     `json:"nutrition"`
	RequiredEquipment      []string             `json:"requiredEquipment"`
	AlternativeIngredients models.Substitutions `json:"alternativeIngredients"`
	Author                 string               `json:"author"`
	IsUserRecipe           bool                 `json:"isUserRecipe"`
	MatchCount             int                  `json:"matchCount"`
	MatchRate              float64              `json:"matchRate"`
}

// RecipeSummary is the list/detail projection of a persisted recipe.
type RecipeSummary struct {
	ID                     string               `json:"id"`
	Name                   string               `json:"name"`
	CookingTime            int                  `json:"cookingTime"`
	Difficulty             string               `json:"difficulty"`
	Category               string               `json:"category"`
	Dishwashing            string               `json:"dishwashing"`
	LateNightSuitable      bool                 `json:"lateNightSuitable"`
	HealthTags             []string             `json:"healthTags"`
	Ingredients            []IngredientAmount   `json:"ingredients"`
	Steps                  []string             `json:"steps"`
	Image                  string               `json:"image"`
	Description            string               `json:"description"`
	Tips                   []string             `json:"tips"`
	Nutrition              models.Nutrition     `json:"nutrition"`
	RequiredEquipment      []string             `json:"requiredEquipment"`
	AlternativeIngredients models.Substitutions `json:"alternativeIngredients"`
	Author                 string               `json:"author"`
	IsUserRecipe           bool                 `json:"isUserRecipe"`
	CreatedAt              time.Time            `json:"createdAt"`
}

type CommentView struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Message string   `json:"message"`
	User    UserView `json:"user"`
	Token   string   `json:"token"`
}
