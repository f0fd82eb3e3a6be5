package types

// RecommendRequest is the body of the dataset-backed recommendation endpoint.
type RecommendRequest struct {
	Ingredients []string `json:"ingredients"`
}

// SituationalRecommendRequest asks the text generator for recipes that suit a
// time of day and a free-text preference.
type SituationalRecommendRequest struct {
	Ingredients []string `json:"ingredients"`
	TimeSlot    string   `json:"timeSlot"`
	Preferences string   `json:"preferences"`
}

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserIngredientsRequest struct {
	Username    string   `json:"username"`
	Ingredients []string `json:"ingredients"`
}

// FavoriteRequest accepts either "db-12" or "12" as the recipe id.
type FavoriteRequest struct {
	Username string      `json:"username"`
	RecipeID interface{} `json:"recipe_id"`
}

type IngredientInput struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// RecipeInput is shared by the create and update endpoints. Pointer and nil
// slice fields are left untouched on update.
type RecipeInput struct {
	Username          string            `json:"username"`
	Name              *string           `json:"name"`
	CookingTime       *int              `json:"cookingTime"`
	Difficulty        *string           `json:"difficulty"`
	Category          *string           `json:"category"`
	Dishwashing       *string           `json:"dishwashing"`
	LateNightSuitable *bool             `json:"lateNightSuitable"`
	HealthTags        []string          `json:"healthTags"`
	RequiredEquipment []string          `json:"requiredEquipment"`
	Image             *string           `json:"image"`
	Description       *string           `json:"description"`
	Tips              []string          `json:"tips"`
	Ingredients       []IngredientInput `json:"ingredients"`
	Steps             []string          `json:"steps"`
}

type CommentRequest struct {
	Username string `json:"username"`
	Content  string `json:"content"`
	Rating   int    `json:"rating"`
}
