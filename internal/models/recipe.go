package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCookingTime = 20
	DefaultDifficulty  = "보통"
	DefaultCategory    = "기타"
	DefaultDishwashing = "보통"
	DefaultAmount      = "적당량"
	DefaultRating      = 5
)

// Recipe is either a dataset recipe promoted by a recommendation
// (DatasetKey set, AuthorID nil) or a recipe posted by a user.
type Recipe struct {
	ID                     uint          `gorm:"primarykey" json:"id"`
	CreatedAt              time.Time     `json:"created_at"`
	UpdatedAt              time.Time     `json:"updated_at"`
	AuthorID               *uuid.UUID    `gorm:"type:varchar(36);index" json:"author_id"`
	Author                 *User         `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`
	DatasetKey             *string       `gorm:"size:255;uniqueIndex" json:"-"`
	Name                   string        `gorm:"size:255;not null;index" json:"name"`
	CookingTime            int           `gorm:"not null;default:20" json:"cooking_time"`
	Difficulty             string        `gorm:"size:50;not null;default:'보통'" json:"difficulty"`
	Category               string        `gorm:"size:50;not null;default:'기타'" json:"category"`
	Dishwashing            string        `gorm:"size:50;not null;default:'보통'" json:"dishwashing"`
	Image                  string        `gorm:"size:1024" json:"image"`
	Description            string        `gorm:"type:text" json:"description"`
	Tips                   StringList    `json:"tips"`
	Nutrition              Nutrition     `json:"nutrition"`
	RequiredEquipment      StringList    `json:"required_equipment"`
	HealthTags             StringList    `json:"health_tags"`
	AlternativeIngredients Substitutions `json:"alternative_ingredients"`
	LateNightSuitable      bool          `gorm:"not null;default:false" json:"late_night_suitable"`

	Ingredients []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
	Steps       []Step             `gorm:"constraint:OnDelete:CASCADE" json:"steps,omitempty"`
}

// IsUserRecipe reports whether the recipe was posted by a user.
func (r *Recipe) IsUserRecipe() bool {
	return r.AuthorID != nil
}

// Ingredient is the global, deduplicated ingredient catalogue.
type Ingredient struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

type RecipeIngredient struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	RecipeID     uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Ingredient   Ingredient `json:"ingredient"`
	Amount       string     `gorm:"size:100;not null;default:'적당량'" json:"amount"`
}

// Step is one ordered instruction. Order starts at 1.
type Step struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	RecipeID uint   `gorm:"not null;uniqueIndex:idx_recipe_step" json:"recipe_id"`
	Order    int    `gorm:"column:step_order;not null;uniqueIndex:idx_recipe_step" json:"order"`
	Content  string `gorm:"type:text;not null" json:"content"`
}

type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	RecipeID  uint      `gorm:"not null;index" json:"recipe_id"`
	Recipe    Recipe    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Rating    int       `gorm:"not null;default:5" json:"rating"`
}

// All returns every persisted model in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&Step{},
		&UserIngredient{},
		&Favorite{},
		&Comment{},
		&RecentlyViewed{},
	}
}
