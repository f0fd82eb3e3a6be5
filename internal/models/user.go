package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:254" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserIngredient is one entry of a user's saved fridge list.
type UserIngredient struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_ingredient" json:"user_id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:idx_user_ingredient" json:"name"`
}

type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_favorite" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_user_favorite" json:"recipe_id"`
	Recipe    Recipe    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type RecentlyViewed struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	UserID   uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_recent" json:"user_id"`
	RecipeID uint      `gorm:"not null;uniqueIndex:idx_user_recent" json:"recipe_id"`
	Recipe   Recipe    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ViewedAt time.Time `gorm:"not null;index" json:"viewed_at"`
}

func (RecentlyViewed) TableName() string {
	return "recently_viewed"
}
