package service

import (
	"context"

	"github.com/fridgechef/backend/internal/apperr"
	"github.com/fridgechef/backend/internal/models"
	"github.com/fridgechef/backend/internal/recommend"
	"gorm.io/gorm"
)

// PantryService keeps the list of ingredients each user has at home.
type PantryService struct {
	db *gorm.DB
}

func NewPantryService(db *gorm.DB) *PantryService {
	return &PantryService{db: db}
}

func (s *PantryService) GetIngredients(ctx context.Context, username string) ([]string, error) {
	user, err := findUser(ctx, s.db, username)
	if err != nil {
		return nil, err
	}
	return s.names(ctx, user)
}

func (s *PantryService) names(ctx context.Context, user *models.User) ([]string, error) {
	var rows []models.UserIngredient
	if err := s.db.WithContext(ctx).Where("user_id = ?", user.ID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	return names, nil
}

// ReplaceIngredients swaps the user's whole list for names, deduplicated in
// order, and returns the stored list.
func (s *PantryService) ReplaceIngredients(ctx context.Context, username string, names []string) ([]string, error) {
	user, err := findUser(ctx, s.db, username)
	if err != nil {
		return nil, err
	}

	cleaned := recommend.CleanUserIngredients(names)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserIngredient{}).Error; err != nil {
			return err
		}
		if len(cleaned) == 0 {
			return nil
		}
		rows := make([]models.UserIngredient, 0, len(cleaned))
		for _, name := range cleaned {
			rows = append(rows, models.UserIngredient{UserID: user.ID, Name: name})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return cleaned, nil
}

// RemoveIngredient deletes one entry, or the whole list when name is blank.
func (s *PantryService) RemoveIngredient(ctx context.Context, username, name string) error {
	user, err := findUser(ctx, s.db, username)
	if err != nil {
		return err
	}

	query := s.db.WithContext(ctx).Where("user_id = ?", user.ID)
	if name = recommend.Canonical(name); name != "" {
		query = query.Where("name = ?", name)
	}
	if err := query.Delete(&models.UserIngredient{}).Error; err != nil {
		return apperr.Unexpected(err)
	}
	return nil
}
