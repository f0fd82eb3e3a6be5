package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fridgechef/backend/internal/apperr"
	"github.com/fridgechef/backend/internal/models"
	"github.com/fridgechef/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// ListComments returns the recipe's comments, newest first.
func (s *CommentService) ListComments(ctx context.Context, recipeID uint) ([]types.CommentView, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, apperr.Unexpected(err)
	}

	views := make([]types.CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, commentView(&comments[i]))
	}
	return views, nil
}

func (s *CommentService) CreateComment(ctx context.Context, recipeID uint, req *types.CommentRequest) (*types.CommentView, error) {
	user, err := findUser(ctx, s.db, req.Username)
	if err != nil {
		if apperr.Is(err, apperr.KindInput) {
			return nil, apperr.Input("유저 정보가 필요합니다.")
		}
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("존재하지 않는 유저입니다.")
		}
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperr.Input("내용을 입력해주세요.")
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Select("id").First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(msgRecipeNotFound)
		}
		return nil, apperr.Unexpected(err)
	}

	rating := req.Rating
	if rating < 1 || rating > 5 {
		rating = models.DefaultRating
	}
	comment := models.Comment{RecipeID: recipe.ID, UserID: user.ID, Content: content, Rating: rating}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&comment).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	comment.User = *user

	view := commentView(&comment)
	return &view, nil
}

func commentView(c *models.Comment) types.CommentView {
	return types.CommentView{
		ID:        c.ID,
		Username:  c.User.Username,
		Content:   c.Content,
		Rating:    c.Rating,
		CreatedAt: c.CreatedAt,
	}
}
