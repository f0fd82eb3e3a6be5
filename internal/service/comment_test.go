package service_test

import (
	"context"
	"testing"

	"github.com/fridgechef/backend/internal/apperr"
	"github.com/fridgechef/backend/internal/service"
	"github.com/fridgechef/backend/internal/testhelpers"
	"github.com/fridgechef/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	testhelpers.CreateUser(t, db, "chef")
	recipe := testhelpers.CreateRecipe(t, db, nil, "김치찌개", nil, nil)
	svc := service.NewCommentService(db)
	ctx := context.Background()

	first, err := svc.CreateComment(ctx, recipe.ID, &types.CommentRequest{Username: "chef", Content: " 맛있어요 ", Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, "chef", first.Username)
	assert.Equal(t, "맛있어요", first.Content)
	assert.Equal(t, 4, first.Rating)

	second, err := svc.CreateComment(ctx, recipe.ID, &types.CommentRequest{Username: "chef", Content: "또 만들었어요", Rating: 11})
	require.NoError(t, err)
	assert.Equal(t, 5, second.Rating)

	list, err := svc.ListComments(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, "chef", list[0].Username)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestCommentServiceValidation(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	testhelpers.CreateUser(t, db, "chef")
	recipe := testhelpers.CreateRecipe(t, db, nil, "김치찌개", nil, nil)
	svc := service.NewCommentService(db)
	ctx := context.Background()

	tests := []struct {
		name     string
		recipeID uint
		req      types.CommentRequest
		kind     apperr.Kind
		message  string
	}{
		{"no user", recipe.ID, types.CommentRequest{Content: "hi"}, apperr.KindInput, "유저 정보가 필요합니다."},
		{"unknown user", recipe.ID, types.CommentRequest{Username: "ghost", Content: "hi"}, apperr.KindNotFound, "존재하지 않는 유저입니다."},
		{"blank content", recipe.ID, types.CommentRequest{Username: "chef", Content: "  "}, apperr.KindInput, "내용을 입력해주세요."},
		{"missing recipe", 999, types.CommentRequest{Username: "chef", Content: "hi"}, apperr.KindNotFound, "존재하지 않는 레시피입니다."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateComment(ctx, tt.recipeID, &tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
			assert.Equal(t, tt.message, apperr.Message(err))
		})
	}

	list, err := svc.ListComments(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
