package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fridgechef/backend/internal/apperr"
	"github.com/fridgechef/backend/internal/recommend"
	"github.com/fridgechef/backend/internal/service"
	"github.com/fridgechef/backend/internal/testhelpers"
	"github.com/fridgechef/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func situationalService(t *testing.T, text service.TextGenerator) *service.RecommendationService {
	t.Helper()
	return service.NewRecommendationService(service.RecommendationDeps{
		DB:     testhelpers.SetupSQLiteDatabase(t),
		Engine: recommend.NewEngine(recommend.StaticDataset{}, recommend.NewMatcher(nil), recommend.DefaultRanker(), nil),
		Text:   text,
	})
}

func TestRecommendForSituation(t *testing.T) {
	text := new(testhelpers.MockTextGenerator)
	text.On("Complete", mock.Anything, "", mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "계란, 밥") && strings.Contains(prompt, "점심") && strings.Contains(prompt, "매운 음식")
	})).Return(`[{"name": "계란 볶음밥", "cooking_time": 10, "steps": ["1. 볶는다."]}]`, nil)

	svc := situationalService(t, text)
	recipes, err := svc.RecommendForSituation(context.Background(), &types.SituationalRecommendRequest{
		Ingredients: []string{"계란", " 밥", "계란"},
		Preferences: "매운 음식",
	})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "계란 볶음밥", recipes[0].Name)
	assert.Equal(t, 10, recipes[0].CookingTime)
	assert.Equal(t, []string{"볶는다."}, recipes[0].Steps)
	text.AssertExpectations(t)
}

func TestRecommendForSituationFailures(t *testing.T) {
	t.Run("no generator", func(t *testing.T) {
		svc := situationalService(t, nil)
		_, err := svc.RecommendForSituation(context.Background(), &types.SituationalRecommendRequest{TimeSlot: "야식"})
		require.Error(t, err)
		assert.Equal(t, apperr.KindUnexpected, apperr.KindOf(err))
		assert.Equal(t, "AI 키가 설정되지 않았습니다.", apperr.Message(err))
	})

	t.Run("upstream error", func(t *testing.T) {
		text := new(testhelpers.MockTextGenerator)
		text.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

		svc := situationalService(t, text)
		_, err := svc.RecommendForSituation(context.Background(), &types.SituationalRecommendRequest{TimeSlot: "야식"})
		assert.True(t, apperr.Is(err, apperr.KindUpstream))
	})

	t.Run("unparseable reply", func(t *testing.T) {
		text := new(testhelpers.MockTextGenerator)
		text.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("오늘은 추천이 어렵습니다", nil)

		svc := situationalService(t, text)
		_, err := svc.RecommendForSituation(context.Background(), &types.SituationalRecommendRequest{})
		assert.True(t, apperr.Is(err, apperr.KindUpstream))
		assert.Equal(t, "AI 응답을 해석할 수 없습니다.", apperr.Message(err))
	})
}
