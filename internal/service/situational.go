package service

import (
	"context"
	"strings"

	"github.com/fridgechef/backend/internal/apperr"
	"github.com/fridgechef/backend/internal/recommend"
	"github.com/fridgechef/backend/internal/types"
	"go.uber.org/zap"
)

// ErrTextAIDisabled is returned by the situational recommendation when no
// text generator is configured.
var ErrTextAIDisabled = &apperr.Error{Kind: apperr.KindUnexpected, Message: "AI 키가 설정되지 않았습니다."}

// RecommendForSituation asks the text generator for recipes that suit the
// time of day and the user's preference. Nothing is persisted. Unlike the
// dataset flow, generator failures are reported to the caller.
func (s *RecommendationService) RecommendForSituation(ctx context.Context, req *types.SituationalRecommendRequest) ([]SituationalRecipe, error) {
	if s.text == nil {
		return nil, ErrTextAIDisabled
	}

	timeSlot := strings.TrimSpace(req.TimeSlot)
	if timeSlot == "" {
		timeSlot = DefaultTimeSlot
	}
	ingredients := recommend.CleanUserIngredients(req.Ingredients)

	tctx, cancel := withOptionalTimeout(ctx, s.cfg.TextTimeout)
	defer cancel()

	reply, err := s.text.Complete(tctx, "", situationalPrompt(ingredients, timeSlot, strings.TrimSpace(req.Preferences)))
	if err != nil {
		if apperr.Is(err, apperr.KindUpstream) {
			return nil, err
		}
		return nil, apperr.Upstream("text generation failed", err)
	}

	recipes, err := ParseSituationalRecipes(reply)
	if err != nil {
		s.logger.Warn("situational reply unparseable", zap.String("reply", truncate(reply, 200)), zap.Error(err))
		return nil, apperr.Upstream("AI 응답을 해석할 수 없습니다.", err)
	}
	return recipes, nil
}
