package service

import (
	"context"
	"fmt"

	"github.com/fridgechef/backend/internal/apperr"
	"github.com/fridgechef/backend/internal/recommend"
	"go.uber.org/zap"
)

// Seed persists every candidate with its dataset ingredients and no
// enrichment. Already stored recipes are left as they are, so running it
// twice is harmless. It returns the number of candidates processed.
func (s *RecommendationService) Seed(ctx context.Context, candidates []recommend.Candidate) (int, error) {
	seeded := 0
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return seeded, err
		}
		if err := s.seedOne(ctx, c); err != nil {
			return seeded, err
		}
		seeded++
		if seeded%100 == 0 {
			s.logger.Info("seeding recipes", zap.Int("seeded", seeded), zap.Int("total", len(candidates)))
		}
	}
	return seeded, nil
}

func (s *RecommendationService) seedOne(ctx context.Context, c recommend.Candidate) error {
	unlock, err := s.locker.Lock(ctx, "recipe:"+c.Title)
	if err != nil {
		return apperr.Unexpected(fmt.Errorf("failed to lock recipe %q: %w", c.Title, err))
	}
	defer unlock()

	recipe, err := s.upsert(ctx, c)
	if err != nil {
		return apperr.Unexpected(err)
	}
	if err := s.attachDatasetIngredients(ctx, recipe.ID, c); err != nil {
		return apperr.Unexpected(err)
	}
	return nil
}
