package recommend

import (
	"errors"

	"go.uber.org/zap"
)

// Engine scores every dataset candidate against the user's ingredients and
// ranks the results.
type Engine struct {
	source  DatasetSource
	matcher *Matcher
	ranker  Ranker
	logger  *zap.Logger
}

func NewEngine(source DatasetSource, matcher *Matcher, ranker Ranker, logger *zap.Logger) *Engine {
	if matcher == nil {
		matcher = NewMatcher(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{source: source, matcher: matcher, ranker: ranker, logger: logger}
}

// Recommend returns at most the ranker's limit of results. When the dataset
// is unavailable it returns the single synthesized fallback candidate.
func (e *Engine) Recommend(userIngredients []string) ([]MatchResult, error) {
	user := CleanUserIngredients(userIngredients)

	ds, err := e.source.Load()
	if errors.Is(err, ErrDatasetUnavailable) {
		e.logger.Warn("recipe dataset unavailable, using fallback", zap.Strings("ingredients", user))
		results := Fallback(user)
		RecommendResults.Observe(float64(len(results)))
		return results, nil
	}
	if err != nil {
		return nil, err
	}

	scored := make([]MatchResult, 0, len(ds.Recipes))
	for _, c := range ds.Recipes {
		count, rate, ok := e.matcher.Score(user, c.Names())
		if !ok {
			continue
		}
		scored = append(scored, MatchResult{Recipe: c, MatchCount: count, MatchRate: rate})
	}

	results := e.ranker.Rank(scored)
	RecommendResults.Observe(float64(len(results)))
	return results, nil
}
