package recommend

import (
	"sort"
	"strings"
)

const (
	DefaultThreshold = 10.0
	DefaultLimit     = 3

	FallbackTime       = 20
	FallbackDifficulty = "초급"
	FallbackCategory   = "기타"
)

// Candidate is a dataset recipe under evaluation. It is never mutated.
type Candidate struct {
	Title          string
	RawIngredients []string
	Time           int
	Difficulty     string
	Category       string

	// names are the canonical ingredient names, computed once at load.
	names []string
}

// NewCandidate builds a Candidate and precomputes its ingredient names.
func NewCandidate(title string, raw []string, minutes int, difficulty, category string) Candidate {
	c := Candidate{
		Title:          title,
		RawIngredients: raw,
		Time:           minutes,
		Difficulty:     difficulty,
		Category:       category,
	}
	c.names = IngredientNames(c.Raw())
	return c
}

// Raw returns the pipe-delimited ingredient string.
func (c Candidate) Raw() string {
	return strings.Join(c.RawIngredients, SegmentSeparator)
}

// Names returns the canonical ingredient names.
func (c Candidate) Names() []string {
	if c.names == nil {
		return IngredientNames(c.Raw())
	}
	return c.names
}

type MatchResult struct {
	Recipe     Candidate
	MatchCount int
	MatchRate  float64
}

// Ranker drops weak matches, orders by match count and truncates.
type Ranker struct {
	Threshold float64
	Limit     int
}

// DefaultRanker keeps the top 3 results at or above a 10% match rate.
func DefaultRanker() Ranker {
	return Ranker{Threshold: DefaultThreshold, Limit: DefaultLimit}
}

// Rank filters results below the threshold, stable-sorts the rest by match
// count descending and truncates to the limit. Equal counts keep input order.
func (r Ranker) Rank(results []MatchResult) []MatchResult {
	kept := make([]MatchResult, 0, len(results))
	for _, res := range results {
		if res.MatchRate >= r.Threshold {
			kept = append(kept, res)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].MatchCount > kept[j].MatchCount
	})
	if r.Limit > 0 && len(kept) > r.Limit {
		kept = kept[:r.Limit]
	}
	return kept
}

// Fallback synthesizes the single placeholder used when no dataset exists.
// It returns nil when the user gave no ingredients.
func Fallback(user []string) []MatchResult {
	if len(user) == 0 {
		return nil
	}
	raw := append([]string(nil), user...)
	return []MatchResult{{
		Recipe:     NewCandidate(user[0]+" 요리", raw, FallbackTime, FallbackDifficulty, FallbackCategory),
		MatchCount: 1,
		MatchRate:  100 / float64(len(raw)),
	}}
}
