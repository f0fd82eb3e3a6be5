package recommend

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Exclusion blocks a substring hit of User inside any recipe ingredient
// name containing Recipe, e.g. "파" inside "양파".
type Exclusion struct {
	User   string
	Recipe string
}

// LegacyExclusions is the pair the original matcher hard-coded.
var LegacyExclusions = []Exclusion{{User: "파", Recipe: "양파"}}

// ParseExclusions parses "user:recipe" pairs.
func ParseExclusions(pairs []string) ([]Exclusion, error) {
	out := make([]Exclusion, 0, len(pairs))
	for _, pair := range pairs {
		u, r, ok := strings.Cut(pair, ":")
		u, r = Canonical(u), Canonical(r)
		if !ok || u == "" || r == "" {
			return nil, fmt.Errorf("invalid exclusion %q, expected user:recipe", pair)
		}
		out = append(out, Exclusion{User: u, Recipe: r})
	}
	return out, nil
}

// Matcher decides whether a user ingredient satisfies a recipe ingredient.
type Matcher struct {
	exclusions map[string][]string
}

// NewMatcher returns a Matcher with the given stop-list. The legacy pair is
// always included.
func NewMatcher(exclusions []Exclusion) *Matcher {
	m := &Matcher{exclusions: make(map[string][]string)}
	for _, ex := range append(append([]Exclusion{}, LegacyExclusions...), exclusions...) {
		m.exclusions[ex.User] = append(m.exclusions[ex.User], ex.Recipe)
	}
	return m
}

func (m *Matcher) excluded(user, recipe string) bool {
	for _, blocked := range m.exclusions[user] {
		if strings.Contains(recipe, blocked) {
			return true
		}
	}
	return false
}

// Hit reports whether user ingredient u matches recipe ingredient r: either
// exactly, or as a substring when u is longer than one character and the
// pair is not on the stop-list.
func (m *Matcher) Hit(u, r string) bool {
	if u == r {
		return true
	}
	if utf8.RuneCountInString(u) <= 1 {
		return false
	}
	return strings.Contains(r, u) && !m.excluded(u, r)
}

// Score counts the user ingredients that hit at least one recipe ingredient
// name. Each user ingredient counts at most once. ok is false when the
// recipe has no ingredients, in which case the recipe must not be ranked.
func (m *Matcher) Score(user, recipeNames []string) (matchCount int, matchRate float64, ok bool) {
	total := len(recipeNames)
	if total == 0 {
		return 0, 0, false
	}
	for _, u := range user {
		for _, r := range recipeNames {
			if m.Hit(u, r) {
				matchCount++
				break
			}
		}
	}
	matchRate = float64(matchCount) / float64(total) * 100
	if matchRate > 100 {
		matchRate = 100
	}
	return matchCount, matchRate, true
}
