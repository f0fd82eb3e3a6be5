package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHit(t *testing.T) {
	m := NewMatcher(nil)

	tests := []struct {
		name string
		u, r string
		want bool
	}{
		{"exact", "김치", "김치", true},
		{"substring", "김치", "묵은지 김치", true},
		{"scallion is not onion", "파", "양파", false},
		{"single rune exact", "파", "파", true},
		{"single rune substring", "밥", "볶음밥", false},
		{"onion is onion", "양파", "양파", true},
		{"no relation", "두부", "김치", false},
		{"user longer than recipe", "돼지고기", "고기", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Hit(tt.u, tt.r))
		})
	}
}

func TestHitWithStopList(t *testing.T) {
	exclusions, err := ParseExclusions([]string{"고추:고추장", "버터:땅콩버터"})
	require.NoError(t, err)
	m := NewMatcher(exclusions)

	assert.False(t, m.Hit("고추", "고추장"))
	assert.False(t, m.Hit("고추", "태양초 고추장"))
	assert.True(t, m.Hit("고추", "청양 고추"))
	assert.False(t, m.Hit("버터", "땅콩버터"))
	assert.True(t, m.Hit("버터", "무염 버터"))
	assert.True(t, m.Hit("고추장", "고추장"))
	assert.False(t, m.Hit("파", "양파"))
}

func TestParseExclusionsRejectsMalformed(t *testing.T) {
	_, err := ParseExclusions([]string{"고추고추장"})
	assert.Error(t, err)
	_, err = ParseExclusions([]string{":고추장"})
	assert.Error(t, err)
}

func TestScore(t *testing.T) {
	m := NewMatcher(nil)

	count, rate, ok := m.Score([]string{"김치", "밥"}, []string{"김치", "밥", "돼지고기"})
	require.True(t, ok)
	assert.Equal(t, 2, count)
	assert.InDelta(t, 66.7, rate, 0.05)
}

func TestScoreCountsUserIngredientOnce(t *testing.T) {
	m := NewMatcher(nil)

	count, _, ok := m.Score([]string{"김치"}, []string{"김치", "묵은지 김치", "김치 국물"})
	require.True(t, ok)
	assert.Equal(t, 1, count)
}

func TestScoreSkipsEmptyRecipe(t *testing.T) {
	m := NewMatcher(nil)

	count, rate, ok := m.Score([]string{"김치"}, nil)
	assert.False(t, ok)
	assert.Zero(t, count)
	assert.Zero(t, rate)
}

func TestScoreRateBounded(t *testing.T) {
	m := NewMatcher(nil)

	// two user ingredients hitting the same single recipe ingredient
	count, rate, ok := m.Score([]string{"묵은지", "김치"}, []string{"묵은지 김치"})
	require.True(t, ok)
	assert.Equal(t, 2, count)
	assert.Equal(t, 100.0, rate)

	_, rate, _ = m.Score(nil, []string{"김치"})
	assert.Equal(t, 0.0, rate)
}
