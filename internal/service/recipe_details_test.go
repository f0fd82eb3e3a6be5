package service

import (
	"encoding/json"
	"testing"

	"github.com/fridgechef/backend/internal/models"
	"github.com/fridgechef/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecipeDetailsValid(t *testing.T) {
	reply := `{
		"description": "매콤한 김치찌개",
		"cooking_time": 30,
		"difficulty": "중급",
		"category": "한식",
		"steps": ["1. 김치를 볶는다.", "2. 물을 붓는다.", "3. 두부를 넣는다."],
		"tips": ["묵은지를 쓰세요."],
		"nutrition": {"calories": 350, "carbohydrate": 20, "protein": 25, "fat": 15, "sodium": 1500},
		"required_equipment": ["냄비"],
		"alternative_ingredients": {"돼지고기": ["참치"]},
		"late_night_suitable": false,
		"health_tags": ["저칼로리"],
		"ingredients": [{"name": "김치", "amount": "300g"}]
	}`

	details, err := ParseRecipeDetails(reply)
	require.NoError(t, err)
	assert.Equal(t, "매콤한 김치찌개", details.Description)
	assert.Equal(t, 30, details.CookingTime)
	assert.Equal(t, "중급", details.Difficulty)
	assert.Equal(t, []string{"김치를 볶는다.", "물을 붓는다.", "두부를 넣는다."}, details.Steps)
	assert.Equal(t, models.Nutrition{Calories: 350, Carbohydrate: 20, Protein: 25, Fat: 15, Sodium: 1500}, details.Nutrition)
	assert.Equal(t, []string{"냄비"}, details.RequiredEquipment)
	assert.Equal(t, models.Substitutions{"돼지고기": {"참치"}}, details.AlternativeIngredients)
	assert.False(t, details.LateNightSuitable)
	assert.Equal(t, []string{"저칼로리"}, details.HealthTags)
	assert.Equal(t, []types.IngredientAmount{{Name: "김치", Amount: "300g"}}, details.Ingredients)
}

func TestParseRecipeDetailsRecoversWrappedReply(t *testing.T) {
	reply := "네, 요청하신 레시피입니다!\n```json\n" + `{
		"description": "간단한 계란말이",
		"cooking_time": "15분",
		"steps": ["계란을 푼다.", "말아서 굽는다.",],
	}` + "\n```\n맛있게 드세요."

	details, err := ParseRecipeDetails(reply)
	require.NoError(t, err)
	assert.Equal(t, "간단한 계란말이", details.Description)
	assert.Equal(t, 15, details.CookingTime)
	assert.Equal(t, []string{"계란을 푼다.", "말아서 굽는다."}, details.Steps)
}

func TestParseRecipeDetailsGarbage(t *testing.T) {
	details, err := ParseRecipeDetails("완전히 망가진 응답 ###")
	assert.ErrorIs(t, err, ErrUnparseable)
	assert.Equal(t, FallbackRecipeDetails(), details)
}

func TestParseRecipeDetailsBackfillsMissingFields(t *testing.T) {
	details, err := ParseRecipeDetails(`{"description": "", "cooking_time": 0, "steps": ["", "  "], "tips": "불 조절\n간 맞추기"}`)
	require.NoError(t, err)

	fallback := FallbackRecipeDetails()
	assert.Equal(t, fallback.Description, details.Description)
	assert.Equal(t, fallback.CookingTime, details.CookingTime)
	assert.Equal(t, fallback.Difficulty, details.Difficulty)
	assert.Equal(t, fallback.Category, details.Category)
	assert.Equal(t, fallback.Steps, details.Steps)
	assert.Equal(t, fallback.RequiredEquipment, details.RequiredEquipment)
	assert.Equal(t, []string{"불 조절", "간 맞추기"}, details.Tips)
	assert.Equal(t, models.Nutrition{}, details.Nutrition)
	assert.Empty(t, details.HealthTags)
}

func TestParseRecipeDetailsIgnoresMistypedFields(t *testing.T) {
	details, err := ParseRecipeDetails(`{"description": "볶음밥", "alternative_ingredients": "없음", "nutrition": {"calories": "350kcal"}}`)
	require.NoError(t, err)
	assert.Equal(t, "볶음밥", details.Description)
	assert.Empty(t, details.AlternativeIngredients)
	assert.Equal(t, 350.0, details.Nutrition.Calories)
}

func TestFlexTypes(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		for input, want := range map[string]int{`20`: 20, `20.0`: 20, `"20"`: 20, `"약 25분"`: 25} {
			var v flexInt
			require.NoError(t, json.Unmarshal([]byte(input), &v))
			assert.True(t, v.set, input)
			assert.Equal(t, want, v.value, input)
		}
		var v flexInt
		require.NoError(t, json.Unmarshal([]byte(`"금방"`), &v))
		assert.False(t, v.set)
	})

	t.Run("bool", func(t *testing.T) {
		for input, want := range map[string]bool{`true`: true, `0`: false, `"예"`: true, `"아니오"`: false, `"yes"`: true} {
			var v flexBool
			require.NoError(t, json.Unmarshal([]byte(input), &v))
			assert.True(t, v.set, input)
			assert.Equal(t, want, v.value, input)
		}
		var v flexBool
		require.NoError(t, json.Unmarshal([]byte(`"글쎄요"`), &v))
		assert.False(t, v.set)
	})

	t.Run("strings", func(t *testing.T) {
		var v flexStrings
		require.NoError(t, json.Unmarshal([]byte(`["a", 2]`), &v))
		assert.Equal(t, flexStrings{"a", "2"}, v)
	})

	t.Run("ingredients", func(t *testing.T) {
		var v flexIngredients
		require.NoError(t, json.Unmarshal([]byte(`["돼지고기 100g", {"name": "양파", "amount": ""}, {"name": " "}, "소금"]`), &v))
		assert.Equal(t, []types.IngredientAmount{
			{Name: "돼지고기", Amount: "100g"},
			{Name: "양파", Amount: models.DefaultAmount},
			{Name: "소금", Amount: models.DefaultAmount},
		}, v.amounts())
	})
}

func TestParseSituationalRecipes(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		reply := "```json\n" + `[
			{"name": "토마토 계란볶음", "cooking_time": "10분", "ingredients": ["토마토 1개", "계란 2개"], "steps": ["1. 볶는다."], "health_tags": ["가벼운 식사"]},
			{"name": "", "description": "이름 없음"}
		]` + "\n```"

		recipes, err := ParseSituationalRecipes(reply)
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		r := recipes[0]
		assert.Equal(t, "토마토 계란볶음", r.Name)
		assert.Equal(t, 10, r.CookingTime)
		assert.Equal(t, models.DefaultDifficulty, r.Difficulty)
		assert.Equal(t, models.DefaultCategory, r.Category)
		assert.Equal(t, []types.IngredientAmount{{Name: "토마토", Amount: "1개"}, {Name: "계란", Amount: "2개"}}, r.Ingredients)
		assert.Equal(t, []string{"볶는다."}, r.Steps)
	})

	t.Run("wrapped", func(t *testing.T) {
		recipes, err := ParseSituationalRecipes(`결과: {"recipes": [{"name": "야식 라면"}, {"name": "주먹밥"}]}`)
		require.NoError(t, err)
		require.Len(t, recipes, 2)
		assert.Equal(t, "야식 라면", recipes[0].Name)
		assert.Equal(t, models.DefaultCookingTime, recipes[0].CookingTime)
	})

	t.Run("single object", func(t *testing.T) {
		recipes, err := ParseSituationalRecipes(`{"name": "샐러드"}`)
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, "샐러드", recipes[0].Name)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseSituationalRecipes("추천할 메뉴가 없습니다")
		assert.ErrorIs(t, err, ErrUnparseable)
	})
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, "plain", stripCodeFences("  plain \n"))
}
