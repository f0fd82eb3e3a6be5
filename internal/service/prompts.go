package service

import (
	"fmt"
	"strings"
)

const recipeSystemPrompt = "당신은 미슐랭 3스타 셰프이자 식품 영양학 전문가입니다. JSON 형식으로 응답하세요."

const recipeDetailsTemplate = `요리명: %s
가용 재료: %s

다음 정보를 포함하여 완벽한 JSON 데이터를 만드세요.

[헬스 태그(health_tags) 선정 기준]
1. 뷰티 핏: 다이어트 식단 (저칼로리, 저탄수화물, 체중 감량용)
2. 프로틴 업: 고단백 식단 (닭가슴살, 계란, 콩 등 단백질 함량이 높음)
3. 배지라이프: 비건 식단 (고기, 해산물, 유제품 등 동물성 재료 없음)
4. 저속노화 식단: 자극적이지 않고 건강한 식단 (저당, 저염, 가공식품 최소화, 통곡물/채소 위주)
(위 기준에 부합하는 경우에만 해당 태그를 리스트에 담아주세요. 없으면 빈 배열)

[필수 JSON 포맷]
{
    "description": "요리 설명 (한글, 50자 내외)",
    "cooking_time": 숫자(분),
    "difficulty": "초급/중급/고급",
    "category": "한식/양식/중식/일식/디저트/기타 중 택1",
    "late_night_suitable": true 또는 false,
    "health_tags": ["뷰티 핏", "프로틴 업" 등 해당되는 것],
    "ingredients": [{"name": "이름", "amount": "양"}],
    "required_equipment": ["필요한 도구 리스트"],
    "alternative_ingredients": { "원래재료": ["대체재료1", "대체재료2"] },
    "steps": ["조리과정1", "조리과정2"],
    "tips": ["팁1", "팁2"],
    "nutrition": {"calories": 0, "carbohydrate": 0, "protein": 0, "fat": 0, "sodium": 0}
}

[주의사항]
1. steps 문장 앞에 번호를 붙이지 마세요.
2. 오직 순수한 JSON만 응답하세요.`

const situationalTemplate = `나는 지금 냉장고에 %s을(를) 가지고 있어.
지금 시간은 '%s'이고, 나의 취향은 '%s'야.

이 상황에 가장 잘 어울리는 창의적인 레시피 3가지를 추천해줘.

[조건]
1. '%s' 시간대에 먹기 부담스럽지 않거나 어울리는 메뉴여야 해.
2. 내가 가진 재료를 최대한 활용해야 해.
3. 응답은 반드시 아래 JSON 리스트 형식으로만 줘. (설명 금지)

[
    {
        "name": "요리 이름",
        "description": "왜 이 시간/취향에 맞는지 한 줄 설명",
        "cooking_time": 20,
        "difficulty": "쉬움",
        "category": "한식",
        "ingredients": [{"name": "재료1", "amount": "1개"}],
        "steps": ["단계1", "단계2"],
        "health_tags": ["다이어트", "저염"]
    }
]`

const imagePromptTemplate = "High-quality professional food photography of %s, delicious, cinematic lighting, 4k"

// DefaultTimeSlot is used when the situational request names no time of day.
const DefaultTimeSlot = "점심"

func recipeDetailsPrompt(name, rawIngredients string) string {
	return fmt.Sprintf(recipeDetailsTemplate, name, rawIngredients)
}

func situationalPrompt(ingredients []string, timeSlot, preferences string) string {
	return fmt.Sprintf(situationalTemplate, strings.Join(ingredients, ", "), timeSlot, preferences, timeSlot)
}

func imagePrompt(name string) string {
	return fmt.Sprintf(imagePromptTemplate, name)
}
