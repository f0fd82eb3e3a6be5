package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fridgechef/backend/internal/models"
	"github.com/fridgechef/backend/internal/recommend"
	"github.com/fridgechef/backend/internal/types"
	"github.com/kaptinlin/jsonrepair"
)

// ErrUnparseable is returned when no JSON value can be recovered from a reply.
var ErrUnparseable = errors.New("no JSON value in generator reply")

var (
	stepNumbering = regexp.MustCompile(`^\d+\.\s*`)
	firstNumber   = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// RecipeDetails is the enrichment payload of one recipe. Every field is set:
// values missing from the generator reply are taken from the fallback payload.
type RecipeDetails struct {
	Description            string
	CookingTime            int
	Difficulty             string
	Category               string
	Steps                  []string
	Tips                   []string
	Nutrition              models.Nutrition
	RequiredEquipment      []string
	AlternativeIngredients models.Substitutions
	LateNightSuitable      bool
	HealthTags             []string
	Ingredients            []types.IngredientAmount
}

// FallbackRecipeDetails is used whenever the text generator is unavailable or
// its reply cannot be recovered.
func FallbackRecipeDetails() RecipeDetails {
	return RecipeDetails{
		Description:            "맛있는 요리를 위한 레시피입니다.",
		CookingTime:            models.DefaultCookingTime,
		Difficulty:             models.DefaultDifficulty,
		Category:               models.DefaultCategory,
		Steps:                  []string{"재료를 손질합니다.", "맛있게 조리합니다.", "완성입니다."},
		Tips:                   []string{"신선한 재료를 사용하세요."},
		Nutrition:              models.Nutrition{},
		RequiredEquipment:      []string{"프라이팬", "냄비"},
		AlternativeIngredients: models.Substitutions{},
		LateNightSuitable:      false,
		HealthTags:             []string{},
		Ingredients:            []types.IngredientAmount{},
	}
}

// ParseRecipeDetails recovers the enrichment payload from a generator reply.
// On failure it returns the fallback payload together with the error.
func ParseRecipeDetails(text string) (RecipeDetails, error) {
	raw, err := decodeObject(text)
	if err != nil {
		return FallbackRecipeDetails(), err
	}
	var wire wireDetails
	if err := unmarshalLenient(raw, &wire); err != nil {
		return FallbackRecipeDetails(), fmt.Errorf("failed to decode recipe details: %w", err)
	}
	return wire.details(), nil
}

// unmarshalLenient ignores fields whose JSON type does not fit; the decoder
// still fills every other field in that case.
func unmarshalLenient(data []byte, v interface{}) error {
	err := json.Unmarshal(data, v)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return nil
	}
	return err
}

type wireNutrition struct {
	Calories     flexFloat `json:"calories"`
	Carbohydrate flexFloat `json:"carbohydrate"`
	Protein      flexFloat `json:"protein"`
	Fat          flexFloat `json:"fat"`
	Sodium       flexFloat `json:"sodium"`
}

type wireDetails struct {
	Description            flexString             `json:"description"`
	CookingTime            flexInt                `json:"cooking_time"`
	Difficulty             flexString             `json:"difficulty"`
	Category               flexString             `json:"category"`
	Steps                  flexStrings            `json:"steps"`
	Tips                   flexStrings            `json:"tips"`
	Nutrition              *wireNutrition         `json:"nutrition"`
	RequiredEquipment      flexStrings            `json:"required_equipment"`
	AlternativeIngredients map[string]flexStrings `json:"alternative_ingredients"`
	LateNightSuitable      flexBool               `json:"late_night_suitable"`
	HealthTags             flexStrings            `json:"health_tags"`
	Ingredients            flexIngredients        `json:"ingredients"`
}

func (w wireDetails) details() RecipeDetails {
	d := FallbackRecipeDetails()
	if v := strings.TrimSpace(w.Description.value); v != "" {
		d.Description = v
	}
	if w.CookingTime.set && w.CookingTime.value > 0 {
		d.CookingTime = w.CookingTime.value
	}
	if v := strings.TrimSpace(w.Difficulty.value); v != "" {
		d.Difficulty = v
	}
	if v := strings.TrimSpace(w.Category.value); v != "" {
		d.Category = v
	}
	if steps := cleanSteps(w.Steps); len(steps) > 0 {
		d.Steps = steps
	}
	if tips := cleanList(w.Tips); len(tips) > 0 {
		d.Tips = tips
	}
	if w.Nutrition != nil {
		d.Nutrition = models.Nutrition{
			Calories:     w.Nutrition.Calories.value,
			Carbohydrate: w.Nutrition.Carbohydrate.value,
			Protein:      w.Nutrition.Protein.value,
			Fat:          w.Nutrition.Fat.value,
			Sodium:       w.Nutrition.Sodium.value,
		}
	}
	if equipment := cleanList(w.RequiredEquipment); len(equipment) > 0 {
		d.RequiredEquipment = equipment
	}
	for name, subs := range w.AlternativeIngredients {
		name = strings.TrimSpace(name)
		if list := cleanList(subs); name != "" && len(list) > 0 {
			d.AlternativeIngredients[name] = list
		}
	}
	if w.LateNightSuitable.set {
		d.LateNightSuitable = w.LateNightSuitable.value
	}
	d.HealthTags = cleanList(w.HealthTags)
	d.Ingredients = w.Ingredients.amounts()
	return d
}

// cleanSteps strips leading "N. " numbering and drops blank steps.
func cleanSteps(steps []string) []string {
	out := make([]string, 0, len(steps))
	for _, step := range steps {
		step = strings.TrimSpace(stepNumbering.ReplaceAllString(strings.TrimSpace(step), ""))
		if step != "" {
			out = append(out, step)
		}
	}
	return out
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// SituationalRecipe is one ad-hoc recipe suggested for a time of day and a
// preference. It is never persisted.
type SituationalRecipe struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	CookingTime int                      `json:"cooking_time"`
	Difficulty  string                   `json:"difficulty"`
	Category    string                   `json:"category"`
	Ingredients []types.IngredientAmount `json:"ingredients"`
	Steps       []string                 `json:"steps"`
	HealthTags  []string                 `json:"health_tags"`
}

type wireSituational struct {
	Name        flexString      `json:"name"`
	Description flexString      `json:"description"`
	CookingTime flexInt         `json:"cooking_time"`
	Difficulty  flexString      `json:"difficulty"`
	Category    flexString      `json:"category"`
	Ingredients flexIngredients `json:"ingredients"`
	Steps       flexStrings     `json:"steps"`
	HealthTags  flexStrings     `json:"health_tags"`
}

// ParseSituationalRecipes recovers the suggestion list from a generator
// reply. Entries without a name are dropped.
func ParseSituationalRecipes(text string) ([]SituationalRecipe, error) {
	items, err := decodeList(text)
	if err != nil {
		return nil, err
	}

	out := make([]SituationalRecipe, 0, len(items))
	for _, item := range items {
		var wire wireSituational
		if err := unmarshalLenient(item, &wire); err != nil {
			continue
		}
		name := strings.TrimSpace(wire.Name.value)
		if name == "" {
			continue
		}
		minutes := models.DefaultCookingTime
		if wire.CookingTime.set && wire.CookingTime.value > 0 {
			minutes = wire.CookingTime.value
		}
		out = append(out, SituationalRecipe{
			Name:        name,
			Description: strings.TrimSpace(wire.Description.value),
			CookingTime: minutes,
			Difficulty:  orDefault(wire.Difficulty.value, models.DefaultDifficulty),
			Category:    orDefault(wire.Category.value, models.DefaultCategory),
			Ingredients: wire.Ingredients.amounts(),
			Steps:       cleanSteps(wire.Steps),
			HealthTags:  cleanList(wire.HealthTags),
		})
	}
	if len(out) == 0 {
		return nil, ErrUnparseable
	}
	return out, nil
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

// decodeObject returns the first JSON object found in text.
func decodeObject(text string) (json.RawMessage, error) {
	raw, err := recoverJSON(text, '{')
	if err != nil {
		return nil, err
	}
	switch raw[0] {
	case '{':
		return raw, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		for _, item := range items {
			if item = bytes.TrimSpace(item); len(item) > 0 && item[0] == '{' {
				return item, nil
			}
		}
	}
	return nil, ErrUnparseable
}

// decodeList returns the elements of the JSON list found in text. A bare
// object counts as a list of one, and an object wrapping a "recipes" list is
// unwrapped.
func decodeList(text string) ([]json.RawMessage, error) {
	raw, err := recoverJSON(text, '[')
	if err != nil {
		return nil, err
	}
	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		var wrapper struct {
			Recipes []json.RawMessage `json:"recipes"`
		}
		if err := json.Unmarshal(raw, &wrapper); err == nil && len(wrapper.Recipes) > 0 {
			return wrapper.Recipes, nil
		}
		return []json.RawMessage{raw}, nil
	}
	return nil, ErrUnparseable
}

// recoverJSON finds a JSON object or list in free-form text. It tries the
// text as is, then the span between the outermost brackets, preferring the
// open kind, and finally the repaired form of each candidate.
func recoverJSON(text string, open byte) (json.RawMessage, error) {
	cleaned := stripCodeFences(text)

	candidates := []string{cleaned}
	spans := []string{span(cleaned, '{', '}'), span(cleaned, '[', ']')}
	if open == '[' {
		spans[0], spans[1] = spans[1], spans[0]
	}
	for _, s := range spans {
		if s != "" {
			candidates = append(candidates, s)
		}
	}

	for _, c := range candidates {
		if raw, ok := container(c); ok {
			return raw, nil
		}
	}
	for _, c := range candidates[1:] {
		repaired, err := jsonrepair.JSONRepair(c)
		if err != nil {
			continue
		}
		if raw, ok := container(repaired); ok {
			return raw, nil
		}
	}
	return nil, ErrUnparseable
}

// container reports whether s is valid JSON whose top level is an object or a list.
func container(s string) (json.RawMessage, bool) {
	b := bytes.TrimSpace([]byte(s))
	if len(b) == 0 || (b[0] != '{' && b[0] != '[') || !json.Valid(b) {
		return nil, false
	}
	return json.RawMessage(b), true
}

// span returns text from the first open to the last close bracket. A missing
// close bracket keeps the tail so repair can complete it.
func span(text string, open, close byte) string {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return ""
	}
	end := strings.LastIndexByte(text, close)
	if end < start {
		return text[start:]
	}
	return text[start : end+1]
}

func stripCodeFences(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// flexString accepts a string or a number.
type flexString struct {
	value string
}

func (f *flexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		f.value = str
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		f.value = num.String()
	}
	return nil
}

// flexInt accepts 20, 20.0, "20" and "20분".
type flexInt struct {
	value int
	set   bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		f.value, f.set = int(num), true
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if n, ok := leadingNumber(str); ok {
			f.value, f.set = int(n), true
		}
	}
	return nil
}

// flexFloat accepts numbers and strings such as "350kcal".
type flexFloat struct {
	value float64
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		f.value = num
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if n, ok := leadingNumber(str); ok {
			f.value = n
		}
	}
	return nil
}

func leadingNumber(s string) (float64, bool) {
	m := firstNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(m, 64)
	return n, err == nil
}

// flexBool accepts booleans, numbers and common yes/no strings.
type flexBool struct {
	value bool
	set   bool
}

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		f.value, f.set = b, true
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		f.value, f.set = num != 0, true
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		switch strings.ToLower(strings.TrimSpace(str)) {
		case "true", "yes", "y", "1", "예", "네", "가능":
			f.value, f.set = true, true
		case "false", "no", "n", "0", "아니오", "아니요", "불가능":
			f.value, f.set = false, true
		}
	}
	return nil
}

// flexStrings accepts a list of strings or numbers, or a single string with
// one entry per line.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err == nil {
		out := make([]string, 0, len(items))
		for _, item := range items {
			var s flexString
			_ = s.UnmarshalJSON(item)
			out = append(out, s.value)
		}
		*f = out
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*f = strings.Split(str, "\n")
	}
	return nil
}

// flexIngredients accepts objects with name and amount, or "name amount" strings.
type flexIngredients []types.IngredientAmount

func (f *flexIngredients) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	out := make([]types.IngredientAmount, 0, len(items))
	for _, item := range items {
		var str string
		if err := json.Unmarshal(item, &str); err == nil {
			name, amount := recommend.SplitSegment(str)
			out = append(out, types.IngredientAmount{Name: name, Amount: amount})
			continue
		}
		var obj struct {
			Name   flexString `json:"name"`
			Amount flexString `json:"amount"`
		}
		if err := json.Unmarshal(item, &obj); err == nil {
			out = append(out, types.IngredientAmount{Name: obj.Name.value, Amount: obj.Amount.value})
		}
	}
	*f = out
	return nil
}

func (f flexIngredients) amounts() []types.IngredientAmount {
	out := make([]types.IngredientAmount, 0, len(f))
	for _, item := range f {
		name := recommend.Canonical(item.Name)
		if name == "" {
			continue
		}
		amount := strings.TrimSpace(item.Amount)
		if amount == "" {
			amount = models.DefaultAmount
		}
		out = append(out, types.IngredientAmount{Name: name, Amount: amount})
	}
	return out
}
