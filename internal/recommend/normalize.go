package recommend

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SegmentSeparator joins the "name amount" segments of a raw ingredient list.
const SegmentSeparator = "|"

// Ingredient is one parsed segment of a raw ingredient list.
type Ingredient struct {
	Name   string
	Amount string
}

// Canonical returns s trimmed and in Unicode NFC form, so precomposed and
// decomposed Hangul compare equal.
func Canonical(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// SplitSegment splits one trimmed segment on its last whitespace. The left
// part is the ingredient name; the right part, if any, is the amount.
// "양파 1/2개" yields ("양파", "1/2개") and "소금" yields ("소금", "").
func SplitSegment(segment string) (name, amount string) {
	segment = Canonical(segment)
	idx := strings.LastIndexFunc(segment, unicode.IsSpace)
	if idx < 0 {
		return segment, ""
	}
	name = strings.TrimSpace(segment[:idx])
	amount = strings.TrimSpace(segment[idx:])
	return name, amount
}

// Segments splits a raw pipe-delimited list into trimmed, non-empty segments.
func Segments(raw string) []string {
	parts := strings.Split(raw, SegmentSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = Canonical(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseIngredients parses every segment of a raw list. Segments whose name
// is empty are dropped.
func ParseIngredients(raw string) []Ingredient {
	segments := Segments(raw)
	out := make([]Ingredient, 0, len(segments))
	for _, seg := range segments {
		name, amount := SplitSegment(seg)
		if name == "" {
			continue
		}
		out = append(out, Ingredient{Name: name, Amount: amount})
	}
	return out
}

// IngredientNames returns just the canonical names of a raw list.
func IngredientNames(raw string) []string {
	parsed := ParseIngredients(raw)
	names := make([]string, len(parsed))
	for i, ing := range parsed {
		names[i] = ing.Name
	}
	return names
}

// CleanUserIngredients canonicalizes user input, dropping blanks and
// duplicates while keeping the first occurrence order.
func CleanUserIngredients(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = Canonical(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
