package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// jsonDBDataType picks jsonb on postgres and plain text elsewhere.
func jsonDBDataType(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}

func scanJSON(value interface{}, dest interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported json column type %T", value)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// StringList is a list of strings stored as a JSON array.
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return jsonValue([]string(l))
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	*l = StringList{}
	return scanJSON(value, (*[]string)(l))
}

func (StringList) GormDataType() string { return "json" }

func (StringList) GormDBDataType(db *gorm.DB, _ *schema.Field) string { return jsonDBDataType(db) }

// Nutrition is the per-serving breakdown attached to a recipe.
type Nutrition struct {
	Calories     float64 `json:"calories"`
	Carbohydrate float64 `json:"carbohydrate"`
	Protein      float64 `json:"protein"`
	Fat          float64 `json:"fat"`
	Sodium       float64 `json:"sodium"`
}

func (n Nutrition) Value() (driver.Value, error) {
	return jsonValue(n)
}

func (n *Nutrition) Scan(value interface{}) error {
	*n = Nutrition{}
	return scanJSON(value, n)
}

func (Nutrition) GormDataType() string { return "json" }

func (Nutrition) GormDBDataType(db *gorm.DB, _ *schema.Field) string { return jsonDBDataType(db) }

// Substitutions maps an ingredient onto the ingredients that can replace it.
type Substitutions map[string][]string

func (s Substitutions) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	return jsonValue(map[string][]string(s))
}

func (s *Substitutions) Scan(value interface{}) error {
	*s = Substitutions{}
	return scanJSON(value, (*map[string][]string)(s))
}

func (Substitutions) GormDataType() string { return "json" }

func (Substitutions) GormDBDataType(db *gorm.DB, _ *schema.Field) string { return jsonDBDataType(db) }
