// Package constraint validates column values before they are written and
// derives matching CHECK constraints from the same column classification.
package constraint

import (
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/schema"
)

// Kind is the validation class of a column, derived from its name and type.
type Kind int

const (
	KindSkip Kind = iota
	KindEnum
	KindText
	KindEmail
	KindPhone
	KindSlug
	KindCode
	KindSkuNumber
	KindGeneral
	KindPositive
	KindNonNegative
)

func (k Kind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindText:
		return "text"
	case KindEmail:
		return "email"
	case KindPhone:
		return "phone"
	case KindSlug:
		return "slug"
	case KindCode:
		return "code"
	case KindSkuNumber:
		return "sku_number"
	case KindGeneral:
		return "general"
	case KindPositive:
		return "positive"
	case KindNonNegative:
		return "non_negative"
	}
	return "skip"
}

// TagName is the struct tag that overrides classification:
// `fieldcheck:"-"` skips a column, `fieldcheck:"enum"` marks an enum.
const TagName = "fieldcheck"

var systemColumns = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"created_by": true,
	"updated_by": true,
	"is_active":  true,
	"password":   true,
}

var (
	phonePatterns       = []string{"contact", "phone", "mobile", "telp"}
	positivePatterns    = []string{"quantity", "minimum_", "price"}
	nonNegativePatterns = []string{"sequence"}
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

// Column is a classified schema field.
type Column struct {
	Name     string
	Kind     Kind
	Nullable bool
	Field    *schema.Field
}

// Classify returns the validation class of field.
func Classify(field *schema.Field) Column {
	col := Column{
		Name:     field.DBName,
		Nullable: !field.NotNull && !field.PrimaryKey,
		Field:    field,
	}
	if field.DBName == "" || systemColumns[field.DBName] {
		return col
	}

	switch field.Tag.Get(TagName) {
	case "-":
		return col
	case "enum":
		col.Kind = KindEnum
		return col
	}

	name := strings.ToLower(field.DBName)
	t := field.FieldType
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch {
	case t.Kind() == reflect.String:
		col.Kind = classifyString(name, field)
	case t == decimalType || isNumber(t.Kind()):
		col.Kind = classifyNumber(name)
	}
	return col
}

func classifyString(name string, field *schema.Field) Kind {
	switch {
	case strings.EqualFold(field.TagSettings["TYPE"], "text"):
		return KindText
	case strings.Contains(name, "email"):
		return KindEmail
	case containsAny(name, phonePatterns):
		return KindPhone
	case name == "slug":
		return KindSlug
	case name == "code":
		return KindCode
	case strings.Contains(name, "sku") && strings.Contains(name, "number"):
		return KindSkuNumber
	}
	return KindGeneral
}

func classifyNumber(name string) Kind {
	switch {
	case containsAny(name, positivePatterns):
		return KindPositive
	case containsAny(name, nonNegativePatterns):
		return KindNonNegative
	}
	return KindSkip
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// Columns classifies every field of s, dropping skipped ones.
func Columns(s *schema.Schema) []Column {
	var cols []Column
	for _, field := range s.Fields {
		if col := Classify(field); col.Kind != KindSkip {
			cols = append(cols, col)
		}
	}
	return cols
}
