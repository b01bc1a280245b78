package model

import (
	"reflect"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// Slugify folds s to ASCII and joins its alphanumeric runs with dashes:
// "Café Latte's Mugs" -> "cafe-lattes-mugs".
func Slugify(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r == '\'' || r == '’':
			// apostrophes are dropped, not turned into separators
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	return b.String()
}

// Codify derives an upper-case code from a name: "Retail Price" -> "RETAIL-PRICE".
func Codify(s string) string {
	return strings.ToUpper(Slugify(s))
}

// derive returns fn(name) for the row being saved and keeps the target
// column in step with the source column on column and map updates. A value
// supplied for the target column directly is discarded.
func derive(tx *gorm.DB, source, target, current string, fn func(string) string) string {
	stmt := tx.Statement
	if stmt.Schema == nil {
		return fn(current)
	}
	src, dst := stmt.Schema.LookUpField(source), stmt.Schema.LookUpField(target)
	if src == nil || dst == nil {
		return fn(current)
	}

	if values, ok := stmt.Dest.(map[string]interface{}); ok {
		name, named := current, false
		for key, v := range values {
			switch stmt.Schema.LookUpField(key) {
			case dst:
				delete(values, key)
			case src:
				if s, ok := v.(string); ok {
					name, named = s, true
				}
			}
		}
		value := fn(name)
		if named {
			values[dst.DBName] = value
		}
		return value
	}

	// Updates(struct) on a loaded model: the new name lives in Dest
	if stmt.Model != nil && stmt.Dest != stmt.Model {
		dv := reflect.Indirect(reflect.ValueOf(stmt.Dest))
		if dv.Kind() == reflect.Struct && dv.Type() == stmt.Schema.ModelType {
			if v, zero := src.ValueOf(stmt.Context, dv); !zero {
				if s, ok := v.(string); ok {
					value := fn(s)
					stmt.SetColumn(dst.Name, value)
					return value
				}
			}
		}
	}
	return fn(current)
}
