package constraint

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldError reports a column value rejected before it reached the database.
type FieldError struct {
	Column  string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

func fieldErr(column, format string) *FieldError {
	return &FieldError{Column: column, Message: fmt.Sprintf(format, column)}
}

var (
	generalChars = regexp.MustCompile(`^[A-Za-z0-9\s_-]+$`)
	slugFormat   = regexp.MustCompile(`^[a-z0-9-]+$`)
	codeFormat   = regexp.MustCompile(`^[A-Z0-9_-]+$`)
	skuFormat    = regexp.MustCompile(`^[0-9A-F]{10}$`)
)

// CheckString normalizes v for col and validates it, returning the value to store.
func CheckString(col Column, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		if col.Nullable {
			return v, nil
		}
		return v, fieldErr(col.Name, "Column '%s' cannot be empty.")
	}

	switch col.Kind {
	case KindEnum:
		return strings.ToUpper(v), nil
	case KindText:
		return v, nil
	case KindEmail:
		if !strings.Contains(v, "@") {
			return v, fieldErr(col.Name, "Column '%s' must contain '@'.")
		}
		if v[0] == '@' || v[len(v)-1] == '@' {
			return v, fieldErr(col.Name, "Column '%s' must not start or end with '@'")
		}
		return strings.ToLower(v), nil
	case KindPhone:
		for _, r := range v {
			if r < '0' || r > '9' {
				return v, fieldErr(col.Name, "Column '%s' must contain only digits.")
			}
		}
	case KindSlug:
		if !slugFormat.MatchString(v) {
			return v, fieldErr(col.Name, "Column '%s' can only contain lowercase letters, numbers and dashes.")
		}
	case KindCode:
		if !codeFormat.MatchString(v) {
			return v, fieldErr(col.Name, "Column '%s' can only contain uppercase letters, numbers, underscores and dashes.")
		}
	case KindSkuNumber:
		if !skuFormat.MatchString(v) {
			return v, fieldErr(col.Name, "Column '%s' must be 10 uppercase hexadecimal characters.")
		}
	case KindGeneral:
		c := v[0]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return v, fieldErr(col.Name, "Column '%s' must start with a letter.")
		}
		if !generalChars.MatchString(v) {
			return v, fieldErr(col.Name, "Column '%s' can only contain alphabet letters, numbers, underscores, and spaces.")
		}
	}
	return v, nil
}

// CheckNumber validates a numeric value for a positive or non-negative column.
func CheckNumber(col Column, v interface{}) error {
	sign, ok := signOf(v)
	if !ok {
		return nil
	}
	switch col.Kind {
	case KindPositive:
		if sign <= 0 {
			return fieldErr(col.Name, "Column '%s' must be a positive number (greater than 0).")
		}
	case KindNonNegative:
		if sign < 0 {
			return fieldErr(col.Name, "Column '%s' must be a non-negative number (greater than or equal to 0).")
		}
	}
	return nil
}

func signOf(v interface{}) (int, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n.Sign(), true
	case *decimal.Decimal:
		if n == nil {
			return 0, false
		}
		return n.Sign(), true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return 0, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return sign(float64(rv.Int())), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return sign(float64(rv.Uint())), true
	case reflect.Float32, reflect.Float64:
		return sign(rv.Float()), true
	case reflect.String:
		d, err := decimal.NewFromString(rv.String())
		if err != nil {
			return 0, false
		}
		return d.Sign(), true
	}
	return 0, false
}

func sign(f float64) int {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	}
	return 0
}
