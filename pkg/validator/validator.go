package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	FailedField string // json name of the field, dotted for nested structs
	Tag         string
	Value       string // tag parameter
}

var validate = validator.New()

func init() {
	// Report json names so errors match the request body
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if fld.Anonymous {
			return embeddedName
		}
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// Rejects strings that are empty after trimming
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	// Accepts only ASCII digits
	validate.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return false
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})

	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	// Positive decimal amount; works on decimal.Decimal through the custom type func above
	validate.RegisterValidation("positive_decimal", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return d.IsPositive()
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "body", Tag: "invalid", Value: err.Error()}}
		}
		for _, err := range validationErrors {
			var element ErrorResponse
			element.FailedField = fieldPath(err.Namespace())
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// embeddedName marks embedded structs, whose fields are reported flat.
const embeddedName = "~"

// fieldPath drops the root struct name and embedded structs from a validator namespace.
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	kept := parts[:0]
	for _, p := range parts {
		if p != embeddedName {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ".")
}

// Message renders the error the way it is reported to API clients.
func (e *ErrorResponse) Message() string {
	switch e.Tag {
	case "required", "notblank":
		return "Field required"
	case "min":
		return fmt.Sprintf("Value should have at least %s items or characters", e.Value)
	case "max":
		return fmt.Sprintf("Value should have at most %s items or characters", e.Value)
	case "len":
		return fmt.Sprintf("Value should have exactly %s characters", e.Value)
	case "gt":
		return fmt.Sprintf("Input should be greater than %s", e.Value)
	case "gte":
		return fmt.Sprintf("Input should be greater than or equal to %s", e.Value)
	case "lte":
		return fmt.Sprintf("Input should be less than or equal to %s", e.Value)
	case "oneof":
		return fmt.Sprintf("Input should be one of: %s", strings.ReplaceAll(e.Value, " ", ", "))
	case "email":
		return "Value is not a valid email address"
	case "digits":
		return "Value should contain only digits"
	case "positive_decimal":
		return "Input should be greater than 0"
	case "invalid":
		return e.Value
	default:
		return fmt.Sprintf("Failed on the '%s' rule", e.Tag)
	}
}

// Type is a short machine-readable error kind.
func (e *ErrorResponse) Type() string {
	switch e.Tag {
	case "required", "notblank":
		return "missing"
	case "min", "max", "len":
		return "string_length"
	case "gt", "gte", "lte", "positive_decimal":
		return "number_range"
	case "oneof":
		return "enum"
	default:
		return "value_error"
	}
}
