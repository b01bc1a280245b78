package constraint

import (
	"reflect"

	"gorm.io/gorm"
)

// Plugin validates and normalizes column values on every create and update.
// Callbacks run after the model hooks so derived values are checked too.
type Plugin struct{}

func (Plugin) Name() string {
	return "constraint:validate"
}

func (p Plugin) Initialize(db *gorm.DB) error {
	if err := db.Callback().Create().Before("gorm:create").After("gorm:before_create").
		Register("constraint:validate_create", validateCreate); err != nil {
		return err
	}
	return db.Callback().Update().Before("gorm:update").After("gorm:before_update").
		Register("constraint:validate_update", validateUpdate)
}

func validateCreate(db *gorm.DB) { validate(db, true) }

func validateUpdate(db *gorm.DB) { validate(db, false) }

func validate(db *gorm.DB, creating bool) {
	stmt := db.Statement
	if db.Error != nil || stmt.Schema == nil {
		return
	}

	if m, ok := stmt.Dest.(map[string]interface{}); ok {
		if err := validateMap(stmt, m); err != nil {
			db.AddError(err)
		}
		return
	}

	rv := target(stmt)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := validateStruct(stmt, reflect.Indirect(rv.Index(i)), creating); err != nil {
				db.AddError(err)
				return
			}
		}
	case reflect.Struct:
		if err := validateStruct(stmt, rv, creating); err != nil {
			db.AddError(err)
		}
	}
}

// target returns the value being written. Updates with a separate struct
// destination write from that struct, not from the model.
func target(stmt *gorm.Statement) reflect.Value {
	dv := reflect.ValueOf(stmt.Dest)
	if dv.Kind() == reflect.Ptr {
		if mv := reflect.ValueOf(stmt.Model); mv.Kind() == reflect.Ptr && mv.Pointer() == dv.Pointer() {
			return stmt.ReflectValue
		}
	}
	if dv = reflect.Indirect(dv); dv.Kind() == reflect.Struct && dv.Type() == stmt.Schema.ModelType {
		return dv
	}
	return stmt.ReflectValue
}

func validateStruct(stmt *gorm.Statement, rv reflect.Value, creating bool) error {
	if rv.Kind() != reflect.Struct || rv.Type() != stmt.Schema.ModelType {
		return nil
	}
	selected, restricted := stmt.SelectAndOmitColumns(creating, !creating)

	for _, col := range Columns(stmt.Schema) {
		field := col.Field
		value, isZero := field.ValueOf(stmt.Context, rv)

		v, ok := selected[field.DBName]
		switch {
		case ok && !v:
			continue
		case !ok && restricted:
			continue
		}
		if isZero {
			// zero values fall back to column defaults on insert and are
			// left untouched by struct updates
			if creating && field.HasDefaultValue {
				continue
			}
			if !creating && !ok {
				continue
			}
		}

		newValue, changed, err := checkValue(col, value)
		if err != nil {
			return err
		}
		if changed && rv.CanAddr() {
			if err := field.Set(stmt.Context, rv, newValue); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateMap(stmt *gorm.Statement, m map[string]interface{}) error {
	for key, value := range m {
		field := stmt.Schema.LookUpField(key)
		if field == nil {
			continue
		}
		col := Classify(field)
		if col.Kind == KindSkip {
			continue
		}
		newValue, changed, err := checkValue(col, value)
		if err != nil {
			return err
		}
		if changed {
			m[key] = newValue
		}
	}
	return nil
}

// checkValue validates one value and reports a normalized replacement.
func checkValue(col Column, value interface{}) (interface{}, bool, error) {
	switch col.Kind {
	case KindPositive, KindNonNegative:
		return nil, false, CheckNumber(col, value)
	}

	rv := reflect.ValueOf(value)
	for rv.IsValid() && rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false, nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Kind() != reflect.String {
		return nil, false, nil
	}

	s := rv.String()
	normalized, err := CheckString(col, s)
	if err != nil || normalized == s {
		return nil, false, err
	}

	// keep the field's own type (e.g. model.Role or *string)
	out := reflect.New(rv.Type()).Elem()
	out.SetString(normalized)
	if reflect.ValueOf(value).Kind() == reflect.Ptr {
		return out.Addr().Interface(), true, nil
	}
	return out.Interface(), true, nil
}

var _ gorm.Plugin = Plugin{}
