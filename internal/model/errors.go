package model

import "errors"

// Model-level rule violations, raised by hooks before anything reaches the database.
var (
	ErrTopLevelNeedsType = errors.New("Top-level categories must have a category_type_id")
	ErrChildHasType      = errors.New("Child categories must not have a category_type_id")
	ErrEmptyImageFile    = errors.New("Column file cannot be empty")
	ErrImageFileFormat   = errors.New("Column file must start with a letter")
	ErrEmptyValue        = errors.New("Column value cannot be empty")
)
