package model

import "gorm.io/gorm"

// CategoryType is the top-level classification a root category belongs to
type CategoryType struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Slug string `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
}

func (CategoryType) TableName() string { return "category_types" }

func (ct *CategoryType) BeforeSave(tx *gorm.DB) error {
	ct.Slug = derive(tx, "Name", "Slug", ct.Name, Slugify)
	return nil
}

// Category is a node of the category tree. Root nodes carry a category type,
// descendants carry a parent and no type.
type Category struct {
	BaseModel
	Name           string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Slug           string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	Description    *string `gorm:"type:text" json:"description"`
	CategoryTypeID *uint   `gorm:"index;check:chk_category_hierarchy_rule,(parent_id IS NULL AND category_type_id IS NOT NULL) OR (parent_id IS NOT NULL AND category_type_id IS NULL)" json:"category_type_id"`
	ParentID       *uint   `gorm:"index" json:"parent_id"`

	CategoryType  *CategoryType  `gorm:"foreignKey:CategoryTypeID" json:"category_type,omitempty"`
	Children      []Category     `gorm:"foreignKey:ParentID" json:"children"`
	AttributeSets []AttributeSet `gorm:"many2many:category_attribute_set;" json:"-"`
}

func (Category) TableName() string { return "categories" }

// CheckHierarchy enforces the parent/type exclusivity rule.
func (c *Category) CheckHierarchy() error {
	switch {
	case c.ParentID == nil && c.CategoryTypeID == nil:
		return ErrTopLevelNeedsType
	case c.ParentID != nil && c.CategoryTypeID != nil:
		return ErrChildHasType
	}
	return nil
}

func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.Slug = derive(tx, "Name", "Slug", c.Name, Slugify)
	return c.CheckHierarchy()
}
