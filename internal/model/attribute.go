package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	DataTypeText    = "TEXT"
	DataTypeNumber  = "NUMBER"
	DataTypeBoolean = "BOOLEAN"
	DataTypeDate    = "DATE"
)

var DataTypes = []string{DataTypeText, DataTypeNumber, DataTypeBoolean, DataTypeDate}

type Attribute struct {
	BaseModel
	Name     string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Code     string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	DataType string  `gorm:"type:varchar(10);not null;default:'TEXT'" json:"data_type" fieldcheck:"enum"`
	Uom      *string `gorm:"type:varchar(15)" json:"uom"`
}

func (Attribute) TableName() string { return "attributes" }

func (a *Attribute) BeforeSave(tx *gorm.DB) error {
	a.Code = derive(tx, "Name", "Code", a.Name, Codify)
	if a.DataType == "" {
		a.DataType = DataTypeText
	}
	return nil
}

// AcceptsValue reports whether value parses as the attribute's data type.
// An empty value is always accepted.
func (a *Attribute) AcceptsValue(value string) bool {
	return ValidValue(a.DataType, value)
}

func ValidValue(dataType, value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return true
	}
	switch strings.ToUpper(dataType) {
	case DataTypeNumber:
		_, err := strconv.ParseFloat(v, 64)
		return err == nil
	case DataTypeBoolean:
		l := strings.ToLower(v)
		return l == "true" || l == "false"
	case DataTypeDate:
		return parseISODate(v)
	}
	return true
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseISODate(v string) bool {
	for _, layout := range isoLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

// InvalidValueMessage is the error text for a value rejected by AcceptsValue.
func (a *Attribute) InvalidValueMessage(value string) string {
	return fmt.Sprintf("Invalid value '%s' for attribute '%s' (expected %s)", value, a.Name, a.DataType)
}

// AttributeSet groups attributes and links them to categories.
type AttributeSet struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Slug string `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`

	Attributes []Attribute `gorm:"many2many:attribute_set_attribute;" json:"attributes"`
	Categories []Category  `gorm:"many2many:category_attribute_set;" json:"categories"`
}

func (AttributeSet) TableName() string { return "attribute_sets" }

func (as *AttributeSet) BeforeSave(tx *gorm.DB) error {
	as.Slug = derive(tx, "Name", "Slug", as.Name, Slugify)
	return nil
}

// SkuAttributeValue stores the value of one attribute for one SKU.
type SkuAttributeValue struct {
	BaseModel
	SkuID       uint   `gorm:"not null;uniqueIndex:uq_sku_attribute,priority:1" json:"sku_id"`
	AttributeID uint   `gorm:"not null;index;uniqueIndex:uq_sku_attribute,priority:2" json:"attribute_id"`
	Value       string `gorm:"type:varchar(50);not null" json:"value" fieldcheck:"-"`

	Attribute *Attribute `gorm:"foreignKey:AttributeID" json:"attribute,omitempty"`
}

func (SkuAttributeValue) TableName() string { return "sku_attribute_values" }

func (v *SkuAttributeValue) BeforeSave(tx *gorm.DB) error {
	v.Value = strings.TrimSpace(v.Value)
	if v.Value == "" {
		return ErrEmptyValue
	}
	return nil
}
