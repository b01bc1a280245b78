package model

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SkuNumberLength is the size of the generated sku_number.
const SkuNumberLength = 10

type Sku struct {
	BaseModel
	Name        string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Slug        string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	Description *string `gorm:"type:text" json:"description"`
	SkuNumber   string  `gorm:"type:varchar(10);uniqueIndex;not null" json:"sku_number"`
	ProductID   uint    `gorm:"not null;index" json:"product_id"`

	Product         *Product            `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	PriceDetails    []PriceDetail       `gorm:"foreignKey:SkuID" json:"price_details"`
	AttributeValues []SkuAttributeValue `gorm:"foreignKey:SkuID" json:"attribute_values"`
}

func (Sku) TableName() string { return "skus" }

// NewSkuNumber returns the first ten hex digits of a random UUID, upper-cased.
func NewSkuNumber() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:SkuNumberLength]
}

func (s *Sku) BeforeSave(tx *gorm.DB) error {
	s.Slug = derive(tx, "Name", "Slug", s.Name, Slugify)
	return nil
}

// BeforeCreate assigns the sku number once; it is never regenerated.
func (s *Sku) BeforeCreate(tx *gorm.DB) error {
	if s.SkuNumber == "" {
		s.SkuNumber = NewSkuNumber()
	}
	return s.BaseModel.BeforeCreate(tx)
}
