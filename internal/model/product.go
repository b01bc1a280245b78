package model

import "gorm.io/gorm"

type Product struct {
	BaseModel
	Name        string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Slug        string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	Description *string `gorm:"type:text" json:"description"`
	CategoryID  uint    `gorm:"not null;index" json:"category_id"`
	SupplierID  uint    `gorm:"not null;index" json:"supplier_id"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.Slug = derive(tx, "Name", "Slug", p.Name, Slugify)
	return nil
}
