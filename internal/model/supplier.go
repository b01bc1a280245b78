package model

import "gorm.io/gorm"

const (
	CompanyIndividual = "INDIVIDUAL"
	CompanyPT         = "PT"
	CompanyCV         = "CV"
	CompanyUD         = "UD"
)

type Supplier struct {
	BaseModel
	Name        string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Slug        string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	CompanyType string  `gorm:"type:varchar(20);not null" json:"company_type" fieldcheck:"enum"`
	Address     *string `gorm:"type:text" json:"address"`
	Contact     string  `gorm:"type:varchar(13);uniqueIndex;not null" json:"contact"`
	Email       string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"email"`
}

func (Supplier) TableName() string { return "suppliers" }

func (s *Supplier) BeforeSave(tx *gorm.DB) error {
	s.Slug = derive(tx, "Name", "Slug", s.Name, Slugify)
	return nil
}
