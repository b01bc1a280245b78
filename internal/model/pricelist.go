package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Pricelist struct {
	BaseModel
	Name        string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Code        string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Description *string `gorm:"type:text" json:"description"`
}

func (Pricelist) TableName() string { return "pricelists" }

func (p *Pricelist) BeforeSave(tx *gorm.DB) error {
	p.Code = derive(tx, "Name", "Code", p.Name, Codify)
	return nil
}

// PriceDetail is one price tier of a SKU within a pricelist.
type PriceDetail struct {
	BaseModel
	Price           decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"price"`
	MinimumQuantity int             `gorm:"not null;default:1;uniqueIndex:uq_price_detail,priority:1" json:"minimum_quantity"`
	SkuID           uint            `gorm:"not null;index;uniqueIndex:uq_price_detail,priority:2" json:"sku_id"`
	PricelistID     uint            `gorm:"not null;index;uniqueIndex:uq_price_detail,priority:3" json:"pricelist_id"`

	Pricelist *Pricelist `gorm:"foreignKey:PricelistID" json:"pricelist,omitempty"`
}

func (PriceDetail) TableName() string { return "price_details" }
