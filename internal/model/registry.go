package model

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&CategoryType{},
		&Category{},
		&Supplier{},
		&Product{},
		&Sku{},
		&Pricelist{},
		&PriceDetail{},
		&Attribute{},
		&AttributeSet{},
		&SkuAttributeValue{},
		&Image{},
	}
}

// PathItem is one step of a full_path breadcrumb.
type PathItem struct {
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	CategoryType *string `json:"category_type,omitempty"`
	SkuNumber    *string `json:"sku_number,omitempty"`
	Type         string  `json:"type"`
}
