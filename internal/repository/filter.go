package repository

import (
	"strings"

	"gorm.io/gorm"
)

func partial(column string, v *string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if v == nil || *v == "" {
			return db
		}
		return db.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(*v)+"%")
	}
}

func exact[V any](column string, v *V) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if v == nil {
			return db
		}
		return db.Where(column+" = ?", *v)
	}
}

func all(scopes ...Scope) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Scopes(scopes...)
	}
}

type CategoryTypeFilter struct {
	Name     *string
	Slug     *string
	IsActive *bool
}

func (f CategoryTypeFilter) Scope() Scope {
	return all(partial("name", f.Name), exact("slug", f.Slug), exact("is_active", f.IsActive))
}

type CategoryFilter struct {
	Name           *string
	Slug           *string
	CategoryTypeID *uint
	ParentID       *uint
	IsActive       *bool
}

func (f CategoryFilter) Scope() Scope {
	return all(
		partial("name", f.Name),
		exact("slug", f.Slug),
		exact("category_type_id", f.CategoryTypeID),
		exact("parent_id", f.ParentID),
		exact("is_active", f.IsActive),
	)
}

type SupplierFilter struct {
	Name        *string
	Slug        *string
	CompanyType *string
	Email       *string
	Contact     *string
	IsActive    *bool
}

func (f SupplierFilter) Scope() Scope {
	var companyType *string
	if f.CompanyType != nil {
		upper := strings.ToUpper(*f.CompanyType)
		companyType = &upper
	}
	return all(
		partial("name", f.Name),
		exact("slug", f.Slug),
		exact("company_type", companyType),
		partial("email", f.Email),
		partial("contact", f.Contact),
		exact("is_active", f.IsActive),
	)
}

type ProductFilter struct {
	Name       *string
	Slug       *string
	CategoryID *uint
	SupplierID *uint
	IsActive   *bool
}

func (f ProductFilter) Scope() Scope {
	return all(
		partial("name", f.Name),
		exact("slug", f.Slug),
		exact("category_id", f.CategoryID),
		exact("supplier_id", f.SupplierID),
		exact("is_active", f.IsActive),
	)
}

type SkuFilter struct {
	Name      *string
	Slug      *string
	SkuNumber *string
	ProductID *uint
	IsActive  *bool
}

func (f SkuFilter) Scope() Scope {
	return all(
		partial("name", f.Name),
		exact("slug", f.Slug),
		exact("sku_number", f.SkuNumber),
		exact("product_id", f.ProductID),
		exact("is_active", f.IsActive),
	)
}

type PricelistFilter struct {
	Name     *string
	Code     *string
	IsActive *bool
}

func (f PricelistFilter) Scope() Scope {
	return all(partial("name", f.Name), partial("code", f.Code), exact("is_active", f.IsActive))
}

type AttributeFilter struct {
	Name     *string
	Code     *string
	DataType *string
	IsActive *bool
}

func (f AttributeFilter) Scope() Scope {
	var dataType *string
	if f.DataType != nil {
		upper := strings.ToUpper(*f.DataType)
		dataType = &upper
	}
	return all(
		partial("name", f.Name),
		partial("code", f.Code),
		exact("data_type", dataType),
		exact("is_active", f.IsActive),
	)
}

type AttributeSetFilter struct {
	Name     *string
	Slug     *string
	IsActive *bool
}

func (f AttributeSetFilter) Scope() Scope {
	return all(partial("name", f.Name), exact("slug", f.Slug), exact("is_active", f.IsActive))
}

type UserFilter struct {
	Username *string
	Email    *string
	Name     *string
	Role     *string
	IsActive *bool
}

func (f UserFilter) Scope() Scope {
	var role *string
	if f.Role != nil {
		upper := strings.ToUpper(*f.Role)
		role = &upper
	}
	return all(
		exact("username", f.Username),
		partial("email", f.Email),
		partial("name", f.Name),
		exact("role", role),
		exact("is_active", f.IsActive),
	)
}

type ImageFilter struct {
	ContentType *string
	ObjectID    *uint
}

func (f ImageFilter) Scope() Scope {
	return all(exact("content_type", f.ContentType), exact("object_id", f.ObjectID))
}
