package service

import (
	"context"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
)

const (
	pathCategory = "Category"
	pathProduct  = "Product"
	pathSku      = "SKU"
)

// categoryPath builds the breadcrumb from the root category down to id.
func categoryPath(ctx context.Context, repo repository.CategoryRepository, id uint) ([]model.PathItem, error) {
	chain, err := repo.Path(ctx, id)
	if err != nil {
		return nil, err
	}
	items := make([]model.PathItem, 0, len(chain))
	for i, c := range chain {
		item := model.PathItem{Name: c.Name, Slug: c.Slug, Type: pathCategory}
		if i == 0 && c.CategoryType != nil {
			name := c.CategoryType.Name
			item.CategoryType = &name
		}
		items = append(items, item)
	}
	return items, nil
}

func productPath(ctx context.Context, repo repository.CategoryRepository, p *model.Product) ([]model.PathItem, error) {
	items, err := categoryPath(ctx, repo, p.CategoryID)
	if err != nil {
		return nil, err
	}
	return append(items, model.PathItem{Name: p.Name, Slug: p.Slug, Type: pathProduct}), nil
}

func skuPath(ctx context.Context, categories repository.CategoryRepository, products repository.ProductRepository, s *model.Sku) ([]model.PathItem, error) {
	p, err := products.FindByID(ctx, s.ProductID)
	if err != nil {
		return nil, err
	}
	items, err := productPath(ctx, categories, p)
	if err != nil {
		return nil, err
	}
	number := s.SkuNumber
	return append(items, model.PathItem{Name: s.Name, Slug: s.Slug, SkuNumber: &number, Type: pathSku}), nil
}
