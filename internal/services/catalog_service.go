package services

import (
	"context"

	"qrcatalog/internal/domain"
	"qrcatalog/internal/repos"
)

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.List(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	return s.Prods.Get(ctx, id)
}

func (s *CatalogService) ProductExists(ctx context.Context, id int64) (bool, error) {
	return s.Prods.Exists(ctx, id)
}

// UpdateProduct reports whether the product existed.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, f domain.ProductFields) (bool, error) {
	return s.Prods.Update(ctx, id, f)
}

// DeleteProduct removes the row only; QR artifacts are owned by product creation.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	return s.Prods.Delete(ctx, id)
}
