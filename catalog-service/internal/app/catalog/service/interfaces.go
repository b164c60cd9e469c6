package service

import (
	"context"

	"shopcatalog/catalog-service/internal/app/catalog/entity"
)

type CatalogServiceInterface interface {
	CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error)
	GetAllCategories(ctx context.Context) ([]entity.Category, error)

	CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error)
	BulkCreateProducts(ctx context.Context, reqs []*entity.CreateProductRequest) ([]entity.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id uint, req *entity.UpdateProductRequest) error
	DeleteProduct(ctx context.Context, id uint) error
	ListProducts(ctx context.Context, query entity.ListProductsQuery) (*entity.ProductPage, error)
}
