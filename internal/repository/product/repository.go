package product

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	ListNewest(ctx context.Context, limit int) ([]domain.Product, error)
	Search(ctx context.Context, keyword string) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}
