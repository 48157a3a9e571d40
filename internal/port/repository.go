package port

import (
	"context"

	"github.com/rl1809/inventario/internal/core/domain"
)

// Get methods return a nil record and a nil error when the id is unknown.

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id uint) (*domain.Product, error)
	// Create stores p and assigns p.ID
	Create(ctx context.Context, p *domain.Product) error
	// Update overwrites every mutable field of the record with p.ID
	Update(ctx context.Context, p domain.Product) error
}

type SellerRepository interface {
	List(ctx context.Context) ([]domain.Seller, error)
	Get(ctx context.Context, id uint) (*domain.Seller, error)
	Create(ctx context.Context, s *domain.Seller) error
	Update(ctx context.Context, s domain.Seller) error
	// Delete reports whether a record was removed
	Delete(ctx context.Context, id uint) (bool, error)
}

type SaleRepository interface {
	List(ctx context.Context) ([]domain.Sale, error)
	Get(ctx context.Context, id uint) (*domain.Sale, error)
	Create(ctx context.Context, s *domain.Sale) error
	Update(ctx context.Context, s domain.Sale) error
	Delete(ctx context.Context, id uint) (bool, error)
	// CountBySeller returns how many sales reference the seller
	CountBySeller(ctx context.Context, sellerID uint) (int64, error)
}

// Repositories are bound to a single unit of work.
type Repositories interface {
	Products() ProductRepository
	Sellers() SellerRepository
	Sales() SaleRepository
}

type UnitOfWork interface {
	// Do runs fn in one transaction, committing when fn returns nil and
	// rolling back otherwise. The connection is released on every path.
	Do(ctx context.Context, fn func(Repositories) error) error
}
