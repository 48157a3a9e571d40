package service

import (
	"context"
	"log/slog"

	"github.com/rl1809/inventario/internal/core/domain"
	"github.com/rl1809/inventario/internal/core/schema"
	"github.com/rl1809/inventario/internal/port"
)

// ProductService has no Delete: products are never removed.
type ProductService struct {
	uow port.UnitOfWork
	notifier
}

func NewProductService(uow port.UnitOfWork, events port.EventPublisher, log *slog.Logger) *ProductService {
	return &ProductService{uow: uow, notifier: newNotifier(events, log)}
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := s.uow.Do(ctx, func(r port.Repositories) error {
		var err error
		products, err = r.Products().List(ctx)
		return err
	})
	return products, err
}

func (s *ProductService) Get(ctx context.Context, id uint) (domain.Product, error) {
	var product domain.Product
	err := s.uow.Do(ctx, func(r port.Repositories) error {
		p, err := findProduct(ctx, r, id)
		if err != nil {
			return err
		}
		product = *p
		return nil
	})
	return product, err
}

func (s *ProductService) Create(ctx context.Context, in schema.ProductInput) (domain.Product, error) {
	product := domain.Product{Name: in.Name, Price: in.Price, Stock: in.Stock}
	err := s.uow.Do(ctx, func(r port.Repositories) error {
		return r.Products().Create(ctx, &product)
	})
	if err != nil {
		return domain.Product{}, err
	}
	s.notify(ctx, domain.EntityProduct, domain.ActionCreated, product.ID)
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id uint, in schema.ProductInput) (domain.Product, error) {
	product := domain.Product{ID: id, Name: in.Name, Price: in.Price, Stock: in.Stock}
	err := s.uow.Do(ctx, func(r port.Repositories) error {
		if _, err := findProduct(ctx, r, id); err != nil {
			return err
		}
		return r.Products().Update(ctx, product)
	})
	if err != nil {
		return domain.Product{}, err
	}
	s.notify(ctx, domain.EntityProduct, domain.ActionUpdated, id)
	return product, nil
}

func findProduct(ctx context.Context, r port.Repositories, id uint) (*domain.Product, error) {
	p, err := r.Products().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &domain.NotFoundError{Entity: domain.EntityProduct, ID: id}
	}
	return p, nil
}
