package service

import (
	"context"
	"log/slog"

	"github.com/rl1809/inventario/internal/core/domain"
	"github.com/rl1809/inventario/internal/core/schema"
	"github.com/rl1809/inventario/internal/port"
)

// SaleOptions lists what a sale form can reference.
type SaleOptions struct {
	Products []domain.Product
	Sellers  []domain.Seller
}

// SaleForm is a sale together with the options needed to edit it.
type SaleForm struct {
	Sale domain.Sale
	SaleOptions
}

// SaleService records sales. Quantities are not checked against stock and
// stock is left untouched.
type SaleService struct {
	uow port.UnitOfWork
	notifier
}

func NewSaleService(uow port.UnitOfWork, events port.EventPublisher, log *slog.Logger) *SaleService {
	return &SaleService{uow: uow, notifier: newNotifier(events, log)}
}

func (s *SaleService) List(ctx context.Context) ([]domain.Sale, error) {
	var sales []domain.Sale
	err := s.uow.Do(ctx, func(r port.Repositories) error {
		var err error
		sales, err = r.Sales().List(ctx)
		return err
	})
	return sales, err
}

func (s *SaleService) Options(ctx context.Context) (SaleOptions, error) {
	var opts SaleOptions
	err := s.uow.Do(ctx, func(r port.Repositories) error {
		var err error
		opts, err = loadOptions(ctx, r)
		return err
	})
	return opts, err
}

func (s *SaleService) Get(ctx context.Context, id uint) (SaleForm, error) {
	var form SaleForm
	err := s.uow.Do(ctx, func(r port.Repositories) error {
		sale, err := findSale(ctx, r, id)
		if err != nil {
			return err
		}
		opts, err := loadOptions(ctx, r)
		if err != nil {
			return err
		}
		form = SaleForm{Sale: *sale, SaleOptions: opts}
		return nil
	})
	return form, err
}

// Create fails with a NotFoundError naming the product or seller when either
// does not exist; nothing is written in that case.
func (s *SaleService) Create(ctx context.Context, in schema.SaleInput) (domain.Sale, error) {
	sale := newSale(0, in)
	err := s.uow.Do(ctx, func(r port.Repositories) error {
		if err := checkReferences(ctx, r, in); err != nil {
			return err
		}
		return r.Sales().Create(ctx, &sale)
	})
	if err != nil {
		return domain.Sale{}, err
	}
	s.notify(ctx, domain.EntitySale, domain.ActionCreated, sale.ID)
	return sale, nil
}

func (s *SaleService) Update(ctx context.Context, id uint, in schema.SaleInput) (domain.Sale, error) {
	sale := newSale(id, in)
	err := s.uow.Do(ctx, func(r port.Repositories) error {
		if _, err := findSale(ctx, r, id); err != nil {
			return err
		}
		if err := checkReferences(ctx, r, in); err != nil {
			return err
		}
		return r.Sales().Update(ctx, sale)
	})
	if err != nil {
		return domain.Sale{}, err
	}
	s.notify(ctx, domain.EntitySale, domain.ActionUpdated, id)
	return sale, nil
}

func (s *SaleService) Delete(ctx context.Context, id uint) error {
	err := s.uow.Do(ctx, func(r port.Repositories) error {
		removed, err := r.Sales().Delete(ctx, id)
		if err != nil {
			return err
		}
		if !removed {
			return &domain.NotFoundError{Entity: domain.EntitySale, ID: id}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notify(ctx, domain.EntitySale, domain.ActionDeleted, id)
	return nil
}

func newSale(id uint, in schema.SaleInput) domain.Sale {
	return domain.Sale{
		ID:        id,
		ProductID: in.ProductID,
		SellerID:  in.SellerID,
		Quantity:  in.Quantity,
		SoldAt:    in.SoldAt.UTC(),
	}
}

func checkReferences(ctx context.Context, r port.Repositories, in schema.SaleInput) error {
	if _, err := findProduct(ctx, r, in.ProductID); err != nil {
		return err
	}
	_, err := findSeller(ctx, r, in.SellerID)
	return err
}

func loadOptions(ctx context.Context, r port.Repositories) (SaleOptions, error) {
	products, err := r.Products().List(ctx)
	if err != nil {
		return SaleOptions{}, err
	}
	sellers, err := r.Sellers().List(ctx)
	if err != nil {
		return SaleOptions{}, err
	}
	return SaleOptions{Products: products, Sellers: sellers}, nil
}

func findSale(ctx context.Context, r port.Repositories, id uint) (*domain.Sale, error) {
	sale, err := r.Sales().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, &domain.NotFoundError{Entity: domain.EntitySale, ID: id}
	}
	return sale, nil
}
