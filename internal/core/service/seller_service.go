package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rl1809/inventario/internal/core/domain"
	"github.com/rl1809/inventario/internal/core/schema"
	"github.com/rl1809/inventario/internal/port"
)

type SellerService struct {
	uow port.UnitOfWork
	notifier
}

func NewSellerService(uow port.UnitOfWork, events port.EventPublisher, log *slog.Logger) *SellerService {
	return &SellerService{uow: uow, notifier: newNotifier(events, log)}
}

func (s *SellerService) List(ctx context.Context) ([]domain.Seller, error) {
	var sellers []domain.Seller
	err := s.uow.Do(ctx, func(r port.Repositories) error {
		var err error
		sellers, err = r.Sellers().List(ctx)
		return err
	})
	return sellers, err
}

func (s *SellerService) Get(ctx context.Context, id uint) (domain.Seller, error) {
	var seller domain.Seller
	err := s.uow.Do(ctx, func(r port.Repositories) error {
		found, err := findSeller(ctx, r, id)
		if err != nil {
			return err
		}
		seller = *found
		return nil
	})
	return seller, err
}

func (s *SellerService) Create(ctx context.Context, in schema.SellerInput) (domain.Seller, error) {
	seller := domain.Seller{Name: in.Name, Region: in.Region}
	err := s.uow.Do(ctx, func(r port.Repositories) error {
		return r.Sellers().Create(ctx, &seller)
	})
	if err != nil {
		return domain.Seller{}, err
	}
	s.notify(ctx, domain.EntitySeller, domain.ActionCreated, seller.ID)
	return seller, nil
}

func (s *SellerService) Update(ctx context.Context, id uint, in schema.SellerInput) (domain.Seller, error) {
	seller := domain.Seller{ID: id, Name: in.Name, Region: in.Region}
	err := s.uow.Do(ctx, func(r port.Repositories) error {
		if _, err := findSeller(ctx, r, id); err != nil {
			return err
		}
		return r.Sellers().Update(ctx, seller)
	})
	if err != nil {
		return domain.Seller{}, err
	}
	s.notify(ctx, domain.EntitySeller, domain.ActionUpdated, id)
	return seller, nil
}

// Delete refuses to remove a seller that still has sales.
func (s *SellerService) Delete(ctx context.Context, id uint) error {
	err := s.uow.Do(ctx, func(r port.Repositories) error {
		if _, err := findSeller(ctx, r, id); err != nil {
			return err
		}
		n, err := r.Sales().CountBySeller(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return &domain.ConstraintError{
				Entity: domain.EntitySeller,
				ID:     id,
				Reason: fmt.Sprintf("referenced by %d sales", n),
			}
		}
		removed, err := r.Sellers().Delete(ctx, id)
		if err != nil {
			return err
		}
		if !removed {
			return &domain.NotFoundError{Entity: domain.EntitySeller, ID: id}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notify(ctx, domain.EntitySeller, domain.ActionDeleted, id)
	return nil
}

func findSeller(ctx context.Context, r port.Repositories, id uint) (*domain.Seller, error) {
	found, err := r.Sellers().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, &domain.NotFoundError{Entity: domain.EntitySeller, ID: id}
	}
	return found, nil
}
