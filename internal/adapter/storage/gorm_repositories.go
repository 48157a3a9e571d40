package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rl1809/inventario/internal/core/domain"
)

const (
	reasonMissingReference = "references a missing record"
	reasonReferenced       = "referenced by existing sales"
)

type productRepository struct {
	db *gorm.DB
}

func (r productRepository) List(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list productos: %w", err)
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r productRepository) Get(ctx context.Context, id uint) (*domain.Product, error) {
	var row productRow
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get producto %d: %w", id, err)
	}
	p := row.toDomain()
	return &p, nil
}

func (r productRepository) Create(ctx context.Context, p *domain.Product) error {
	row := newProductRow(*p)
	row.ID = 0
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert producto: %w", err)
	}
	p.ID = row.ID
	return nil
}

func (r productRepository) Update(ctx context.Context, p domain.Product) error {
	err := r.db.WithContext(ctx).Model(&productRow{ID: p.ID}).Updates(map[string]any{
		"nombre": p.Name,
		"precio": p.Price,
		"stock":  p.Stock,
	}).Error
	if err != nil {
		return fmt.Errorf("update producto %d: %w", p.ID, err)
	}
	return nil
}

type sellerRepository struct {
	db *gorm.DB
}

func (r sellerRepository) List(ctx context.Context) ([]domain.Seller, error) {
	var rows []sellerRow
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list vendedores: %w", err)
	}
	out := make([]domain.Seller, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r sellerRepository) Get(ctx context.Context, id uint) (*domain.Seller, error) {
	var row sellerRow
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get vendedor %d: %w", id, err)
	}
	s := row.toDomain()
	return &s, nil
}

func (r sellerRepository) Create(ctx context.Context, s *domain.Seller) error {
	row := newSellerRow(*s)
	row.ID = 0
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert vendedor: %w", err)
	}
	s.ID = row.ID
	return nil
}

func (r sellerRepository) Update(ctx context.Context, s domain.Seller) error {
	err := r.db.WithContext(ctx).Model(&sellerRow{ID: s.ID}).Updates(map[string]any{
		"nombre": s.Name,
		"region": s.Region,
	}).Error
	if err != nil {
		return fmt.Errorf("update vendedor %d: %w", s.ID, err)
	}
	return nil
}

func (r sellerRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&sellerRow{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("delete vendedor %d: %w", id,
			translate(domain.EntitySeller, id, reasonReferenced, result.Error))
	}
	return result.RowsAffected > 0, nil
}

type saleRepository struct {
	db *gorm.DB
}

func (r saleRepository) List(ctx context.Context) ([]domain.Sale, error) {
	var rows []saleRow
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list ventas: %w", err)
	}
	out := make([]domain.Sale, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r saleRepository) Get(ctx context.Context, id uint) (*domain.Sale, error) {
	var row saleRow
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get venta %d: %w", id, err)
	}
	s := row.toDomain()
	return &s, nil
}

func (r saleRepository) Create(ctx context.Context, s *domain.Sale) error {
	row := newSaleRow(*s)
	row.ID = 0
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return fmt.Errorf("insert venta: %w",
			translate(domain.EntitySale, 0, reasonMissingReference, err))
	}
	s.ID = row.ID
	return nil
}

func (r saleRepository) Update(ctx context.Context, s domain.Sale) error {
	row := newSaleRow(s)
	err := r.db.WithContext(ctx).Model(&saleRow{ID: s.ID}).Omit(clause.Associations).Updates(map[string]any{
		"producto_id": row.ProductID,
		"vendedor_id": row.SellerID,
		"cantidad":    row.Quantity,
		"fecha_venta": row.SoldAt,
	}).Error
	if err != nil {
		return fmt.Errorf("update venta %d: %w", s.ID,
			translate(domain.EntitySale, s.ID, reasonMissingReference, err))
	}
	return nil
}

func (r saleRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&saleRow{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("delete venta %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r saleRepository) CountBySeller(ctx context.Context, sellerID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&saleRow{}).Where("vendedor_id = ?", sellerID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count ventas for vendedor %d: %w", sellerID, err)
	}
	return n, nil
}
