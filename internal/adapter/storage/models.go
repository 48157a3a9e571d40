package storage

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/inventario/internal/core/domain"
)

type productRow struct {
	ID    uint            `gorm:"primaryKey"`
	Name  string          `gorm:"column:nombre;size:255;not null;index"`
	Price decimal.Decimal `gorm:"column:precio;type:decimal(10,2);not null"`
	Stock int             `gorm:"column:stock;not null"`
}

func (productRow) TableName() string { return "productos" }

type sellerRow struct {
	ID     uint   `gorm:"primaryKey"`
	Name   string `gorm:"column:nombre;size:255;not null;index"`
	Region string `gorm:"column:region;size:255;not null"`
}

func (sellerRow) TableName() string { return "vendedores" }

// saleRow belongs to a product and a seller. Referenced rows cannot be
// deleted while a sale points at them.
type saleRow struct {
	ID        uint       `gorm:"primaryKey"`
	ProductID uint       `gorm:"column:producto_id;not null;index"`
	SellerID  uint       `gorm:"column:vendedor_id;not null;index"`
	Quantity  int        `gorm:"column:cantidad;not null"`
	SoldAt    time.Time  `gorm:"column:fecha_venta;not null"`
	Product   productRow `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Seller    sellerRow  `gorm:"foreignKey:SellerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (saleRow) TableName() string { return "ventas" }

func newProductRow(p domain.Product) productRow {
	return productRow{ID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock}
}

func (r productRow) toDomain() domain.Product {
	return domain.Product{ID: r.ID, Name: r.Name, Price: r.Price, Stock: r.Stock}
}

func newSellerRow(s domain.Seller) sellerRow {
	return sellerRow{ID: s.ID, Name: s.Name, Region: s.Region}
}

func (r sellerRow) toDomain() domain.Seller {
	return domain.Seller{ID: r.ID, Name: r.Name, Region: r.Region}
}

func newSaleRow(s domain.Sale) saleRow {
	return saleRow{
		ID:        s.ID,
		ProductID: s.ProductID,
		SellerID:  s.SellerID,
		Quantity:  s.Quantity,
		SoldAt:    s.SoldAt.UTC(),
	}
}

func (r saleRow) toDomain() domain.Sale {
	return domain.Sale{
		ID:        r.ID,
		ProductID: r.ProductID,
		SellerID:  r.SellerID,
		Quantity:  r.Quantity,
		SoldAt:    r.SoldAt.UTC(),
	}
}
