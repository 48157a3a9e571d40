package schema

import "github.com/rl1809/inventario/internal/core/domain"

type ProductOut struct {
	ID     uint   `json:"id"`
	Nombre string `json:"nombre"`
	Precio string `json:"precio"`
	Stock  int    `json:"stock"`
}

type SellerOut struct {
	ID     uint   `json:"id"`
	Nombre string `json:"nombre"`
	Region string `json:"region"`
}

type SaleOut struct {
	ID         uint   `json:"id"`
	ProductoID uint   `json:"producto_id"`
	VendedorID uint   `json:"vendedor_id"`
	Cantidad   int    `json:"cantidad"`
	FechaVenta string `json:"fecha_venta"`
}

func FromProduct(p domain.Product) ProductOut {
	return ProductOut{ID: p.ID, Nombre: p.Name, Precio: p.Price.StringFixed(2), Stock: p.Stock}
}

func FromSeller(s domain.Seller) SellerOut {
	return SellerOut{ID: s.ID, Nombre: s.Name, Region: s.Region}
}

func FromSale(s domain.Sale) SaleOut {
	return SaleOut{
		ID:         s.ID,
		ProductoID: s.ProductID,
		VendedorID: s.SellerID,
		Cantidad:   s.Quantity,
		FechaVenta: s.SoldAt.Format(DateLayout),
	}
}

func FromProducts(ps []domain.Product) []ProductOut {
	out := make([]ProductOut, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromProduct(p))
	}
	return out
}

func FromSellers(ss []domain.Seller) []SellerOut {
	out := make([]SellerOut, 0, len(ss))
	for _, s := range ss {
		out = append(out, FromSeller(s))
	}
	return out
}

func FromSales(ss []domain.Sale) []SaleOut {
	out := make([]SaleOut, 0, len(ss))
	for _, s := range ss {
		out = append(out, FromSale(s))
	}
	return out
}
