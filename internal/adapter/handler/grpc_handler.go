package handler

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"

	"github.com/rl1809/inventario/internal/core/domain"
	"github.com/rl1809/inventario/internal/core/schema"
	"github.com/rl1809/inventario/internal/core/service"
)

const InventoryServiceName = "inventario.v1.Inventory"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec carries messages as JSON under the "json" content-subtype, so
// clients call with grpc.CallContentSubtype("json").
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return "json" }

type ListRequest struct{}

type GetSaleRequest struct {
	ID uint `json:"id"`
}

type ProductList struct {
	Productos []schema.ProductOut `json:"productos"`
}

type SellerList struct {
	Vendedores []schema.SellerOut `json:"vendedores"`
}

type SaleList struct {
	Ventas []schema.SaleOut `json:"ventas"`
}

// InventoryServer is the read-only inventory RPC surface.
type InventoryServer interface {
	ListProducts(context.Context, *ListRequest) (*ProductList, error)
	ListSellers(context.Context, *ListRequest) (*SellerList, error)
	ListSales(context.Context, *ListRequest) (*SaleList, error)
	GetSale(context.Context, *GetSaleRequest) (*schema.SaleOut, error)
}

type GRPCHandler struct {
	products *service.ProductService
	sellers  *service.SellerService
	sales    *service.SaleService
}

var _ InventoryServer = (*GRPCHandler)(nil)

func NewGRPCHandler(products *service.ProductService, sellers *service.SellerService, sales *service.SaleService) *GRPCHandler {
	return &GRPCHandler{products: products, sellers: sellers, sales: sales}
}

func (h *GRPCHandler) ListProducts(ctx context.Context, _ *ListRequest) (*ProductList, error) {
	products, err := h.products.List(ctx)
	if err != nil {
		return nil, grpcError(err)
	}
	return &ProductList{Productos: schema.FromProducts(products)}, nil
}

func (h *GRPCHandler) ListSellers(ctx context.Context, _ *ListRequest) (*SellerList, error) {
	sellers, err := h.sellers.List(ctx)
	if err != nil {
		return nil, grpcError(err)
	}
	return &SellerList{Vendedores: schema.FromSellers(sellers)}, nil
}

func (h *GRPCHandler) ListSales(ctx context.Context, _ *ListRequest) (*SaleList, error) {
	sales, err := h.sales.List(ctx)
	if err != nil {
		return nil, grpcError(err)
	}
	return &SaleList{Ventas: schema.FromSales(sales)}, nil
}

func (h *GRPCHandler) GetSale(ctx context.Context, req *GetSaleRequest) (*schema.SaleOut, error) {
	if req.ID == 0 {
		return nil, grpcError(&domain.NotFoundError{Entity: domain.EntitySale})
	}
	form, err := h.sales.Get(ctx, req.ID)
	if err != nil {
		return nil, grpcError(err)
	}
	out := schema.FromSale(form.Sale)
	return &out, nil
}

func RegisterInventoryServer(s grpc.ServiceRegistrar, srv InventoryServer) {
	s.RegisterService(&inventoryServiceDesc, srv)
}

// unary adapts a typed method to the generic grpc handler signature.
func unary[Req any, Resp any](name string, call func(InventoryServer, context.Context, *Req) (Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + InventoryServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			req := new(Req)
			if err := dec(req); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(InventoryServer), ctx, req)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(InventoryServer), ctx, req.(*Req))
			})
		},
	}
}

var inventoryServiceDesc = grpc.ServiceDesc{
	ServiceName: InventoryServiceName,
	HandlerType: (*InventoryServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListProducts", InventoryServer.ListProducts),
		unary("ListSellers", InventoryServer.ListSellers),
		unary("ListSales", InventoryServer.ListSales),
		unary("GetSale", InventoryServer.GetSale),
	},
	Streams: []grpc.StreamDesc{},
}
