package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/rl1809/inventario/internal/core/domain"
	"github.com/rl1809/inventario/internal/core/schema"
	"github.com/rl1809/inventario/internal/core/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HTTPHandler struct {
	products *service.ProductService
	sellers  *service.SellerService
	sales    *service.SaleService
	db       Pinger
	log      *slog.Logger
}

func NewHTTPHandler(products *service.ProductService, sellers *service.SellerService, sales *service.SaleService, db Pinger, log *slog.Logger) *HTTPHandler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &HTTPHandler{products: products, sellers: sellers, sales: sales, db: db, log: log}
}

// postForm binds the urlencoded request body for the schema parsers.
type postForm struct{ c *gin.Context }

func (f postForm) Bind(obj any) error { return f.c.ShouldBindWith(obj, binding.FormPost) }

func (h *HTTPHandler) Home(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "home", gin.H{"productos": products})
}

func (h *HTTPHandler) ListProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "productos/lista", gin.H{"productos": products})
}

func (h *HTTPHandler) NewProductForm(c *gin.Context) {
	c.HTML(http.StatusOK, "productos/crear", gin.H{})
}

func (h *HTTPHandler) CreateProduct(c *gin.Context) {
	in, err := schema.ParseProduct(postForm{c})
	if err != nil {
		h.renderError(c, err)
		return
	}
	product, err := h.products.Create(c.Request.Context(), in)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "productos/creado", gin.H{"producto": product})
}

func (h *HTTPHandler) EditProductForm(c *gin.Context) {
	id, err := schema.ParseID(domain.EntityProduct, c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "productos/editar", gin.H{"producto": product})
}

func (h *HTTPHandler) UpdateProduct(c *gin.Context) {
	id, err := schema.ParseID(domain.EntityProduct, c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	in, err := schema.ParseProduct(postForm{c})
	if err != nil {
		h.renderError(c, err)
		return
	}
	product, err := h.products.Update(c.Request.Context(), id, in)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "productos/editado", gin.H{"producto": product})
}

func (h *HTTPHandler) ListSellers(c *gin.Context) {
	sellers, err := h.sellers.List(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "vendedores/lista", gin.H{"vendedores": sellers})
}

func (h *HTTPHandler) NewSellerForm(c *gin.Context) {
	c.HTML(http.StatusOK, "vendedores/crear", gin.H{})
}

func (h *HTTPHandler) CreateSeller(c *gin.Context) {
	in, err := schema.ParseSeller(postForm{c})
	if err != nil {
		h.renderError(c, err)
		return
	}
	seller, err := h.sellers.Create(c.Request.Context(), in)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "vendedores/creado", gin.H{"vendedor": seller})
}

func (h *HTTPHandler) EditSellerForm(c *gin.Context) {
	id, err := schema.ParseID(domain.EntitySeller, c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	seller, err := h.sellers.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "vendedores/editar", gin.H{"vendedor": seller})
}

func (h *HTTPHandler) UpdateSeller(c *gin.Context) {
	id, err := schema.ParseID(domain.EntitySeller, c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	in, err := schema.ParseSeller(postForm{c})
	if err != nil {
		h.renderError(c, err)
		return
	}
	seller, err := h.sellers.Update(c.Request.Context(), id, in)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "vendedores/editado", gin.H{"vendedor": seller})
}

func (h *HTTPHandler) DeleteSeller(c *gin.Context) {
	id, err := schema.ParseID(domain.EntitySeller, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.sellers.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vendedor eliminado"})
}

func (h *HTTPHandler) ListSales(c *gin.Context) {
	sales, err := h.sales.List(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "ventas/lista", gin.H{"ventas": sales})
}

func (h *HTTPHandler) NewSaleForm(c *gin.Context) {
	opts, err := h.sales.Options(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "ventas/crear", gin.H{
		"productos":  opts.Products,
		"vendedores": opts.Sellers,
	})
}

func (h *HTTPHandler) CreateSale(c *gin.Context) {
	in, err := schema.ParseSale(postForm{c})
	if err != nil {
		h.renderError(c, err)
		return
	}
	sale, err := h.sales.Create(c.Request.Context(), in)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "ventas/creada", gin.H{"venta": sale})
}

func (h *HTTPHandler) EditSaleForm(c *gin.Context) {
	id, err := schema.ParseID(domain.EntitySale, c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	form, err := h.sales.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "ventas/editar", gin.H{
		"venta":      form.Sale,
		"productos":  form.Products,
		"vendedores": form.Sellers,
	})
}

func (h *HTTPHandler) UpdateSale(c *gin.Context) {
	id, err := schema.ParseID(domain.EntitySale, c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	in, err := schema.ParseSale(postForm{c})
	if err != nil {
		h.renderError(c, err)
		return
	}
	sale, err := h.sales.Update(c.Request.Context(), id, in)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "ventas/editada", gin.H{"venta": sale})
}

func (h *HTTPHandler) DeleteSale(c *gin.Context) {
	id, err := schema.ParseID(domain.EntitySale, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.sales.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Venta eliminada"})
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("health_check_failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
}

// renderError answers page requests with the error page.
func (h *HTTPHandler) renderError(c *gin.Context, err error) {
	status, msg := h.describe(c, err)
	c.HTML(status, "error", gin.H{"status": status, "mensaje": msg, "titulo": "Error"})
}

// writeError answers DELETE requests, whose callers expect JSON.
func (h *HTTPHandler) writeError(c *gin.Context, err error) {
	status, msg := h.describe(c, err)
	c.JSON(status, gin.H{"detail": msg})
}

func (h *HTTPHandler) describe(c *gin.Context, err error) (int, string) {
	status, msg := classify(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request_failed",
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
	}
	return status, msg
}
