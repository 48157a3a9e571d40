package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rl1809/inventario/internal/port"
	"github.com/rl1809/inventario/internal/web"
)

type RouterOptions struct {
	Log       *slog.Logger
	Observer  RequestObserver
	Gatherer  prometheus.Gatherer
	Limiter   port.RateLimiter
	RateLimit int
}

// NewRouter builds the gin engine serving pages, deletes, health and metrics.
func NewRouter(h *HTTPHandler, opts RouterOptions) (*gin.Engine, error) {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logging(log))
	if opts.Observer != nil {
		r.Use(Metrics(opts.Observer))
	}
	r.Use(RateLimit(opts.Limiter, opts.RateLimit, log))
	r.SetHTMLTemplate(tmpl)

	r.StaticFS("/static", http.FS(web.Static()))
	r.GET("/health", h.HealthCheck)
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	r.GET("/", h.Home)

	productos := r.Group("/productos")
	productos.GET("/", h.ListProducts)
	productos.GET("/crear", h.NewProductForm)
	productos.POST("/crear", h.CreateProduct)
	productos.GET("/editar/:id", h.EditProductForm)
	productos.POST("/editar/:id", h.UpdateProduct)

	vendedores := r.Group("/vendedores")
	vendedores.GET("/", h.ListSellers)
	vendedores.GET("/crear", h.NewSellerForm)
	vendedores.POST("/crear", h.CreateSeller)
	vendedores.GET("/editar/:id", h.EditSellerForm)
	vendedores.POST("/editar/:id", h.UpdateSeller)
	vendedores.DELETE("/:id", h.DeleteSeller)

	ventas := r.Group("/ventas")
	ventas.GET("/", h.ListSales)
	ventas.GET("/crear", h.NewSaleForm)
	ventas.POST("/crear", h.CreateSale)
	ventas.GET("/editar/:id", h.EditSaleForm)
	ventas.POST("/editar/:id", h.UpdateSale)
	ventas.DELETE("/:id", h.DeleteSale)

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "error", gin.H{"status": http.StatusNotFound, "mensaje": "Página no encontrada", "titulo": "Error"})
	})
	return r, nil
}
