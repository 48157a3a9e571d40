package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/inventario/internal/core/domain"
	"github.com/rl1809/inventario/internal/core/schema"
)

type services struct {
	store    *mockStore
	events   *recordingPublisher
	products *ProductService
	sellers  *SellerService
	sales    *SaleService
}

func newServices() *services {
	store := newMockStore()
	events := &recordingPublisher{}
	return &services{
		store:    store,
		events:   events,
		products: NewProductService(store, events, nil),
		sellers:  NewSellerService(store, events, nil),
		sales:    NewSaleService(store, events, nil),
	}
}

var soldAt = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func widget() schema.ProductInput {
	return schema.ProductInput{Name: "Widget", Price: decimal.RequireFromString("9.99"), Stock: 100}
}

func ana() schema.SellerInput {
	return schema.SellerInput{Name: "Ana", Region: "North"}
}

func TestScenario_WidgetAnaSale(t *testing.T) {
	s := newServices()
	ctx := context.Background()

	p, err := s.products.Create(ctx, widget())
	require.NoError(t, err)
	assert.Equal(t, uint(1), p.ID)

	seller, err := s.sellers.Create(ctx, ana())
	require.NoError(t, err)
	assert.Equal(t, uint(1), seller.ID)

	sale, err := s.sales.Create(ctx, schema.SaleInput{ProductID: 1, SellerID: 1, Quantity: 5, SoldAt: soldAt})
	require.NoError(t, err)
	assert.Equal(t, uint(1), sale.ID)
	assert.True(t, soldAt.Equal(sale.SoldAt))

	sales, err := s.sales.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Sale{sale}, sales)

	stocked, err := s.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stocked.Stock, "recording a sale leaves stock alone")
}

func TestCreate_ReturnsSubmittedFieldsAndUniqueIDs(t *testing.T) {
	s := newServices()
	ctx := context.Background()

	seen := map[uint]bool{}
	for i := 0; i < 5; i++ {
		p, err := s.products.Create(ctx, widget())
		require.NoError(t, err)
		assert.Equal(t, "Widget", p.Name)
		assert.True(t, p.Price.Equal(widget().Price))
		assert.Equal(t, 100, p.Stock)
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true

		got, err := s.products.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestUpdate_IsIdempotent(t *testing.T) {
	s := newServices()
	ctx := context.Background()

	seller, err := s.sellers.Create(ctx, ana())
	require.NoError(t, err)

	in := schema.SellerInput{Name: "Ana María", Region: "South"}
	first, err := s.sellers.Update(ctx, seller.ID, in)
	require.NoError(t, err)
	afterOnce, err := s.sellers.List(ctx)
	require.NoError(t, err)

	second, err := s.sellers.Update(ctx, seller.ID, in)
	require.NoError(t, err)
	afterTwice, err := s.sellers.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, afterOnce, afterTwice)
	assert.Equal(t, domain.Seller{ID: seller.ID, Name: "Ana María", Region: "South"}, afterTwice[0])
}

func TestMissingIDAlwaysNotFound(t *testing.T) {
	s := newServices()
	ctx := context.Background()
	seller, err := s.sellers.Create(ctx, ana())
	require.NoError(t, err)
	_, err = s.products.Create(ctx, widget())
	require.NoError(t, err)

	const missing = 404
	saleIn := schema.SaleInput{ProductID: 1, SellerID: seller.ID, Quantity: 1, SoldAt: soldAt}

	calls := map[string]func() error{
		"product get":    func() error { _, err := s.products.Get(ctx, missing); return err },
		"product update": func() error { _, err := s.products.Update(ctx, missing, widget()); return err },
		"seller get":     func() error { _, err := s.sellers.Get(ctx, missing); return err },
		"seller update":  func() error { _, err := s.sellers.Update(ctx, missing, ana()); return err },
		"seller delete":  func() error { return s.sellers.Delete(ctx, missing) },
		"sale get":       func() error { _, err := s.sales.Get(ctx, missing); return err },
		"sale update":    func() error { _, err := s.sales.Update(ctx, missing, saleIn); return err },
		"sale delete":    func() error { return s.sales.Delete(ctx, missing) },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			require.ErrorIs(t, err, domain.ErrNotFound)
			assert.NotErrorIs(t, err, domain.ErrValidation)
			assert.NotErrorIs(t, err, domain.ErrConstraintViolation)
			var nf *domain.NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, uint(missing), nf.ID)
		})
	}
	assert.Empty(t, s.events.actions()[2:], "failed operations publish nothing")
}

func TestDeleteTwice(t *testing.T) {
	s := newServices()
	ctx := context.Background()
	_, _ = s.products.Create(ctx, widget())
	seller, _ := s.sellers.Create(ctx, ana())
	sale, err := s.sales.Create(ctx, schema.SaleInput{ProductID: 1, SellerID: seller.ID, Quantity: 2, SoldAt: soldAt})
	require.NoError(t, err)

	require.NoError(t, s.sales.Delete(ctx, sale.ID))
	_, err = s.sales.Get(ctx, sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.sales.Delete(ctx, sale.ID), domain.ErrNotFound)

	require.NoError(t, s.sellers.Delete(ctx, seller.ID))
	_, err = s.sellers.Get(ctx, seller.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.sellers.Delete(ctx, seller.ID), domain.ErrNotFound)
}

func TestSellerDelete_DeniedWhileSalesReferenceIt(t *testing.T) {
	s := newServices()
	ctx := context.Background()
	_, _ = s.products.Create(ctx, widget())
	seller, _ := s.sellers.Create(ctx, ana())
	sale, err := s.sales.Create(ctx, schema.SaleInput{ProductID: 1, SellerID: seller.ID, Quantity: 5, SoldAt: soldAt})
	require.NoError(t, err)

	err = s.sellers.Delete(ctx, seller.ID)
	require.ErrorIs(t, err, domain.ErrConstraintViolation)
	var ce *domain.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, domain.EntitySeller, ce.Entity)
	assert.Equal(t, seller.ID, ce.ID)

	_, err = s.sellers.Get(ctx, seller.ID)
	assert.NoError(t, err, "seller is kept")
	form, err := s.sales.Get(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, seller.ID, form.Sale.SellerID, "sale is kept")

	require.NoError(t, s.sales.Delete(ctx, sale.ID))
	assert.NoError(t, s.sellers.Delete(ctx, seller.ID), "allowed once the sale is gone")
}

func TestSaleCreate_MissingReferences(t *testing.T) {
	s := newServices()
	ctx := context.Background()
	_, _ = s.products.Create(ctx, widget())
	_, _ = s.sellers.Create(ctx, ana())

	tests := []struct {
		name   string
		in     schema.SaleInput
		entity domain.Entity
		id     uint
	}{
		{name: "product", in: schema.SaleInput{ProductID: 7, SellerID: 1, Quantity: 1, SoldAt: soldAt}, entity: domain.EntityProduct, id: 7},
		{name: "seller", in: schema.SaleInput{ProductID: 1, SellerID: 8, Quantity: 1, SoldAt: soldAt}, entity: domain.EntitySeller, id: 8},
		{name: "both reports product", in: schema.SaleInput{ProductID: 7, SellerID: 8, Quantity: 1, SoldAt: soldAt}, entity: domain.EntityProduct, id: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.sales.Create(ctx, tt.in)
			var nf *domain.NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, tt.entity, nf.Entity)
			assert.Equal(t, tt.id, nf.ID)
		})
	}
	assert.Equal(t, 0, s.store.saleCount(), "nothing persisted")
}

func TestSaleUpdate(t *testing.T) {
	s := newServices()
	ctx := context.Background()
	_, _ = s.products.Create(ctx, widget())
	_, _ = s.products.Create(ctx, schema.ProductInput{Name: "Gadget", Price: decimal.NewFromInt(3), Stock: 1})
	_, _ = s.sellers.Create(ctx, ana())
	sale, err := s.sales.Create(ctx, schema.SaleInput{ProductID: 1, SellerID: 1, Quantity: 5, SoldAt: soldAt})
	require.NoError(t, err)

	later := soldAt.Add(48 * time.Hour)
	updated, err := s.sales.Update(ctx, sale.ID, schema.SaleInput{ProductID: 2, SellerID: 1, Quantity: 500, SoldAt: later})
	require.NoError(t, err)
	assert.Equal(t, domain.Sale{ID: sale.ID, ProductID: 2, SellerID: 1, Quantity: 500, SoldAt: later}, updated)

	form, err := s.sales.Get(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, form.Sale)
	assert.Len(t, form.Products, 2)
	assert.Len(t, form.Sellers, 1)

	_, err = s.sales.Update(ctx, sale.ID, schema.SaleInput{ProductID: 2, SellerID: 9, Quantity: 1, SoldAt: later})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	form, _ = s.sales.Get(ctx, sale.ID)
	assert.Equal(t, updated, form.Sale, "failed update leaves the sale unchanged")
}

func TestSaleOptions(t *testing.T) {
	s := newServices()
	ctx := context.Background()

	opts, err := s.sales.Options(ctx)
	require.NoError(t, err)
	assert.Empty(t, opts.Products)
	assert.Empty(t, opts.Sellers)

	_, _ = s.products.Create(ctx, widget())
	_, _ = s.sellers.Create(ctx, ana())
	opts, err = s.sales.Options(ctx)
	require.NoError(t, err)
	assert.Len(t, opts.Products, 1)
	assert.Len(t, opts.Sellers, 1)
}

func TestEventsPublishedAfterCommit(t *testing.T) {
	s := newServices()
	ctx := context.Background()

	p, _ := s.products.Create(ctx, widget())
	_, _ = s.products.Update(ctx, p.ID, widget())
	seller, _ := s.sellers.Create(ctx, ana())
	sale, _ := s.sales.Create(ctx, schema.SaleInput{ProductID: p.ID, SellerID: seller.ID, Quantity: 1, SoldAt: soldAt})
	require.NoError(t, s.sales.Delete(ctx, sale.ID))

	assert.Equal(t, []domain.Action{
		domain.ActionCreated, domain.ActionUpdated, domain.ActionCreated, domain.ActionCreated, domain.ActionDeleted,
	}, s.events.actions())
	last := s.events.events[len(s.events.events)-1]
	assert.Equal(t, domain.EntitySale, last.Entity)
	assert.Equal(t, sale.ID, last.ID)
}

func TestPublishFailureDoesNotFailTheOperation(t *testing.T) {
	store := newMockStore()
	events := &recordingPublisher{err: errors.New("redis down")}
	products := NewProductService(store, events, nil)

	p, err := products.Create(context.Background(), widget())
	require.NoError(t, err)
	assert.Equal(t, uint(1), p.ID)
	assert.Len(t, events.events, 1)
}

func TestStoreErrorsPropagate(t *testing.T) {
	s := newServices()
	s.store.fail = errStoreDown

	_, err := s.products.List(context.Background())
	assert.ErrorIs(t, err, errStoreDown)
	_, err = s.sales.Create(context.Background(), schema.SaleInput{ProductID: 1, SellerID: 1, Quantity: 1, SoldAt: soldAt})
	assert.ErrorIs(t, err, errStoreDown)
	assert.Empty(t, s.events.actions())
}

func TestPublishers(t *testing.T) {
	a := &recordingPublisher{err: errors.New("first")}
	b := &recordingPublisher{}
	err := Publishers{a, nil, b}.Publish(context.Background(), domain.Event{Entity: domain.EntityProduct})

	assert.EqualError(t, err, "first")
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1, "later publishers still run")
}

func TestConcurrentCreatesGetDistinctIDs(t *testing.T) {
	s := newServices()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	ids := map[uint]bool{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := s.products.Create(ctx, widget())
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			mu.Lock()
			ids[p.ID] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, ids, 50)
}
