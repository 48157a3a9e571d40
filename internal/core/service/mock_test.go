package service

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/rl1809/inventario/internal/core/domain"
	"github.com/rl1809/inventario/internal/port"
)

// mockStore is an in-memory UnitOfWork. Each Do works on a copy of the data
// and only keeps it when fn succeeds.
type mockStore struct {
	mu   sync.Mutex
	data mockData
	fail error
}

type mockData struct {
	products map[uint]domain.Product
	sellers  map[uint]domain.Seller
	sales    map[uint]domain.Sale
	nextID   map[domain.Entity]uint
}

func newMockStore() *mockStore {
	return &mockStore{data: mockData{
		products: map[uint]domain.Product{},
		sellers:  map[uint]domain.Seller{},
		sales:    map[uint]domain.Sale{},
		nextID:   map[domain.Entity]uint{},
	}}
}

func (d mockData) clone() mockData {
	return mockData{
		products: maps.Clone(d.products),
		sellers:  maps.Clone(d.sellers),
		sales:    maps.Clone(d.sales),
		nextID:   maps.Clone(d.nextID),
	}
}

func (d *mockData) assign(e domain.Entity) uint {
	d.nextID[e]++
	return d.nextID[e]
}

func (m *mockStore) Do(ctx context.Context, fn func(port.Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	work := m.data.clone()
	if err := fn(mockRepos{d: &work}); err != nil {
		return err
	}
	m.data = work
	return nil
}

func (m *mockStore) saleCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data.sales)
}

type mockRepos struct{ d *mockData }

func (r mockRepos) Products() port.ProductRepository { return mockProducts(r) }
func (r mockRepos) Sellers() port.SellerRepository   { return mockSellers(r) }
func (r mockRepos) Sales() port.SaleRepository       { return mockSales(r) }

func sortedValues[V any](m map[uint]V) []V {
	out := make([]V, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[k])
	}
	return out
}

func lookup[V any](m map[uint]V, id uint) *V {
	v, ok := m[id]
	if !ok {
		return nil
	}
	return &v
}

type mockProducts struct{ d *mockData }

func (r mockProducts) List(ctx context.Context) ([]domain.Product, error) {
	return sortedValues(r.d.products), nil
}
func (r mockProducts) Get(ctx context.Context, id uint) (*domain.Product, error) {
	return lookup(r.d.products, id), nil
}
func (r mockProducts) Create(ctx context.Context, p *domain.Product) error {
	p.ID = r.d.assign(domain.EntityProduct)
	r.d.products[p.ID] = *p
	return nil
}
func (r mockProducts) Update(ctx context.Context, p domain.Product) error {
	r.d.products[p.ID] = p
	return nil
}

type mockSellers struct{ d *mockData }

func (r mockSellers) List(ctx context.Context) ([]domain.Seller, error) {
	return sortedValues(r.d.sellers), nil
}
func (r mockSellers) Get(ctx context.Context, id uint) (*domain.Seller, error) {
	return lookup(r.d.sellers, id), nil
}
func (r mockSellers) Create(ctx context.Context, s *domain.Seller) error {
	s.ID = r.d.assign(domain.EntitySeller)
	r.d.sellers[s.ID] = *s
	return nil
}
func (r mockSellers) Update(ctx context.Context, s domain.Seller) error {
	r.d.sellers[s.ID] = s
	return nil
}
func (r mockSellers) Delete(ctx context.Context, id uint) (bool, error) {
	if _, ok := r.d.sellers[id]; !ok {
		return false, nil
	}
	delete(r.d.sellers, id)
	return true, nil
}

type mockSales struct{ d *mockData }

func (r mockSales) List(ctx context.Context) ([]domain.Sale, error) {
	return sortedValues(r.d.sales), nil
}
func (r mockSales) Get(ctx context.Context, id uint) (*domain.Sale, error) {
	return lookup(r.d.sales, id), nil
}
func (r mockSales) Create(ctx context.Context, s *domain.Sale) error {
	s.ID = r.d.assign(domain.EntitySale)
	r.d.sales[s.ID] = *s
	return nil
}
func (r mockSales) Update(ctx context.Context, s domain.Sale) error {
	r.d.sales[s.ID] = s
	return nil
}
func (r mockSales) Delete(ctx context.Context, id uint) (bool, error) {
	if _, ok := r.d.sales[id]; !ok {
		return false, nil
	}
	delete(r.d.sales, id)
	return true, nil
}
func (r mockSales) CountBySeller(ctx context.Context, sellerID uint) (int64, error) {
	var n int64
	for _, s := range r.d.sales {
		if s.SellerID == sellerID {
			n++
		}
	}
	return n, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) actions() []domain.Action {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Action, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

var errStoreDown = errors.New("store unavailable")
