package service

import (
	"context"
	"database/sql"
	"sort"
	"strconv"
	"sync"
	"time"

	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/repository"

	"go.uber.org/zap"
)

// memStore is an in-memory stand-in for the database shared by the mock
// repositories. Transactions are serialized and roll back by restoring a
// snapshot.
type memStore struct {
	mu         sync.Mutex
	txMu       sync.Mutex
	nextID     int64
	categories map[int64]domain.Category
	products   map[int64]domain.Product
	sales      []domain.Sale

	failSaleCreate error
}

func newMemStore() *memStore {
	return &memStore{
		categories: make(map[int64]domain.Category),
		products:   make(map[int64]domain.Product),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) snapshot() (map[int64]domain.Category, map[int64]domain.Product, []domain.Sale) {
	categories := make(map[int64]domain.Category, len(m.categories))
	for k, v := range m.categories {
		categories[k] = v
	}
	products := make(map[int64]domain.Product, len(m.products))
	for k, v := range m.products {
		products[k] = v
	}
	return categories, products, append([]domain.Sale(nil), m.sales...)
}

func (m *memStore) InTx(ctx context.Context, lockTimeout time.Duration, fn func(tx *sql.Tx) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	categories, products, sales := m.snapshot()
	m.mu.Unlock()

	if err := fn(nil); err != nil {
		m.mu.Lock()
		m.categories, m.products, m.sales = categories, products, sales
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) stock(id int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

func (m *memStore) saleCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sales)
}

type memCategoryRepo struct{ s *memStore }

func (r *memCategoryRepo) WithTx(tx *sql.Tx) repository.CategoryRepository { return r }

func (r *memCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Name == category.Name {
			return domain.NewValidationError("name", "a category with this name already exists")
		}
	}
	category.ID = r.s.id()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	r.s.categories[category.ID] = *category
	return nil
}

func (r *memCategoryRepo) Update(ctx context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[category.ID]; !ok {
		return domain.NewNotFoundError("category", category.ID)
	}
	category.UpdatedAt = time.Now()
	r.s.categories[category.ID] = *category
	return nil
}

func (r *memCategoryRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return domain.NewNotFoundError("category", id)
	}
	delete(r.s.categories, id)
	return nil
}

func (r *memCategoryRepo) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, domain.NewNotFoundError("category", id)
	}
	return &c, nil
}

func (r *memCategoryRepo) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	categories := []*domain.Category{}
	for _, c := range r.s.categories {
		categories = append(categories, &c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) WithTx(tx *sql.Tx) repository.ProductRepository { return r }

func (r *memProductRepo) Create(ctx context.Context, product *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[product.CategoryID]; !ok {
		return domain.NewValidationError("category_id", "category does not exist")
	}
	product.ID = r.s.id()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	r.s.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) Update(ctx context.Context, product *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; !ok {
		return domain.NewNotFoundError("product", product.ID)
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.NewNotFoundError("product", id)
	}
	delete(r.s.products, id)
	return nil
}

func (r *memProductRepo) DeleteByCategory(ctx context.Context, categoryID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var removed int64
	for id, p := range r.s.products {
		if p.CategoryID == categoryID {
			delete(r.s.products, id)
			removed++
		}
	}
	return removed, nil
}

func (r *memProductRepo) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, domain.NewNotFoundError("product", id)
	}
	return &p, nil
}

func (r *memProductRepo) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *memProductRepo) FindByNameInCategory(ctx context.Context, categoryID int64, name string) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.CategoryID == categoryID && p.Name == name {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) UpdateStock(ctx context.Context, id int64, stock int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.NewNotFoundError("product", id)
	}
	if stock < 0 {
		return domain.NewValidationError("stock", "must be a non-negative integer")
	}
	p.Stock = stock
	r.s.products[id] = p
	return nil
}

func (r *memProductRepo) List(ctx context.Context) ([]*domain.ProductListing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	listings := []*domain.ProductListing{}
	for _, p := range r.s.products {
		listings = append(listings, &domain.ProductListing{Product: p, CategoryName: r.s.categories[p.CategoryID].Name})
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].Name < listings[j].Name })
	return listings, nil
}

type memSaleRepo struct{ s *memStore }

func (r *memSaleRepo) WithTx(tx *sql.Tx) repository.SaleRepository { return r }

func (r *memSaleRepo) Create(ctx context.Context, sale *domain.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failSaleCreate != nil {
		return r.s.failSaleCreate
	}
	sale.ID = r.s.id()
	r.s.sales = append(r.s.sales, *sale)
	return nil
}

func (r *memSaleRepo) List(ctx context.Context) ([]*domain.SaleListing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	listings := []*domain.SaleListing{}
	for i := len(r.s.sales) - 1; i >= 0; i-- {
		sale := r.s.sales[i]
		name := repository.UnknownProductName
		if p, ok := r.s.products[sale.ProductID]; ok {
			name = p.Name
		}
		listings = append(listings, &domain.SaleListing{Sale: sale, ProductName: name})
	}
	return listings, nil
}

func (r *memSaleRepo) CountByProduct(ctx context.Context, productID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, sale := range r.s.sales {
		if sale.ProductID == productID {
			count++
		}
	}
	return count, nil
}

func (r *memSaleRepo) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, sale := range r.s.sales {
		if r.s.products[sale.ProductID].CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

// fixture wires every service over one memStore
type fixture struct {
	store      *memStore
	categories CategoryService
	products   ProductService
	sales      SaleService
}

func newFixture() *fixture {
	store := newMemStore()
	categoryRepo := &memCategoryRepo{s: store}
	productRepo := &memProductRepo{s: store}
	saleRepo := &memSaleRepo{s: store}
	logger := zap.NewNop()

	return &fixture{
		store:      store,
		categories: NewCategoryService(store, categoryRepo, productRepo, saleRepo, logger),
		products:   NewProductService(store, productRepo, categoryRepo, saleRepo, logger),
		sales:      NewSaleService(store, productRepo, saleRepo, time.Second, logger),
	}
}

// seedProduct creates a category and a product in it with the given price and stock
func (f *fixture) seedProduct(categoryName, productName, price string, stock int) (*domain.Category, *domain.Product) {
	ctx := context.Background()
	category, err := f.categories.Create(ctx, categoryName)
	if err != nil {
		panic(err)
	}
	product, err := f.products.Create(ctx, domain.ProductInput{
		Name:       productName,
		Price:      price,
		Stock:      strconv.Itoa(stock),
		CategoryID: category.ID,
	})
	if err != nil {
		panic(err)
	}
	return category, product
}
