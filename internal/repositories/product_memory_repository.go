package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"catalog/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uint]models.Product),
	}
}

// Create adds a new product and assigns the next id. Ids are never reused.
func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	product.ID = r.nextID
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MemoryProductRepository) Update(_ context.Context, product *models.Product) error {
	if product.ID == 0 {
		return errMissingID()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product with ID %d not found for update: %w", product.ID, ErrNotFound)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product. Missing products are ignored.
func (r *MemoryProductRepository) Delete(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.products, product.ID)
	return nil
}

// FindByID returns a copy of the product with the given id.
func (r *MemoryProductRepository) FindByID(_ context.Context, id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
	}
	return &product, nil
}

func (r *MemoryProductRepository) All(ctx context.Context) ([]models.Product, error) {
	return r.Find(ctx, ProductFilter{})
}

func (r *MemoryProductRepository) FindByName(ctx context.Context, name string) ([]models.Product, error) {
	return r.Find(ctx, ProductFilter{Name: &name})
}

func (r *MemoryProductRepository) FindByAvailability(ctx context.Context, available bool) ([]models.Product, error) {
	return r.Find(ctx, ProductFilter{Available: &available})
}

func (r *MemoryProductRepository) FindByCategory(ctx context.Context, category models.Category) ([]models.Product, error) {
	return r.Find(ctx, ProductFilter{Category: &category})
}

// Find returns the matching products ordered by id.
func (r *MemoryProductRepository) Find(_ context.Context, filter ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.matches(p) {
			productList = append(productList, p)
		}
	}
	sort.Slice(productList, func(i, j int) bool {
		return productList[i].ID < productList[j].ID
	})
	return productList, nil
}
