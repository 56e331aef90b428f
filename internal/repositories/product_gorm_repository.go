package repositories

import (
	"context"
	"errors"
	"fmt"

	"catalog/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Create inserts the product and stores the generated id on it.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = 0
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites every mutable column of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	if product.ID == 0 {
		return errMissingID()
	}
	// Select forces zero values (available=false, empty description) into the UPDATE.
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select("name", "description", "price", "available", "category").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d not found for update: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete removes the product row. Deleting a missing row is not an error.
func (r *GORMProductRepository) Delete(ctx context.Context, product *models.Product) error {
	if product.ID == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Delete(&models.Product{}, product.ID).Error; err != nil {
		return fmt.Errorf("failed to delete product %d: %w", product.ID, err)
	}
	return nil
}

// FindByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// All retrieves all products ordered by id.
func (r *GORMProductRepository) All(ctx context.Context) ([]models.Product, error) {
	return r.Find(ctx, ProductFilter{})
}

func (r *GORMProductRepository) FindByName(ctx context.Context, name string) ([]models.Product, error) {
	return r.Find(ctx, ProductFilter{Name: &name})
}

func (r *GORMProductRepository) FindByAvailability(ctx context.Context, available bool) ([]models.Product, error) {
	return r.Find(ctx, ProductFilter{Available: &available})
}

func (r *GORMProductRepository) FindByCategory(ctx context.Context, category models.Category) ([]models.Product, error) {
	return r.Find(ctx, ProductFilter{Category: &category})
}

// Find retrieves the products matching every predicate set on the filter.
func (r *GORMProductRepository) Find(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.Name != nil {
		q = q.Where("name = ?", *filter.Name)
	}
	if filter.Category != nil {
		q = q.Where("category = ?", *filter.Category)
	}
	if filter.Available != nil {
		q = q.Where("available = ?", *filter.Available)
	}

	products := []models.Product{}
	if err := q.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return products, nil
}
