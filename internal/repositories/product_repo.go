package repositories

import (
	"context"
	"errors"

	"catalog/internal/models"
)

// ErrNotFound is returned when no product matches the requested id.
var ErrNotFound = errors.New("product not found")

// ProductFilter narrows a product listing. Nil fields are not applied; set fields are
// combined with AND.
type ProductFilter struct {
	Name      *string
	Category  *models.Category
	Available *bool
}

// IsEmpty reports whether no predicate is set.
func (f ProductFilter) IsEmpty() bool {
	return f.Name == nil && f.Category == nil && f.Available == nil
}

func (f ProductFilter) matches(p models.Product) bool {
	if f.Name != nil && p.Name != *f.Name {
		return false
	}
	if f.Category != nil && p.Category != *f.Category {
		return false
	}
	if f.Available != nil && p.Available != *f.Available {
		return false
	}
	return true
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	All(ctx context.Context) ([]models.Product, error)
	FindByName(ctx context.Context, name string) ([]models.Product, error)
	FindByAvailability(ctx context.Context, available bool) ([]models.Product, error)
	FindByCategory(ctx context.Context, category models.Category) ([]models.Product, error)
	Find(ctx context.Context, filter ProductFilter) ([]models.Product, error)
}

func errMissingID() error {
	return &models.DataValidationError{
		Kind:    models.KindMissingID,
		Field:   "id",
		Message: "update called with empty id",
	}
}
