package services

import (
	"context"
	"log"

	"catalog/internal/models"
	"catalog/internal/repositories"
)

// Product event types.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// EventPublisher receives product lifecycle events.
type EventPublisher interface {
	PublishProductEvent(eventType string, productID uint, product map[string]interface{}) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
	}
}

// CreateProduct validates the decoded request body and persists a new product.
func (s *ProductService) CreateProduct(ctx context.Context, data interface{}) (*models.Product, error) {
	var product models.Product
	if _, err := product.Deserialize(data); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &product); err != nil {
		return nil, err
	}
	s.publish(EventProductCreated, &product)
	return &product, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// ListProducts retrieves the products matching filter.
func (s *ProductService) ListProducts(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, error) {
	return s.repo.Find(ctx, filter)
}

// UpdateProduct replaces the fields of an existing product with the decoded request body.
// A missing product is reported before the body is validated.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, data interface{}) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := product.Deserialize(data); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.publish(EventProductUpdated, product)
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, product); err != nil {
		return err
	}
	s.publish(EventProductDeleted, product)
	return nil
}

// publish never fails the request: the store is the source of truth.
func (s *ProductService) publish(eventType string, product *models.Product) {
	if s.publisher == nil {
		return
	}
	var payload map[string]interface{}
	if eventType != EventProductDeleted {
		payload = product.Serialize()
	}
	if err := s.publisher.PublishProductEvent(eventType, product.ID, payload); err != nil {
		log.Printf("Failed to publish %s event for product %d: %v", eventType, product.ID, err)
	}
}
