package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"

	"catalog/internal/middleware"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service           *services.ProductService
	listEmptyNotFound bool
}

// NewProductHandler creates a new ProductHandler. When listEmptyNotFound is set, an
// unfiltered listing of an empty catalog answers 404 instead of an empty array.
func NewProductHandler(service *services.ProductService, listEmptyNotFound bool) *ProductHandler {
	return &ProductHandler{
		service:           service,
		listEmptyNotFound: listEmptyNotFound,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	jsonOnly := middleware.RequireContentType(fiber.MIMEApplicationJSON)

	productRoutes := router.Group("/products")
	productRoutes.Post("/", jsonOnly, h.HandleCreateProduct)
	productRoutes.Get("/", h.HandleListProducts)
	// registered before /:id so "name" is not parsed as an id
	productRoutes.Get("/name", h.HandleListProductsByName)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Put("/:id", jsonOnly, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleCreateProduct creates a new product from the JSON body.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	log.Println("Request to Create a Product...")
	data, err := decodeBody(c)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	product, err := h.service.CreateProduct(c.UserContext(), data)
	if err != nil {
		return h.handleError(c, err, "create product")
	}
	log.Printf("Product with new id [%d] saved!", product.ID)

	c.Set(fiber.HeaderLocation, productURL(c, product.ID))
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleListProducts lists products, optionally filtered by the name, category and
// available query parameters.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return h.handleError(c, err, "list products")
	}

	products, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return h.handleError(c, err, "list products")
	}

	if filter.IsEmpty() && len(products) == 0 && h.listEmptyNotFound {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "No products found")
	}

	log.Printf("Number of products: [%d]", len(products))
	return c.JSON(products)
}

// HandleListProductsByName lists products whose name equals the name query parameter, or
// every product when it is omitted.
func (h *ProductHandler) HandleListProductsByName(c *fiber.Ctx) error {
	var filter repositories.ProductFilter
	if name := c.Query("name"); name != "" {
		filter.Name = &name
	}

	products, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return h.handleError(c, err, "list products")
	}
	return c.JSON(products)
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}

	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err, "retrieve product")
	}

	c.Set(fiber.HeaderLocation, productURL(c, product.ID))
	return c.JSON(product)
}

// HandleUpdateProduct replaces an existing product with the JSON body.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	log.Printf("Request to Update a product with id [%s]", c.Params("id"))
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}

	// A malformed body decodes to nil and is rejected after the product lookup, so an
	// unknown id still answers 404.
	data, _ := decodeBody(c)

	product, err := h.service.UpdateProduct(c.UserContext(), id, data)
	if err != nil {
		return h.handleError(c, err, "update product")
	}

	c.Set(fiber.HeaderLocation, productURL(c, product.ID))
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	log.Printf("Request to Delete a product with id [%s]", c.Params("id"))
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}

	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return h.handleError(c, err, "delete product")
	}

	c.Set(fiber.HeaderLocation, productURL(c, id))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProductHandler) handleError(c *fiber.Ctx, err error, action string) error {
	var validationErr *models.DataValidationError
	switch {
	case errors.As(err, &validationErr):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, validationErr.Error())
	case errors.Is(err, repositories.ErrNotFound):
		return notFound(c)
	default:
		log.Printf("Error trying to %s: %v", action, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Could not "+action)
	}
}

func notFound(c *fiber.Ctx) error {
	return middleware.ErrorResponse(c, fiber.StatusNotFound,
		fmt.Sprintf("Product with id '%s' was not found.", c.Params("id")))
}

func parseID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 0)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func parseFilter(c *fiber.Ctx) (repositories.ProductFilter, error) {
	var filter repositories.ProductFilter

	if name := c.Query("name"); name != "" {
		filter.Name = &name
	}

	if raw := c.Query("category"); raw != "" {
		category, err := models.ParseCategory(raw)
		if err != nil {
			return filter, err
		}
		filter.Category = &category
	}

	if raw := c.Query("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, &models.DataValidationError{
				Kind:    models.KindInvalidType,
				Field:   "available",
				Message: fmt.Sprintf("expected true or false, got %q", raw),
			}
		}
		filter.Available = &available
	}

	return filter, nil
}

// decodeBody keeps numbers as json.Number so prices are parsed without float rounding.
func decodeBody(c *fiber.Ctx) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.UseNumber()

	var data interface{}
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after the JSON value")
	}
	return data, nil
}

func productURL(c *fiber.Ctx, id uint) string {
	return fmt.Sprintf("%s/products/%d", c.BaseURL(), id)
}
