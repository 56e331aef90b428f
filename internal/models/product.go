package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var requiredFields = []string{"name", "price", "available", "category"}

// Product represents a product in the catalog.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"type:varchar(100);not null;index" validate:"required,max=100"`
	Description string          `json:"description" gorm:"type:varchar(250)" validate:"max=250"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(14,2);not null" validate:"gte=0"`
	Available   bool            `json:"available" gorm:"not null"`
	Category    Category        `json:"category" gorm:"type:varchar(50);not null;index" validate:"required,category"`
}

// TableName overrides the table name used by GORM.
func (Product) TableName() string {
	return "products"
}

func (p Product) String() string {
	id := "None"
	if p.ID != 0 {
		id = strconv.FormatUint(uint64(p.ID), 10)
	}
	return fmt.Sprintf("<Product %s id=[%s]>", p.Name, id)
}

// Serialize converts the product into a JSON-safe map. Price is rendered with two fixed
// decimals and the id is nil until the product has been persisted.
func (p Product) Serialize() map[string]interface{} {
	var id interface{}
	if p.ID != 0 {
		id = p.ID
	}
	return map[string]interface{}{
		"id":          id,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price.StringFixed(2),
		"available":   p.Available,
		"category":    p.Category.String(),
	}
}

// MarshalJSON renders the same shape as Serialize.
func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Serialize())
}

// Deserialize populates the product from a decoded JSON object. The receiver is only
// modified when every field is valid. The id is owned by the store and never read from data.
func (p *Product) Deserialize(data interface{}) (*Product, error) {
	m, ok := data.(map[string]interface{})
	if !ok {
		return nil, &DataValidationError{
			Kind:    KindNotAMapping,
			Message: fmt.Sprintf("body of request contained bad or no data (%T)", data),
		}
	}

	for _, field := range requiredFields {
		if _, ok := m[field]; !ok {
			return nil, missingField(field)
		}
	}

	name, ok := m["name"].(string)
	if !ok {
		return nil, invalidType("name", "string", m["name"])
	}

	var description string
	if raw, ok := m["description"]; ok && raw != nil {
		description, ok = raw.(string)
		if !ok {
			return nil, invalidType("description", "string", raw)
		}
	}

	price, err := parsePrice(m["price"])
	if err != nil {
		return nil, err
	}

	available, ok := m["available"].(bool)
	if !ok {
		return nil, invalidType("available", "boolean", m["available"])
	}

	categoryName, ok := m["category"].(string)
	if !ok {
		return nil, invalidType("category", "string", m["category"])
	}
	category, err := ParseCategory(categoryName)
	if err != nil {
		return nil, err
	}

	candidate := Product{
		ID:          p.ID,
		Name:        name,
		Description: description,
		Price:       price,
		Available:   available,
		Category:    category,
	}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	*p = candidate
	return p, nil
}

// Validate checks the field constraints of a fully-formed product.
func (p *Product) Validate() error {
	if err := validateStruct(p); err != nil {
		return err
	}
	if !p.Price.Equal(p.Price.Round(2)) {
		return &DataValidationError{
			Kind:    KindInvalidValue,
			Field:   "price",
			Message: "at most two decimal places are allowed",
		}
	}
	return nil
}

func parsePrice(raw interface{}) (decimal.Decimal, error) {
	var (
		d   decimal.Decimal
		err error
	)
	switch v := raw.(type) {
	case json.Number:
		d, err = decimal.NewFromString(v.String())
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		d = decimal.NewFromFloat(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case decimal.Decimal:
		d = v
	default:
		return decimal.Zero, invalidType("price", "decimal number", raw)
	}
	if err != nil {
		return decimal.Zero, &DataValidationError{
			Kind:    KindInvalidType,
			Field:   "price",
			Message: fmt.Sprintf("%v is not a decimal number", raw),
		}
	}
	return d, nil
}
