package models_test

import (
	"encoding/json"
	"errors"
	"testing"

	"catalog/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fedora() models.Product {
	return models.Product{
		Name:        "Fedora",
		Description: "A red hat",
		Price:       decimal.RequireFromString("12.50"),
		Available:   true,
		Category:    models.CategoryCloths,
	}
}

func assertKind(t *testing.T, err error, kind models.ErrorKind) {
	t.Helper()
	var verr *models.DataValidationError
	require.True(t, errors.As(err, &verr), "expected DataValidationError, got %v", err)
	assert.Equal(t, kind, verr.Kind)
}

func TestProduct_String(t *testing.T) {
	p := fedora()
	assert.Equal(t, "<Product Fedora id=[None]>", p.String())
	p.ID = 7
	assert.Equal(t, "<Product Fedora id=[7]>", p.String())
}

func TestProduct_Serialize(t *testing.T) {
	p := fedora()
	data := p.Serialize()
	assert.Nil(t, data["id"])
	assert.Equal(t, "Fedora", data["name"])
	assert.Equal(t, "A red hat", data["description"])
	assert.Equal(t, "12.50", data["price"])
	assert.Equal(t, true, data["available"])
	assert.Equal(t, "CLOTHS", data["category"])

	p.ID = 3
	assert.Equal(t, uint(3), p.Serialize()["id"])
}

func TestProduct_MarshalJSON(t *testing.T) {
	p := fedora()
	p.ID = 42
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":42,"name":"Fedora","description":"A red hat","price":"12.50","available":true,"category":"CLOTHS"}`, string(raw))
}

func TestProduct_DeserializeRoundTrip(t *testing.T) {
	for _, category := range models.Categories() {
		original := fedora()
		original.Category = category
		original.Available = category == models.CategoryFood

		var p models.Product
		got, err := p.Deserialize(original.Serialize())
		require.NoError(t, err)
		assert.Same(t, &p, got)
		assert.Equal(t, original.Name, p.Name)
		assert.Equal(t, original.Description, p.Description)
		assert.True(t, original.Price.Equal(p.Price))
		assert.Equal(t, original.Available, p.Available)
		assert.Equal(t, original.Category, p.Category)
	}
}

func TestProduct_DeserializeFromJSONBody(t *testing.T) {
	var data interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Hammer","price":9.99,"available":false,"category":"TOOLS"}`), &data))

	var p models.Product
	_, err := p.Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, "Hammer", p.Name)
	assert.Equal(t, "", p.Description)
	assert.Equal(t, "9.99", p.Price.StringFixed(2))
	assert.False(t, p.Available)
	assert.Equal(t, models.CategoryTools, p.Category)
}

func TestProduct_DeserializeKeepsID(t *testing.T) {
	p := fedora()
	p.ID = 5
	data := p.Serialize()
	data["id"] = float64(99)
	data["description"] = "unknown"

	_, err := p.Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, uint(5), p.ID)
	assert.Equal(t, "unknown", p.Description)
}

func TestProduct_DeserializeErrors(t *testing.T) {
	base := fedora()

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
		kind   models.ErrorKind
		field  string
	}{
		{"missing price", func(m map[string]interface{}) { delete(m, "price") }, models.KindMissingField, "price"},
		{"missing name", func(m map[string]interface{}) { delete(m, "name") }, models.KindMissingField, "name"},
		{"missing available", func(m map[string]interface{}) { delete(m, "available") }, models.KindMissingField, "available"},
		{"missing category", func(m map[string]interface{}) { delete(m, "category") }, models.KindMissingField, "category"},
		{"unknown category", func(m map[string]interface{}) { m["category"] = "MACHINE" }, models.KindUnknownCategory, "category"},
		{"lowercase category", func(m map[string]interface{}) { m["category"] = "cloths" }, models.KindUnknownCategory, "category"},
		{"string availability", func(m map[string]interface{}) { m["available"] = "SUPERPOSITION" }, models.KindInvalidType, "available"},
		{"numeric availability", func(m map[string]interface{}) { m["available"] = float64(1) }, models.KindInvalidType, "available"},
		{"numeric name", func(m map[string]interface{}) { m["name"] = float64(1) }, models.KindInvalidType, "name"},
		{"bad price", func(m map[string]interface{}) { m["price"] = "twelve" }, models.KindInvalidType, "price"},
		{"boolean price", func(m map[string]interface{}) { m["price"] = true }, models.KindInvalidType, "price"},
		{"negative price", func(m map[string]interface{}) { m["price"] = "-1.00" }, models.KindInvalidValue, "price"},
		{"fractional cents", func(m map[string]interface{}) { m["price"] = "1.005" }, models.KindInvalidValue, "price"},
		{"empty name", func(m map[string]interface{}) { m["name"] = "" }, models.KindInvalidValue, "name"},
		{"numeric description", func(m map[string]interface{}) { m["description"] = float64(3) }, models.KindInvalidType, "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := base.Serialize()
			tt.mutate(data)

			p := fedora()
			got, err := p.Deserialize(data)
			assert.Nil(t, got)
			assertKind(t, err, tt.kind)

			var verr *models.DataValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, fedora(), p, "receiver must be untouched on failure")
		})
	}
}

func TestProduct_DeserializeNotAMapping(t *testing.T) {
	p := fedora()
	_, err := p.Deserialize(p)
	assertKind(t, err, models.KindNotAMapping)

	_, err = p.Deserialize(nil)
	assertKind(t, err, models.KindNotAMapping)

	_, err = p.Deserialize([]interface{}{"Fedora"})
	assertKind(t, err, models.KindNotAMapping)
}

func TestProduct_DeserializeNullDescription(t *testing.T) {
	data := fedora().Serialize()
	data["description"] = nil

	var p models.Product
	_, err := p.Deserialize(data)
	require.NoError(t, err)
	assert.Empty(t, p.Description)
}

func TestParseCategory(t *testing.T) {
	c, err := models.ParseCategory("FOOD")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryFood, c)

	c, err = models.ParseCategory("MACHINE")
	assert.Equal(t, models.CategoryUnknown, c)
	assertKind(t, err, models.KindUnknownCategory)

	assert.True(t, models.CategoryAutomotive.Valid())
	assert.False(t, models.Category("").Valid())
	assert.Len(t, models.Categories(), 6)
}

func TestDataValidationError_Error(t *testing.T) {
	err := &models.DataValidationError{Kind: models.KindMissingField, Field: "price", Message: "missing price"}
	assert.Equal(t, "invalid product field 'price': missing price", err.Error())

	err = &models.DataValidationError{Kind: models.KindMissingID, Message: "update called with empty id"}
	assert.Equal(t, "invalid product: update called with empty id", err.Error())
	assert.Equal(t, "missing_id", models.KindMissingID.String())
}
