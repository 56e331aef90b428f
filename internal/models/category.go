package models

// Category is the closed set of product categories. The constant value is the wire and
// storage form.
type Category string

const (
	CategoryUnknown    Category = "UNKNOWN"
	CategoryCloths     Category = "CLOTHS"
	CategoryFood       Category = "FOOD"
	CategoryHousewares Category = "HOUSEWARES"
	CategoryAutomotive Category = "AUTOMOTIVE"
	CategoryTools      Category = "TOOLS"
)

var categories = []Category{
	CategoryUnknown,
	CategoryCloths,
	CategoryFood,
	CategoryHousewares,
	CategoryAutomotive,
	CategoryTools,
}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory resolves a category by its exact name.
func ParseCategory(name string) (Category, error) {
	for _, c := range categories {
		if string(c) == name {
			return c, nil
		}
	}
	return CategoryUnknown, &DataValidationError{
		Kind:    KindUnknownCategory,
		Field:   "category",
		Message: "invalid category: " + name,
	}
}

// Valid reports whether c is a member of the enumeration.
func (c Category) Valid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

func (c Category) String() string {
	return string(c)
}
