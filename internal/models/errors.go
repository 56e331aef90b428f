package models

import "fmt"

// ErrorKind classifies a DataValidationError.
type ErrorKind int

const (
	KindNotAMapping ErrorKind = iota + 1
	KindMissingField
	KindInvalidType
	KindUnknownCategory
	KindInvalidValue
	KindMissingID
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotAMapping:
		return "not_a_mapping"
	case KindMissingField:
		return "missing_field"
	case KindInvalidType:
		return "invalid_type"
	case KindUnknownCategory:
		return "unknown_category"
	case KindInvalidValue:
		return "invalid_value"
	case KindMissingID:
		return "missing_id"
	default:
		return "unknown"
	}
}

// DataValidationError is returned when product data is malformed or an operation is
// invoked on an entity in the wrong state.
type DataValidationError struct {
	Kind    ErrorKind
	Field   string
	Message string
}

func (e *DataValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid product: %s", e.Message)
	}
	return fmt.Sprintf("invalid product field '%s': %s", e.Field, e.Message)
}

func missingField(field string) *DataValidationError {
	return &DataValidationError{
		Kind:    KindMissingField,
		Field:   field,
		Message: "missing " + field,
	}
}

func invalidType(field, want string, got interface{}) *DataValidationError {
	return &DataValidationError{
		Kind:    KindInvalidType,
		Field:   field,
		Message: fmt.Sprintf("expected %s, got %T", want, got),
	}
}
