package domain

// APIError is an RFC 7807 style problem body
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// ValidationMessages maps validator tags to messages shown next to form fields
var ValidationMessages = map[string]string{
	"required":      "This field is required",
	"email":         "Email is invalid",
	"max":           "Exceeds maximum length",
	"min":           "Below minimum length",
	"gte":           "Must be greater than or equal to minimum value",
	"lte":           "Must be less than or equal to maximum value",
	"oneof":         "Must be one of the allowed values",
	"datetime":      "Must be a date in YYYY-MM-DD format",
	"contactname":   "Contact name contains invalid characters",
	"contactnumber": "Contact number may only contain digits and hyphens",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}

// Problem types
const (
	ErrorTypeValidation   = "validation_error"
	ErrorTypeNotFound     = "not_found"
	ErrorTypeBadRequest   = "bad_request"
	ErrorTypeConflict     = "conflict"
	ErrorTypeUnauthorized = "unauthorized"
	ErrorTypeForbidden    = "forbidden"
	ErrorTypeInternal     = "internal_error"
)
