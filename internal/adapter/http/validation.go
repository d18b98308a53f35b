package http

import (
	"regexp"

	covenantDomain "coven-backend/internal/domain/covenant"
	timelineDomain "coven-backend/internal/domain/timeline"

	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

// resource id = short prefix + underscore + 8-char lowercase hex
var reResourceID = regexp.MustCompile(`^[a-z]+_[a-f0-9]{8}$`)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("resourceid", func(fl validator.FieldLevel) bool {
		return reResourceID.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("covtype", func(fl validator.FieldLevel) bool {
		return covenantDomain.ValidType(covenantDomain.Type(fl.Field().String()))
	})
	_ = v.RegisterValidation("covstatus", func(fl validator.FieldLevel) bool {
		return covenantDomain.ValidStatus(covenantDomain.ComplianceStatus(fl.Field().String()))
	})
	_ = v.RegisterValidation("eventtype", func(fl validator.FieldLevel) bool {
		return timelineDomain.ValidEventType(timelineDomain.EventType(fl.Field().String()))
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "resourceid":
			out = append(out, FieldError{Field: field, Message: "must be a valid resource id"})
		case "covtype":
			out = append(out, FieldError{Field: field, Message: "must be one of Financial, Reporting, Affirmative, Negative"})
		case "covstatus":
			out = append(out, FieldError{Field: field, Message: "must be one of Compliant, At Risk, Breached, Upcoming, Waived"})
		case "eventtype":
			out = append(out, FieldError{Field: field, Message: "must be a recognized event type"})
		case "datetime":
			out = append(out, FieldError{Field: field, Message: "must be a date in YYYY-MM-DD format"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		case "gt":
			out = append(out, FieldError{Field: field, Message: "must be greater than " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
