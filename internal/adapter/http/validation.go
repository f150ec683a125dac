package http

import (
	"math"
	"regexp"

	"github.com/go-playground/validator/v10"

	"lendcore/internal/domain/terms"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

var (
	reRouting = regexp.MustCompile(`^\d{9}$`)
	reAccount = regexp.MustCompile(`^\d{4,20}$`)
)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// ABA routing number = exactly 9 digits
	_ = v.RegisterValidation("routing9", func(fl validator.FieldLevel) bool {
		return reRouting.MatchString(fl.Field().String())
	})
	// account number = 4-20 digits
	_ = v.RegisterValidation("acctnum", func(fl validator.FieldLevel) bool {
		return reAccount.MatchString(fl.Field().String())
	})
	// recognized repayment frequency
	_ = v.RegisterValidation("freq", func(fl validator.FieldLevel) bool {
		return terms.Frequency(fl.Field().String()).Valid()
	})
	// max 2 decimal places
	_ = v.RegisterValidation("dec2", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return math.Abs(f-(math.Round(f*100)/100)) < 1e-9
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
		case "routing9":
			out = append(out, FieldError{Field: field, Message: "must be exactly 9 digits"})
		case "acctnum":
			out = append(out, FieldError{Field: field, Message: "must be 4-20 digits"})
		case "freq":
			out = append(out, FieldError{Field: field, Message: "must be a recognized payment frequency"})
		case "dec2":
			out = append(out, FieldError{Field: field, Message: "must have at most 2 decimal places"})
		case "oneof":
			out = append(out, FieldError{Field: field, Message: "must be one of: " + e.Param()})
		case "email":
			out = append(out, FieldError{Field: field, Message: "must be a valid email address"})
		case "datetime":
			out = append(out, FieldError{Field: field, Message: "must be a date in YYYY-MM-DD format"})
		case "gt":
			out = append(out, FieldError{Field: field, Message: "must be greater than " + e.Param()})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		case "max":
			out = append(out, FieldError{Field: field, Message: "must have at most " + e.Param() + " items"})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
