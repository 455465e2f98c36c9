package rest

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// NewValidator returns a validator that understands product enums and decimal prices.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("product_size", isMember)
	_ = v.RegisterValidation("product_color", isMember)
	_ = v.RegisterValidation("nonnegative", isNonNegativeDecimal)
	return v
}

// isMember accepts values of a closed enumeration.
func isMember(fl validator.FieldLevel) bool {
	member, ok := fl.Field().Interface().(interface{ IsValid() bool })
	return ok && member.IsValid()
}

// isNonNegativeDecimal compares the exact decimal sign, so tiny negatives are not lost to float rounding.
func isNonNegativeDecimal(fl validator.FieldLevel) bool {
	switch d := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return !d.IsNegative()
	case *decimal.Decimal:
		return d == nil || !d.IsNegative()
	default:
		return false
	}
}
