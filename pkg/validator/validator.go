package validator

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"go-warehouse-inventory/internal/ledger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	// Report JSON field names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})

	// Decimal comparisons against zero: dgt0 (> 0) and dgte0 (>= 0)
	validate.RegisterValidation("dgt0", func(fl validator.FieldLevel) bool {
		d, ok := decimalOf(fl.Field())
		return ok && d.IsPositive()
	})
	validate.RegisterValidation("dgte0", func(fl validator.FieldLevel) bool {
		d, ok := decimalOf(fl.Field())
		return ok && !d.IsNegative()
	})

	// dscale=N rejects decimals with more than N places
	validate.RegisterValidation("dscale", func(fl validator.FieldLevel) bool {
		places, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		d, ok := decimalOf(fl.Field())
		return ok && d.Equal(d.Truncate(int32(places)))
	})
}

func decimalOf(v reflect.Value) (decimal.Decimal, bool) {
	switch d := v.Interface().(type) {
	case decimal.Decimal:
		return d, true
	case *decimal.Decimal:
		if d == nil {
			return decimal.Zero, true
		}
		return *d, true
	case decimal.NullDecimal:
		if !d.Valid {
			return decimal.Zero, true
		}
		return d.Decimal, true
	}
	return decimal.Zero, false
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			var element ErrorResponse
			element.FailedField = fieldPath(err)
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// Validate runs the struct tags and converts failures into a field
// validation error; nil when the struct is valid.
func Validate(data interface{}) error {
	failures := ValidateStruct(data)
	if len(failures) == 0 {
		return nil
	}
	verr := &ledger.ValidationError{Kind: ledger.KindField}
	for _, f := range failures {
		verr.Add(f.FailedField, message(f))
	}
	return verr
}

// fieldPath drops the root struct name: "Req.stock_details[0].quantity" -> "stock_details[0].quantity".
func fieldPath(err validator.FieldError) string {
	ns := err.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(f *ErrorResponse) string {
	switch f.Tag {
	case "required", "uuid_required":
		return "This field is required."
	case "dgt0":
		return "Must be greater than zero."
	case "dgte0":
		return "Cannot be negative."
	case "dscale":
		return fmt.Sprintf("Ensure that there are no more than %s decimal places.", f.Value)
	case "min":
		return fmt.Sprintf("Must be at least %s characters long.", f.Value)
	case "max":
		return fmt.Sprintf("Must be at most %s characters long.", f.Value)
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", f.Value)
	case "email":
		return "Must be a valid email address."
	case "dive":
		return "Invalid item."
	default:
		return fmt.Sprintf("Failed on '%s' rule.", f.Tag)
	}
}
