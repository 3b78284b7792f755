package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func newValidator() *inputValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// A zero amount counts as missing, the same as an absent one.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if amount, ok := field.Interface().(decimal.Decimal); ok {
			return amount.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	return &inputValidator{v}
}

type inputValidator struct {
	*validator.Validate
}

// newTransaction trims the text fields and reports every missing or invalid
// one at once.
func (v *inputValidator) newTransaction(input NewTransaction) (NewTransaction, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.Title = strings.TrimSpace(input.Title)
	input.Category = strings.TrimSpace(input.Category)

	validationErr := &ValidationError{}
	if err := v.Struct(input); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return input, err
		}
		for _, fieldErr := range fieldErrors {
			if fieldErr.Tag() == "required" {
				validationErr.Fields = append(validationErr.Fields, fieldErr.Field())
			} else {
				validationErr.Invalid = append(validationErr.Invalid, fieldErr.Field())
			}
		}
	}

	if input.Amount.Round(2).Abs().GreaterThanOrEqual(MaxAmount) {
		validationErr.Invalid = append(validationErr.Invalid, "amount")
	}

	if len(validationErr.Fields) == 0 && len(validationErr.Invalid) == 0 {
		return input, nil
	}
	return input, validationErr
}
