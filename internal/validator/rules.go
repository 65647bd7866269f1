package validator

import (
	"regexp"
	"time"

	"clubreg_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

var zipPattern = regexp.MustCompile(`^\d{5}$`)

func registerCustomRules(v *validator.Validate) error {
	if err := v.RegisterValidation("zipcode", validateZip); err != nil {
		return err
	}
	if err := v.RegisterValidation("pastdate", validatePastDate); err != nil {
		return err
	}
	if err := v.RegisterValidation("paymenttype", validatePaymentType); err != nil {
		return err
	}
	return nil
}

func validateZip(fl validator.FieldLevel) bool {
	return zipPattern.MatchString(fl.Field().String())
}

// validatePastDate accepts time.Time fields and "2006-01-02" strings.
func validatePastDate(fl validator.FieldLevel) bool {
	if t, ok := fl.Field().Interface().(time.Time); ok {
		return t.Before(time.Now())
	}

	t, err := time.Parse("2006-01-02", fl.Field().String())
	if err != nil {
		return false
	}
	return t.Before(time.Now())
}

func validatePaymentType(fl validator.FieldLevel) bool {
	return models.PaymentType(fl.Field().String()).Valid()
}
