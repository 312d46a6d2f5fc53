package utils

import (
	"fmt"
	"time"

	"salonbook/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding tags to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return RegisterTags(v)
}

// RegisterTags installs isodate, hhmm and role on v.
func RegisterTags(v *validator.Validate) error {
	tags := map[string]validator.Func{
		"isodate": func(fl validator.FieldLevel) bool {
			value, ok := fl.Field().Interface().(string)
			if !ok {
				return false
			}
			_, err := time.Parse("2006-01-02", value)
			return err == nil
		},
		"hhmm": func(fl validator.FieldLevel) bool {
			value, ok := fl.Field().Interface().(string)
			if !ok || len(value) != 5 {
				return false
			}
			_, err := time.Parse("15:04", value)
			return err == nil
		},
		"role": func(fl validator.FieldLevel) bool {
			return models.Role(fl.Field().String()).Valid()
		},
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}
