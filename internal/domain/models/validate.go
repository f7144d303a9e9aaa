package models

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"busops/internal/domain"
	"busops/internal/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := utils.ParseClock(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks a record against its struct tags and reports the first
// failing field as a domain.ValidationError.
func Validate(rec any) error {
	err := validate.Struct(rec)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return domain.ValidationError{Field: fe.Field(), Msg: describe(fe), Err: err}
	}
	return domain.ValidationError{Msg: "invalid record", Err: err}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be >= " + fe.Param()
	case "datetime":
		return "must use format YYYY-MM-DD"
	case "clock":
		return "must use format HH:MM"
	case "email":
		return "must be a valid email"
	default:
		return "is invalid"
	}
}
