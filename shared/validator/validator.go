package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"airpark/shared/constant"
	"airpark/shared/failure"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

// SelfValidator is implemented by requests with rules spanning several fields.
type SelfValidator interface {
	Validate() error
}

func layoutValidation(layout string) val.Func {
	return func(fl val.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}

		parsed, err := time.Parse(layout, value)

		return err == nil && parsed.Format(layout) == value
	}
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})

	if err := validate.RegisterValidation("date", layoutValidation(constant.DateFormat)); err != nil {
		panic(err)
	}

	if err := validate.RegisterValidation("clock", layoutValidation(constant.ClockFormat)); err != nil {
		panic(err)
	}
}

// Validate decodes r as JSON into data and validates the result.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err))
	}

	return ValidateStruct(data)
}

// ValidateStruct runs the tag rules, then Validate() when data implements SelfValidator.
func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err))
	}

	if self, ok := any(data).(SelfValidator); ok {
		if err := self.Validate(); err != nil {
			return failure.BadRequest(err)
		}
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err))
	}

	return nil
}
