package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/JS-Ranker/tester/pkg/metrics"
	"github.com/JS-Ranker/tester/pkg/rut"
)

// TagRUT is the binding tag that accepts any RUT display variant with a correct check digit.
const TagRUT = "rut"

var registerOnce sync.Once

// RegisterBindings installs the custom binding tags on gin's default validator.
// It is safe to call more than once.
func RegisterBindings() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		err = Register(v)
	})
	return err
}

// Register installs the custom tags on v and reports fields by their JSON name.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	return v.RegisterValidation(TagRUT, validateRUT)
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// validateRUT accepts exactly what rut.Parse accepts.
func validateRUT(fl validator.FieldLevel) bool {
	_, err := rut.Parse(fl.Field().String())
	valid := err == nil
	metrics.RecordRUTValidation("binding", valid)
	return valid
}

// FieldErrors flattens validator errors into field -> message pairs for the response envelope.
func FieldErrors(err error) map[string]string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}

	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Field()] = messageFor(fe)
	}
	return fields
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case TagRUT:
		return "must be a valid RUT (e.g. 12.345.678-5)"
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "eqfield":
		return "must match " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
