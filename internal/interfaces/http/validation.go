package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/inventario-osv/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores nombran el campo como lo ve el cliente (json o query).
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// validateStruct aplica las etiquetas validate de los DTO y devuelve el primer
// fallo como domain.ValidationError.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	fe := fieldErrs[0]
	return domain.NewValidationError(fe.Field(), fmt.Sprint(fe.Value()), reason(fe))
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "email inválido"
	case "min":
		return "debe ser al menos " + fe.Param()
	case "max":
		return "debe ser como máximo " + fe.Param()
	default:
		return "no cumple " + fe.Tag()
	}
}
