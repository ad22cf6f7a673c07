package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrPersistence  = errors.New("error de persistencia")
	ErrDuplicate    = errors.New("el recurso ya existe")
)

// ValidationError describe una entrada mal formada: fecha, tipo de filtro, modelo
// o campo de reporte no permitido. Siempre nombra el valor ofensivo.
// errors.Is(err, ErrInvalidInput) es verdadero para cualquier ValidationError.
type ValidationError struct {
	Field  string // parámetro o ruta afectada (ej. "date_start", "filters[0].type")
	Value  string // valor recibido
	Reason string
}

// NewValidationError construye el error.
func NewValidationError(field, value, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s '%s': %s", e.Field, e.Value, e.Reason)
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
