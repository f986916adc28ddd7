package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Cada sentinel es un "kind":
// los casos de uso envuelven con contexto vía los helpers y la capa HTTP
// decide el status con errors.Is.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrValidation   = errors.New("entrada inválida")
	ErrStock        = errors.New("stock insuficiente")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrUnauthorized = errors.New("no autorizado")
	ErrDuplicate    = errors.New("recurso duplicado")
)

// NotFoundf envuelve ErrNotFound con el nombre de la entidad/id faltante.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Validationf envuelve ErrValidation con el detalle de la regla violada.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Stockf envuelve ErrStock nombrando el producto y la cantidad disponible.
func Stockf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStock, fmt.Sprintf(format, args...))
}

// Conflictf envuelve ErrConflict (violación de regla de negocio general).
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Unauthorizedf envuelve ErrUnauthorized (credenciales o permisos).
func Unauthorizedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, fmt.Sprintf(format, args...))
}

// Duplicatef envuelve ErrDuplicate (unicidad: barcode, username, etc.).
func Duplicatef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDuplicate, fmt.Sprintf(format, args...))
}
