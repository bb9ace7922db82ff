package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
	ErrConflict      = errors.New("conflicto con el estado actual")
	ErrSchemaMissing = errors.New("tabla inexistente en el esquema")
)

// Kind clasifica un rechazo de negocio.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindForbidden  Kind = "FORBIDDEN"
)

// Rejection es el error tipado que cruza la frontera de los casos de uso.
// Lleva el campo, el código o la transición involucrada para que el cliente pueda
// mostrar un mensaje concreto.
type Rejection struct {
	Kind    Kind
	Message string
	Field   string
	Details map[string]any
}

func (r *Rejection) Error() string {
	if r.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", r.Kind, r.Message, r.Field)
	}
	return fmt.Sprintf("%s: %s", r.Kind, r.Message)
}

// Unwrap permite errors.Is contra los sentinelas del dominio.
func (r *Rejection) Unwrap() error {
	switch r.Kind {
	case KindValidation:
		return ErrInvalidInput
	case KindNotFound:
		return ErrNotFound
	case KindConflict:
		return ErrConflict
	case KindForbidden:
		return ErrForbidden
	}
	return nil
}

// With agrega un detalle y devuelve el mismo rechazo.
func (r *Rejection) With(key string, value any) *Rejection {
	if r.Details == nil {
		r.Details = make(map[string]any)
	}
	r.Details[key] = value
	return r
}

// Validation construye un rechazo por entrada inválida en un campo.
func Validation(field, message string) *Rejection {
	return &Rejection{Kind: KindValidation, Field: field, Message: message}
}

// NotFound construye un rechazo por recurso inexistente.
func NotFound(resource, key string) *Rejection {
	r := &Rejection{Kind: KindNotFound, Message: resource + " no encontrado"}
	return r.With(resource, key)
}

// Conflict construye un rechazo por conflicto (código duplicado, identificador repetido).
func Conflict(message string) *Rejection {
	return &Rejection{Kind: KindConflict, Message: message}
}

// Forbidden construye un rechazo por permiso o transición no autorizada.
func Forbidden(message string) *Rejection {
	return &Rejection{Kind: KindForbidden, Message: message}
}

// AsRejection extrae el rechazo tipado de una cadena de errores.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
