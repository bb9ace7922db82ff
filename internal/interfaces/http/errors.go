package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Stiven2023/vio-app-sub001/internal/application/dto"
	"github.com/Stiven2023/vio-app-sub001/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores reportan el nombre JSON del campo.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodifica el cuerpo JSON en out y lo valida con las etiquetas `validate`.
// Un cuerpo vacío equivale a {}.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(out); err != nil {
			return domain.Validation("body", "cuerpo inválido")
		}
	}
	return validateStruct(out)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		return domain.Validation(fieldPath(fe.Namespace()), validationMessage(fe)).With("rule", fe.Tag())
	}
	return domain.Validation("body", err.Error())
}

// fieldPath quita el nombre del struct raíz: "CreateOrderRequest.items[0].name" -> "items[0].name".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo requerido"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "gt":
		return "debe ser mayor que " + fe.Param()
	case "min":
		return "mínimo " + fe.Param()
	case "max":
		return "máximo " + fe.Param()
	case "email":
		return "email inválido"
	case "url":
		return "URL inválida"
	default:
		return "valor inválido"
	}
}

func statusForKind(k domain.Kind) int {
	switch k {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindConflict:
		return fiber.StatusConflict
	case domain.KindForbidden:
		return fiber.StatusForbidden
	}
	return fiber.StatusInternalServerError
}

// writeError traduce el error de un caso de uso a la respuesta HTTP.
// Los errores no tipados se registran y se devuelven como 500 sin detalles internos.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	if rej, ok := domain.AsRejection(err); ok {
		return c.Status(statusForKind(rej.Kind)).JSON(dto.ErrorResponse{
			Code:    string(rej.Kind),
			Message: rej.Message,
			Field:   rej.Field,
			Details: rej.Details,
		})
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto con el estado actual"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autorizado"})
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
