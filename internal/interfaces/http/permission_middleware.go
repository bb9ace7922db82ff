package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Stiven2023/vio-app-sub001/internal/application/dto"
)

// permissionChecker contrato mínimo del oráculo de permisos; lo implementa policy.PermissionTable.
type permissionChecker interface {
	HasPermission(role, perm string) bool
}

// RequirePermission verifica que el rol del token tenga perm. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 Unauthorized → no hay rol en el contexto.
//   - 403 Forbidden    → el rol no tiene el permiso.
func RequirePermission(checker permissionChecker, perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "MISSING_ROLE",
				Message: "rol no encontrado en el token",
			})
		}
		if !checker.HasPermission(role, perm) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "el rol no tiene el permiso requerido",
				Details: map[string]any{"role": role, "permission": perm},
			})
		}
		return c.Next()
	}
}
