package entity

// Roles de usuario; viajan en el JWT y alimentan las tablas de permisos y transiciones.
const (
	RoleAdministrador      = "ADMINISTRADOR"
	RoleAsesor             = "ASESOR"
	RoleLiderDiseno        = "LIDER_DISENO"
	RoleDisenador          = "DISENADOR"
	RoleOperarioProduccion = "OPERARIO_PRODUCCION"
	RoleLiderProduccion    = "LIDER_PRODUCCION"
	RoleOperarioEmpaque    = "OPERARIO_EMPAQUE"
	RoleLogistica          = "LOGISTICA"
	RoleContabilidad       = "CONTABILIDAD"
)

// Actor usuario autenticado que ejecuta una operación.
type Actor struct {
	UserID string
	Role   string
}
