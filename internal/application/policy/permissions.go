package policy

import "github.com/Stiven2023/vio-app-sub001/internal/domain/entity"

// Permisos de negocio verificados antes de cada endpoint que muta o cambia estados.
const (
	PermCrearPedido         = "CREAR_PEDIDO"
	PermVerPedidos          = "VER_PEDIDOS"
	PermEditarPedido        = "EDITAR_PEDIDO"
	PermEliminarPedido      = "ELIMINAR_PEDIDO"
	PermCambiarEstadoPedido = "CAMBIAR_ESTADO_PEDIDO"
	PermCambiarEstadoDiseno = "CAMBIAR_ESTADO_DISENO"
	PermAprobarPrefactura   = "APROBAR_PREFACTURA"
	PermVerPrefacturas      = "VER_PREFACTURAS"
	PermCrearCliente        = "CREAR_CLIENTE"
	PermVerClientes         = "VER_CLIENTES"
	PermEditarCliente       = "EDITAR_CLIENTE"
)

// PermissionTable rol -> permisos concedidos. El rol Any concede a todos.
type PermissionTable map[string]map[string]struct{}

// Grant concede permisos a un rol.
func (p PermissionTable) Grant(role string, perms ...string) PermissionTable {
	set, ok := p[role]
	if !ok {
		set = make(map[string]struct{})
		p[role] = set
	}
	for _, perm := range perms {
		set[perm] = struct{}{}
	}
	return p
}

// HasPermission informa si role tiene perm.
func (p PermissionTable) HasPermission(role, perm string) bool {
	for _, r := range []string{role, Any} {
		set, ok := p[r]
		if !ok {
			continue
		}
		if _, ok := set[perm]; ok {
			return true
		}
		if _, ok := set[Any]; ok {
			return true
		}
	}
	return false
}

// DefaultPermissions matriz de permisos por rol.
func DefaultPermissions() PermissionTable {
	p := PermissionTable{}
	p.Grant(entity.RoleAdministrador, Any)
	p.Grant(entity.RoleAsesor,
		PermCrearPedido, PermVerPedidos, PermEditarPedido, PermCambiarEstadoPedido,
		PermCambiarEstadoDiseno, PermCrearCliente, PermVerClientes, PermEditarCliente)
	p.Grant(entity.RoleLiderDiseno, PermVerPedidos, PermCambiarEstadoDiseno)
	p.Grant(entity.RoleDisenador, PermVerPedidos, PermCambiarEstadoDiseno)
	p.Grant(entity.RoleLiderProduccion, PermVerPedidos, PermEditarPedido, PermCambiarEstadoPedido, PermCambiarEstadoDiseno)
	p.Grant(entity.RoleOperarioProduccion, PermVerPedidos, PermCambiarEstadoDiseno)
	p.Grant(entity.RoleOperarioEmpaque, PermVerPedidos, PermCambiarEstadoDiseno)
	p.Grant(entity.RoleLogistica, PermVerPedidos, PermCambiarEstadoPedido, PermCambiarEstadoDiseno)
	p.Grant(entity.RoleContabilidad, PermVerPedidos, PermAprobarPrefactura, PermVerPrefacturas, PermVerClientes)
	return p
}

// IsKnownRole informa si role tiene alguna entrada en la tabla.
func (p PermissionTable) IsKnownRole(role string) bool {
	_, ok := p[role]
	return ok && role != Any
}
