// Package policy contiene las tablas de autorización inyectadas en los casos de uso:
// transiciones de estado por rol y permisos por rol.
package policy

import "github.com/Stiven2023/vio-app-sub001/internal/domain/entity"

// Any comodín para rol, estado origen o estado destino.
const Any = "*"

// TransitionTable tabla explícita (rol, desde, hacia) -> permitido.
type TransitionTable struct {
	rules map[string]map[string]map[string]struct{}
}

// NewTransitionTable crea una tabla vacía (todo denegado).
func NewTransitionTable() *TransitionTable {
	return &TransitionTable{rules: make(map[string]map[string]map[string]struct{})}
}

// Allow permite a role pasar de from a cada uno de los destinos.
func (t *TransitionTable) Allow(role, from string, to ...string) *TransitionTable {
	byFrom, ok := t.rules[role]
	if !ok {
		byFrom = make(map[string]map[string]struct{})
		t.rules[role] = byFrom
	}
	targets, ok := byFrom[from]
	if !ok {
		targets = make(map[string]struct{})
		byFrom[from] = targets
	}
	for _, s := range to {
		targets[s] = struct{}{}
	}
	return t
}

// Chain permite cada par consecutivo de states (avance lineal de producción).
func (t *TransitionTable) Chain(role string, states ...string) *TransitionTable {
	for i := 0; i+1 < len(states); i++ {
		t.Allow(role, states[i], states[i+1])
	}
	return t
}

// CanRoleChangeStatus informa si role puede mover un registro de current a next.
func (t *TransitionTable) CanRoleChangeStatus(role, current, next string) bool {
	for _, r := range []string{role, Any} {
		byFrom, ok := t.rules[r]
		if !ok {
			continue
		}
		for _, f := range []string{current, Any} {
			targets, ok := byFrom[f]
			if !ok {
				continue
			}
			if _, ok := targets[next]; ok {
				return true
			}
			if _, ok := targets[Any]; ok {
				return true
			}
		}
	}
	return false
}

// DefaultItemTransitions política de estados de líneas de diseño por rol.
func DefaultItemTransitions() *TransitionTable {
	t := NewTransitionTable()
	t.Allow(entity.RoleAdministrador, Any, Any)

	t.Allow(entity.RoleAsesor, entity.ItemStatusPendiente, entity.ItemStatusEnRevision, entity.ItemStatusCancelado)
	t.Allow(entity.RoleAsesor, entity.ItemStatusEnRevision, entity.ItemStatusAprobado, entity.ItemStatusPendiente, entity.ItemStatusCancelado)
	t.Allow(entity.RoleAsesor, entity.ItemStatusAprobado, entity.ItemStatusCancelado)

	t.Allow(entity.RoleLiderDiseno, entity.ItemStatusEnRevision, entity.ItemStatusAprobado)
	t.Chain(entity.RoleLiderDiseno,
		entity.ItemStatusAprobado, entity.ItemStatusPendienteProduccion,
		entity.ItemStatusEnMontaje, entity.ItemStatusEnPlotter)
	t.Chain(entity.RoleDisenador,
		entity.ItemStatusPendienteProduccion, entity.ItemStatusEnMontaje, entity.ItemStatusEnPlotter)

	production := []string{
		entity.ItemStatusEnPlotter, entity.ItemStatusEnSublimacion, entity.ItemStatusEnCorte,
		entity.ItemStatusEnConfeccion, entity.ItemStatusConfeccionado,
	}
	t.Chain(entity.RoleOperarioProduccion, production...)
	t.Chain(entity.RoleLiderProduccion, append(production, entity.ItemStatusEnRevisionCalidad, entity.ItemStatusEnEmpaque)...)
	for _, s := range production {
		t.Allow(entity.RoleLiderProduccion, s, entity.ItemStatusEnEspera)
		t.Allow(entity.RoleLiderProduccion, entity.ItemStatusEnEspera, s)
	}

	t.Chain(entity.RoleOperarioEmpaque,
		entity.ItemStatusEnRevisionCalidad, entity.ItemStatusEnEmpaque,
		entity.ItemStatusEmpacado, entity.ItemStatusListoDespacho)

	t.Chain(entity.RoleLogistica,
		entity.ItemStatusListoDespacho, entity.ItemStatusEnDespacho, entity.ItemStatusEnviado,
		entity.ItemStatusEntregado, entity.ItemStatusCompletado)
	return t
}

// DefaultOrderTransitions política de estados del pedido por rol.
func DefaultOrderTransitions() *TransitionTable {
	t := NewTransitionTable()
	t.Allow(entity.RoleAdministrador, Any, Any)
	t.Allow(entity.RoleAsesor, entity.OrderStatusPendiente, entity.OrderStatusAprobacionInicial, entity.OrderStatusCancelado)
	t.Allow(entity.RoleAsesor, entity.OrderStatusAprobacionInicial, entity.OrderStatusCancelado)
	t.Allow(entity.RoleLiderProduccion, entity.OrderStatusAprobacionInicial, entity.OrderStatusProduccion)
	t.Allow(entity.RoleLiderProduccion, entity.OrderStatusProduccion, entity.OrderStatusAtrasado, entity.OrderStatusFinalizado)
	t.Allow(entity.RoleLiderProduccion, entity.OrderStatusAtrasado, entity.OrderStatusProduccion, entity.OrderStatusFinalizado)
	t.Allow(entity.RoleLogistica, entity.OrderStatusFinalizado, entity.OrderStatusEntregado)
	return t
}
