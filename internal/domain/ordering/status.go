package ordering

import "github.com/Stiven2023/vio-app-sub001/internal/domain/entity"

var itemStatuses = map[string]struct{}{
	entity.ItemStatusPendiente:           {},
	entity.ItemStatusEnRevision:          {},
	entity.ItemStatusAprobado:            {},
	entity.ItemStatusPendienteProduccion: {},
	entity.ItemStatusEnMontaje:           {},
	entity.ItemStatusEnPlotter:           {},
	entity.ItemStatusEnSublimacion:       {},
	entity.ItemStatusEnCorte:             {},
	entity.ItemStatusEnConfeccion:        {},
	entity.ItemStatusConfeccionado:       {},
	entity.ItemStatusEnRevisionCalidad:   {},
	entity.ItemStatusEnEmpaque:           {},
	entity.ItemStatusEmpacado:            {},
	entity.ItemStatusListoDespacho:       {},
	entity.ItemStatusEnDespacho:          {},
	entity.ItemStatusEnviado:             {},
	entity.ItemStatusEntregado:           {},
	entity.ItemStatusEnEspera:            {},
	entity.ItemStatusCompletado:          {},
	entity.ItemStatusCancelado:           {},
}

var orderStatuses = map[string]struct{}{
	entity.OrderStatusPendiente:         {},
	entity.OrderStatusAprobacionInicial: {},
	entity.OrderStatusProduccion:        {},
	entity.OrderStatusAtrasado:          {},
	entity.OrderStatusFinalizado:        {},
	entity.OrderStatusEntregado:         {},
	entity.OrderStatusCancelado:         {},
}

// IsItemStatus informa si s es un estado de línea conocido.
func IsItemStatus(s string) bool {
	_, ok := itemStatuses[s]
	return ok
}

// IsOrderStatus informa si s es un estado de pedido conocido.
func IsOrderStatus(s string) bool {
	_, ok := orderStatuses[s]
	return ok
}

// IsTerminalItemStatus COMPLETADO y CANCELADO no admiten más cambios de producción.
func IsTerminalItemStatus(s string) bool {
	return s == entity.ItemStatusCompletado || s == entity.ItemStatusCancelado
}

// ItemStatuses devuelve todos los estados de línea (orden no garantizado).
func ItemStatuses() []string {
	out := make([]string, 0, len(itemStatuses))
	for s := range itemStatuses {
		out = append(out, s)
	}
	return out
}
