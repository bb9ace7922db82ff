package entity

import "time"

// Estados jurídicos de un tercero.
const (
	LegalStatusVigente    = "VIGENTE"
	LegalStatusEnRevision = "EN_REVISION"
	LegalStatusBloqueado  = "BLOQUEADO"
)

// Tipos de tercero que comparten el historial jurídico.
const (
	ThirdPartyClient        = "CLIENTE"
	ThirdPartyEmployee      = "EMPLEADO"
	ThirdPartySupplier      = "PROVEEDOR"
	ThirdPartyConfectionist = "CONFECCIONISTA"
)

// LegalStatus registro de cumplimiento de un tercero (append-only, el último gana).
type LegalStatus struct {
	ID         string
	EntityType string
	EntityID   string
	Status     string
	Notes      string
	ChangedBy  string
	CreatedAt  time.Time
}
