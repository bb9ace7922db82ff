// Package thirdparty reúne las reglas compartidas por los terceros (clientes, empleados,
// proveedores, confeccionistas): activación según estado jurídico, bloqueo al editar
// datos de identidad y completitud documental.
package thirdparty

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Stiven2023/vio-app-sub001/internal/domain"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

// ProjectActivation activación efectiva: el último estado jurídico manda; sin historial se usa el valor almacenado.
func ProjectActivation(latest *entity.LegalStatus, stored bool) bool {
	if latest == nil {
		return stored
	}
	return latest.Status == entity.LegalStatusVigente
}

// IsLegalStatus informa si s es un estado jurídico conocido.
func IsLegalStatus(s string) bool {
	switch s {
	case entity.LegalStatusVigente, entity.LegalStatusEnRevision, entity.LegalStatusBloqueado:
		return true
	}
	return false
}

// Deactivator fuerza isActive=false en el almacenamiento propio de un tipo de tercero.
type Deactivator func(ctx context.Context, tx repository.Store, entityID string) error

// Guard aplica la regla de edición de identidad a cualquier tipo de tercero registrado.
type Guard struct {
	deactivators map[string]Deactivator
	now          func() time.Time
}

// NewGuard crea el guardián con los clientes ya registrados.
func NewGuard() *Guard {
	g := &Guard{deactivators: make(map[string]Deactivator), now: time.Now}
	g.Register(entity.ThirdPartyClient, func(ctx context.Context, tx repository.Store, id string) error {
		return tx.Clients().SetActive(ctx, id, false)
	})
	return g
}

// Register agrega el desactivador de un tipo de tercero.
func (g *Guard) Register(entityType string, fn Deactivator) {
	g.deactivators[entityType] = fn
}

// OnIdentityEdit desactiva la entidad y agrega un estado EN_REVISION, en la transacción del llamador.
func (g *Guard) OnIdentityEdit(ctx context.Context, tx repository.Store, entityType, entityID string, actor entity.Actor, notes string) error {
	deactivate, ok := g.deactivators[entityType]
	if !ok {
		return domain.Validation("entity_type", "tipo de tercero no soportado").With("entity_type", entityType)
	}
	if err := deactivate(ctx, tx, entityID); err != nil {
		return fmt.Errorf("desactivar %s: %w", entityType, err)
	}
	return AppendLegalStatus(ctx, tx, entityType, entityID, entity.LegalStatusEnRevision, notes, actor, g.now())
}

// AppendLegalStatus agrega un registro al historial jurídico.
func AppendLegalStatus(ctx context.Context, tx repository.Store, entityType, entityID, status, notes string, actor entity.Actor, at time.Time) error {
	err := tx.LegalStatuses().Append(ctx, &entity.LegalStatus{
		ID:         uuid.New().String(),
		EntityType: entityType,
		EntityID:   entityID,
		Status:     status,
		Notes:      notes,
		ChangedBy:  actor.UserID,
		CreatedAt:  at.UTC(),
	})
	if err != nil {
		return fmt.Errorf("historial jurídico: %w", err)
	}
	return nil
}
