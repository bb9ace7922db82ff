package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

var _ repository.LegalStatusRepository = (*LegalStatusRepo)(nil)

// LegalStatusRepo historial jurídico compartido por todos los tipos de tercero.
type LegalStatusRepo struct {
	q Querier
}

// NewLegalStatusRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLegalStatusRepository(q Querier) *LegalStatusRepo {
	return &LegalStatusRepo{q: q}
}

// Append agrega un registro.
func (r *LegalStatusRepo) Append(ctx context.Context, s *entity.LegalStatus) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO legal_statuses (id, entity_type, entity_id, status, notes, changed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.EntityType, s.EntityID, s.Status, s.Notes, s.ChangedBy, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert legal status: %w", err)
	}
	return nil
}

// Latest último registro de la entidad.
func (r *LegalStatusRepo) Latest(ctx context.Context, entityType, entityID string) (*entity.LegalStatus, error) {
	var s entity.LegalStatus
	err := r.q.QueryRow(ctx, `
		SELECT id, entity_type, entity_id, status, notes, changed_by, created_at
		FROM legal_statuses WHERE entity_type = $1 AND entity_id = $2
		ORDER BY seq DESC LIMIT 1`, entityType, entityID).Scan(
		&s.ID, &s.EntityType, &s.EntityID, &s.Status, &s.Notes, &s.ChangedBy, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest legal status: %w", err)
	}
	return &s, nil
}
