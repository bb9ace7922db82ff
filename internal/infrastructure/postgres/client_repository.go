package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Stiven2023/vio-app-sub001/internal/domain"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, name, identification_type, identification, email, phone, document_urls, is_active, created_at, updated_at`

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(&c.ID, &c.Name, &c.IdentificationType, &c.Identification, &c.Email, &c.Phone,
		&c.DocumentURLs, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan client: %w", err)
	}
	return &c, nil
}

func documentsOrEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, c.ID, c.Name, c.IdentificationType, c.Identification, c.Email, c.Phone,
		documentsOrEmpty(c.DocumentURLs), c.IsActive, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	return scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
}

// GetByIdentification obtiene un cliente por tipo y número de identificación.
func (r *ClientRepo) GetByIdentification(ctx context.Context, identificationType, identification string) (*entity.Client, error) {
	return scanClient(r.q.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE identification_type = $1 AND identification = $2`,
		identificationType, identification))
}

// Update actualiza el cliente.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients SET name = $2, identification_type = $3, identification = $4, email = $5, phone = $6,
			document_urls = $7, is_active = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.Name, c.IdentificationType, c.Identification, c.Email, c.Phone,
		documentsOrEmpty(c.DocumentURLs), c.IsActive, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetActive fija el flag almacenado de activación.
func (r *ClientRepo) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE clients SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set client active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
