package repository

import (
	"context"

	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para clientes.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetByIdentification(ctx context.Context, identificationType, identification string) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	SetActive(ctx context.Context, id string, active bool) error
}

// LegalStatusRepository historial jurídico de terceros (el último registro gana).
type LegalStatusRepository interface {
	Append(ctx context.Context, s *entity.LegalStatus) error
	Latest(ctx context.Context, entityType, entityID string) (*entity.LegalStatus, error)
}
