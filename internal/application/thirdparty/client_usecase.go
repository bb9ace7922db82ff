package thirdparty

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Stiven2023/vio-app-sub001/internal/application/dto"
	"github.com/Stiven2023/vio-app-sub001/internal/application/orders"
	"github.com/Stiven2023/vio-app-sub001/internal/domain"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

const permissionEditClient = "EDITAR_CLIENTE"

// ClientUseCase casos de uso de clientes.
type ClientUseCase struct {
	txRunner  repository.TxRunner
	guard     *Guard
	documents *DocumentValidator
	notifier  orders.Notifier
	log       zerolog.Logger
	now       func() time.Time
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(txRunner repository.TxRunner, notifier orders.Notifier, log zerolog.Logger) *ClientUseCase {
	return &ClientUseCase{
		txRunner:  txRunner,
		guard:     NewGuard(),
		documents: NewDocumentValidator(),
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

func (uc *ClientUseCase) checkDocuments(identificationType string, docs map[string]string) error {
	if !uc.documents.IsIdentificationType(identificationType) {
		return domain.Validation("identification_type", "tipo de identificación desconocido").With("identification_type", identificationType)
	}
	if check := uc.documents.Validate(identificationType, docs); !check.IsValid {
		return domain.Validation("documents", "faltan documentos obligatorios").With("missing_documents", check.MissingDocuments)
	}
	return nil
}

// Create registra un cliente nuevo, activo, con sus documentos completos.
func (uc *ClientUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	name := strings.TrimSpace(in.Name)
	ident := strings.TrimSpace(in.Identification)
	if name == "" {
		return nil, domain.Validation("name", "el nombre es requerido")
	}
	if ident == "" {
		return nil, domain.Validation("identification", "la identificación es requerida")
	}
	if err := uc.checkDocuments(in.IdentificationType, in.Documents); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	c := &entity.Client{
		ID:                 uuid.New().String(),
		Name:               name,
		IdentificationType: in.IdentificationType,
		Identification:     ident,
		Email:              strings.TrimSpace(in.Email),
		Phone:              strings.TrimSpace(in.Phone),
		DocumentURLs:       maps.Clone(in.Documents),
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	var out *dto.ClientResponse
	err := uc.txRunner.RunInTx(ctx, func(tx repository.Store) error {
		existing, err := tx.Clients().GetByIdentification(ctx, c.IdentificationType, c.Identification)
		if err != nil {
			return fmt.Errorf("buscar identificación: %w", err)
		}
		if existing != nil {
			return duplicateIdentification(c)
		}
		if err := tx.Clients().Create(ctx, c); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return duplicateIdentification(c)
			}
			return fmt.Errorf("crear cliente: %w", err)
		}
		out = toClientResponse(c, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("client_id", c.ID).Str("user_id", actor.UserID).Msg("cliente creado")
	return out, nil
}

func duplicateIdentification(c *entity.Client) *domain.Rejection {
	return domain.Conflict("ya existe un cliente con esa identificación").
		With("identification_type", c.IdentificationType).
		With("identification", c.Identification)
}

// Get devuelve el cliente con su activación proyectada desde el historial jurídico.
func (uc *ClientUseCase) Get(ctx context.Context, id string) (*dto.ClientResponse, error) {
	var out *dto.ClientResponse
	err := uc.txRunner.RunInTx(ctx, func(tx repository.Store) error {
		c, latest, err := loadClient(ctx, tx, id)
		if err != nil {
			return err
		}
		out = toClientResponse(c, latest)
		return nil
	})
	return out, err
}

func loadClient(ctx context.Context, tx repository.Store, id string) (*entity.Client, *entity.LegalStatus, error) {
	c, err := tx.Clients().GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("leer cliente: %w", err)
	}
	if c == nil {
		return nil, nil, domain.NotFound("cliente", id)
	}
	latest, err := tx.LegalStatuses().Latest(ctx, entity.ThirdPartyClient, id)
	if err != nil {
		return nil, nil, fmt.Errorf("leer estado jurídico: %w", err)
	}
	return c, latest, nil
}

// Update modifica el cliente. Cambiar identificación o documentos lo deja inactivo y EN_REVISION.
func (uc *ClientUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Validation("name", "el nombre no puede quedar vacío")
	}
	if in.Identification != nil && strings.TrimSpace(*in.Identification) == "" {
		return nil, domain.Validation("identification", "la identificación no puede quedar vacía")
	}

	var out *dto.ClientResponse
	var box orders.Outbox
	err := uc.txRunner.RunInTx(ctx, func(tx repository.Store) error {
		c, _, err := loadClient(ctx, tx, id)
		if err != nil {
			return err
		}
		identityEdited := false
		if in.IdentificationType != nil && *in.IdentificationType != c.IdentificationType {
			c.IdentificationType = *in.IdentificationType
			identityEdited = true
		}
		if in.Identification != nil && strings.TrimSpace(*in.Identification) != c.Identification {
			c.Identification = strings.TrimSpace(*in.Identification)
			identityEdited = true
		}
		if in.Documents != nil && !maps.Equal(in.Documents, c.DocumentURLs) {
			c.DocumentURLs = maps.Clone(in.Documents)
			identityEdited = true
		}
		if identityEdited {
			if err := uc.checkDocuments(c.IdentificationType, c.DocumentURLs); err != nil {
				return err
			}
		}
		if in.Name != nil {
			c.Name = strings.TrimSpace(*in.Name)
		}
		if in.Email != nil {
			c.Email = strings.TrimSpace(*in.Email)
		}
		if in.Phone != nil {
			c.Phone = strings.TrimSpace(*in.Phone)
		}
		c.UpdatedAt = uc.now().UTC()
		if err := tx.Clients().Update(ctx, c); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return duplicateIdentification(c)
			}
			return fmt.Errorf("actualizar cliente: %w", err)
		}
		if identityEdited {
			if err := uc.guard.OnIdentityEdit(ctx, tx, entity.ThirdPartyClient, c.ID, actor, "edición de datos de identidad"); err != nil {
				return err
			}
			box.Add(entity.Notification{
				Event:      entity.EventClientUnderReview,
				Permission: permissionEditClient,
				Title:      "Cliente en revisión",
				Message:    fmt.Sprintf("El cliente %s quedó en revisión por cambios de identidad", c.Name),
				Href:       "/clients/" + c.ID,
				Meta:       map[string]string{"client_id": c.ID},
			})
		}
		c, latest, err := loadClient(ctx, tx, id)
		if err != nil {
			return err
		}
		out = toClientResponse(c, latest)
		return nil
	})
	if err != nil {
		return nil, err
	}
	box.Flush(ctx, uc.notifier, uc.log)
	return out, nil
}

// SetLegalStatus agrega un estado jurídico y sincroniza el flag almacenado.
func (uc *ClientUseCase) SetLegalStatus(ctx context.Context, actor entity.Actor, id string, in dto.SetLegalStatusRequest) (*dto.ClientResponse, error) {
	if !IsLegalStatus(in.Status) {
		return nil, domain.Validation("status", "estado jurídico desconocido").With("status", in.Status)
	}
	var out *dto.ClientResponse
	err := uc.txRunner.RunInTx(ctx, func(tx repository.Store) error {
		if _, _, err := loadClient(ctx, tx, id); err != nil {
			return err
		}
		if err := AppendLegalStatus(ctx, tx, entity.ThirdPartyClient, id, in.Status, in.Notes, actor, uc.now()); err != nil {
			return err
		}
		if err := tx.Clients().SetActive(ctx, id, in.Status == entity.LegalStatusVigente); err != nil {
			return fmt.Errorf("activar cliente: %w", err)
		}
		c, latest, err := loadClient(ctx, tx, id)
		if err != nil {
			return err
		}
		out = toClientResponse(c, latest)
		return nil
	})
	return out, err
}

func toClientResponse(c *entity.Client, latest *entity.LegalStatus) *dto.ClientResponse {
	out := &dto.ClientResponse{
		ID:                 c.ID,
		Name:               c.Name,
		IdentificationType: c.IdentificationType,
		Identification:     c.Identification,
		Email:              c.Email,
		Phone:              c.Phone,
		Documents:          c.DocumentURLs,
		IsActive:           ProjectActivation(latest, c.IsActive),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
	if latest != nil {
		out.LegalStatus = latest.Status
	}
	return out
}
