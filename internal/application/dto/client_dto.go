package dto

import "time"

// CreateClientRequest body para POST /api/clients.
type CreateClientRequest struct {
	Name               string            `json:"name" validate:"required,max=200"`
	IdentificationType string            `json:"identification_type" validate:"required,oneof=CC CE NIT PAS"`
	Identification     string            `json:"identification" validate:"required,max=30"`
	Email              string            `json:"email,omitempty" validate:"omitempty,email"`
	Phone              string            `json:"phone,omitempty"`
	Documents          map[string]string `json:"documents,omitempty"`
}

// UpdateClientRequest body para PUT /api/clients/:id.
// Cambiar identificación o documentos manda el cliente a revisión jurídica.
type UpdateClientRequest struct {
	Name               *string           `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	IdentificationType *string           `json:"identification_type,omitempty" validate:"omitempty,oneof=CC CE NIT PAS"`
	Identification     *string           `json:"identification,omitempty" validate:"omitempty,min=1,max=30"`
	Email              *string           `json:"email,omitempty" validate:"omitempty,email"`
	Phone              *string           `json:"phone,omitempty"`
	Documents          map[string]string `json:"documents,omitempty"`
}

// ClientResponse cliente con su activación efectiva.
type ClientResponse struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	IdentificationType string            `json:"identification_type"`
	Identification     string            `json:"identification"`
	Email              string            `json:"email,omitempty"`
	Phone              string            `json:"phone,omitempty"`
	Documents          map[string]string `json:"documents,omitempty"`
	IsActive           bool              `json:"is_active"`
	LegalStatus        string            `json:"legal_status,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// SetLegalStatusRequest body para POST /api/clients/:id/legal-status.
type SetLegalStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=VIGENTE EN_REVISION BLOQUEADO"`
	Notes  string `json:"notes,omitempty" validate:"max=500"`
}
