package entity

import "time"

// Client cliente (tercero) que hace pedidos.
// IsActive es el valor almacenado; el efectivo se proyecta desde su último estado jurídico.
type Client struct {
	ID                 string
	Name               string
	IdentificationType string // CC, CE, NIT, PAS
	Identification     string
	Email              string
	Phone              string
	DocumentURLs       map[string]string // tipo de documento -> URL
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
