package thirdparty

import (
	"sort"
	"strings"
)

// Tipos de identificación.
const (
	IdentificationCC  = "CC"
	IdentificationCE  = "CE"
	IdentificationNIT = "NIT"
	IdentificationPAS = "PAS"
)

// Documentos que se pueden adjuntar a un tercero.
const (
	DocCedula                = "cedula"
	DocCedulaExtranjeria     = "cedula_extranjeria"
	DocPasaporte             = "pasaporte"
	DocRUT                   = "rut"
	DocCamaraComercio        = "camara_comercio"
	DocCedulaRepresentante   = "cedula_representante"
	DocCertificacionBancaria = "certificacion_bancaria"
)

// DocumentCheck resultado de la validación documental.
type DocumentCheck struct {
	IsValid          bool     `json:"is_valid"`
	MissingDocuments []string `json:"missing_documents"`
}

// DocumentValidator tabla de documentos requeridos por tipo de identificación.
type DocumentValidator struct {
	required map[string][]string
}

// NewDocumentValidator crea el validador con la tabla por defecto.
func NewDocumentValidator() *DocumentValidator {
	return &DocumentValidator{required: map[string][]string{
		IdentificationCC:  {DocCedula, DocRUT},
		IdentificationCE:  {DocCedulaExtranjeria, DocRUT},
		IdentificationNIT: {DocRUT, DocCamaraComercio, DocCedulaRepresentante},
		IdentificationPAS: {DocPasaporte},
	}}
}

// IsIdentificationType informa si t tiene documentos definidos.
func (v *DocumentValidator) IsIdentificationType(t string) bool {
	_, ok := v.required[t]
	return ok
}

// Validate revisa que cada documento requerido tenga una URL no vacía.
// Un tipo de identificación desconocido nunca es válido.
func (v *DocumentValidator) Validate(identificationType string, urls map[string]string) DocumentCheck {
	required, ok := v.required[identificationType]
	if !ok {
		return DocumentCheck{IsValid: false, MissingDocuments: []string{}}
	}
	missing := []string{}
	for _, doc := range required {
		if strings.TrimSpace(urls[doc]) == "" {
			missing = append(missing, doc)
		}
	}
	sort.Strings(missing)
	return DocumentCheck{IsValid: len(missing) == 0, MissingDocuments: missing}
}
