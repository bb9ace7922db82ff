// Package ordering contiene las reglas puras del pipeline de pedidos: secuencias de códigos,
// totales, estados y validación de sub-registros. No depende de persistencia.
package ordering

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
)

// CodeFamily describe una familia de códigos de negocio secuenciales.
// La secuencia arranca en Floor+1 y se rellena con ceros hasta Width dígitos.
type CodeFamily struct {
	Name   string
	Prefix string
	Width  int
	Floor  int
}

var (
	FamilyOrderNacional      = CodeFamily{Name: "pedido_nacional", Prefix: "VN-", Width: 6}
	FamilyOrderInternacional = CodeFamily{Name: "pedido_internacional", Prefix: "VI-", Width: 4}
	FamilyPrefactura         = CodeFamily{Name: "prefactura", Prefix: "PRE", Width: 5, Floor: 10000}
)

// OrderFamily devuelve la familia de código según el tipo monetario del pedido.
func OrderFamily(orderType string) CodeFamily {
	if orderType == entity.OrderTypeInternacional {
		return FamilyOrderInternacional
	}
	return FamilyOrderNacional
}

// OrderTypeForCurrency USD => internacional; cualquier otra moneda => nacional.
func OrderTypeForCurrency(currency string) string {
	if strings.EqualFold(strings.TrimSpace(currency), entity.CurrencyUSD) {
		return entity.OrderTypeInternacional
	}
	return entity.OrderTypeNacional
}

// Sequence extrae el sufijo numérico de un código de la familia (sin distinguir mayúsculas).
// Tolera el formato legado con un segmento de fecha antes del sufijo: "VN-20240115-0012" => 12.
func (f CodeFamily) Sequence(code string) (int, bool) {
	code = strings.TrimSpace(code)
	if len(code) <= len(f.Prefix) || !strings.EqualFold(code[:len(f.Prefix)], f.Prefix) {
		return 0, false
	}
	segments := strings.FieldsFunc(code[len(f.Prefix):], func(r rune) bool {
		return r == '-' || r == '/' || r == '_'
	})
	if len(segments) == 0 {
		return 0, false
	}
	suffix := segments[len(segments)-1]
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Format construye el código para una secuencia.
func (f CodeFamily) Format(seq int) string {
	return fmt.Sprintf("%s%0*d", f.Prefix, f.Width, seq)
}

// NextCode toma el máximo sufijo entre los códigos existentes y devuelve el siguiente.
// Códigos que no pertenecen a la familia se ignoran.
func NextCode(f CodeFamily, existing []string) string {
	max := f.Floor
	for _, c := range existing {
		if n, ok := f.Sequence(c); ok && n > max {
			max = n
		}
	}
	return f.Format(max + 1)
}
