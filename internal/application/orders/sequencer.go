package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Stiven2023/vio-app-sub001/internal/domain"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/ordering"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

// MaxCodeAttempts intentos de asignación antes de rendirse con un conflicto.
const MaxCodeAttempts = 5

// CodeLister lista los códigos existentes que empiezan por un prefijo.
type CodeLister func(ctx context.Context, prefix string) ([]string, error)

// Sequencer asigna códigos legibles (VN-000001, PRE10001) sin huecos ni repetidos.
// La unicidad real la garantiza el índice único de la base; ante una colisión se
// recalcula el siguiente código y se reintenta bajo un savepoint.
type Sequencer struct {
	log zerolog.Logger
}

// NewSequencer construye el secuenciador.
func NewSequencer(log zerolog.Logger) *Sequencer {
	return &Sequencer{log: log}
}

// Insert calcula el siguiente código de family y ejecuta insert con él.
// insert debe devolver un error que envuelva domain.ErrDuplicate cuando el código ya existe.
func (s *Sequencer) Insert(ctx context.Context, tx repository.Store, family ordering.CodeFamily, existing CodeLister, insert func(code string) error) (string, error) {
	var code string
	for attempt := 1; attempt <= MaxCodeAttempts; attempt++ {
		codes, err := existing(ctx, family.Prefix)
		if err != nil {
			return "", fmt.Errorf("listar códigos %s: %w", family.Name, err)
		}
		code = ordering.NextCode(family, codes)

		err = tx.Savepoint(ctx, func() error { return insert(code) })
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return "", err
		}
		s.log.Debug().
			Str("family", family.Name).
			Str("code", code).
			Int("attempt", attempt).
			Msg("código ocupado, reintentando")
	}
	return "", domain.Conflict("no fue posible asignar un código único").
		With("family", family.Name).
		With("last_code", code).
		With("attempts", MaxCodeAttempts)
}
