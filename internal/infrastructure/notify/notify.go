// Package notify entrega las notificaciones post-commit a un bus externo.
// Los drivers soportados son kafka, redis (pub/sub), log y noop.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/pkg/config"
)

// publisher envía un mensaje ya serializado.
type publisher interface {
	Publish(ctx context.Context, key, value []byte) error
	io.Closer
}

// DefaultPublishTimeout tope de espera de cada publicación.
const DefaultPublishTimeout = 2 * time.Second

// Dispatcher serializa la notificación a JSON y la publica.
// Implementa orders.Notifier.
type Dispatcher struct {
	pub     publisher
	driver  string
	timeout time.Duration
	log     zerolog.Logger
}

func newDispatcher(driver string, pub publisher, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{pub: pub, driver: driver, timeout: DefaultPublishTimeout, log: log}
}

// New construye el Dispatcher según cfg.Driver.
func New(ctx context.Context, cfg config.NotifyConfig, log zerolog.Logger) (*Dispatcher, error) {
	driver := strings.ToLower(cfg.Driver)
	switch driver {
	case "kafka":
		return newDispatcher(driver, newKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log), log), nil
	case "redis":
		pub, err := newRedisPublisher(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return newDispatcher(driver, pub, log), nil
	case "log", "":
		return newDispatcher("log", logPublisher{log: log}, log), nil
	case "noop":
		return newDispatcher(driver, noopPublisher{}, log), nil
	default:
		return nil, fmt.Errorf("notify: driver desconocido %q", cfg.Driver)
	}
}

// Driver devuelve el nombre del driver activo.
func (d *Dispatcher) Driver() string { return d.driver }

// Dispatch publica n con la clave del evento. La publicación no hereda la cancelación de ctx
// y se corta a los d.timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, n entity.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("notify: serializar %s: %w", n.Event, err)
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()
	if err := d.pub.Publish(pubCtx, []byte(n.Event), body); err != nil {
		return fmt.Errorf("notify: publicar %s vía %s: %w", n.Event, d.driver, err)
	}
	d.log.Debug().Str("event", n.Event).Str("driver", d.driver).Msg("notificación publicada")
	return nil
}

// Close libera el cliente subyacente.
func (d *Dispatcher) Close() error {
	return d.pub.Close()
}

type logPublisher struct {
	log zerolog.Logger
}

func (p logPublisher) Publish(_ context.Context, key, value []byte) error {
	p.log.Info().Str("event", string(key)).RawJSON("notification", value).Msg("notificación")
	return nil
}

func (logPublisher) Close() error { return nil }

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, []byte, []byte) error { return nil }
func (noopPublisher) Close() error                                  { return nil }
