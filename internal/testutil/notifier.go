package testutil

import (
	"context"
	"sync"

	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
)

// RecordingNotifier guarda las notificaciones despachadas. Si Err no es nil lo devuelve
// después de registrar el intento.
type RecordingNotifier struct {
	mu   sync.Mutex
	sent []entity.Notification
	Err  error
}

// Dispatch implementa el puerto de notificaciones.
func (n *RecordingNotifier) Dispatch(_ context.Context, msg entity.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.Err
}

// Sent copia de lo despachado.
func (n *RecordingNotifier) Sent() []entity.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]entity.Notification(nil), n.sent...)
}
