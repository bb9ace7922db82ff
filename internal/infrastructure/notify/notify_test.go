package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/pkg/config"
)

type fakePublisher struct {
	keys   []string
	values [][]byte
	err    error
	closed bool
}

func (f *fakePublisher) Publish(_ context.Context, key, value []byte) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, string(key))
	f.values = append(f.values, value)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

// slowPublisher bloquea hasta que venza el contexto, como un broker caído.
type slowPublisher struct{}

func (slowPublisher) Publish(ctx context.Context, _, _ []byte) error {
	<-ctx.Done()
	return ctx.Err()
}

func (slowPublisher) Close() error { return nil }

func sample() entity.Notification {
	return entity.Notification{
		Event:      entity.EventOrderCreated,
		Permission: "VER_PEDIDOS",
		Title:      "Pedido creado",
		Message:    "Se creó el pedido VN-000001",
		Href:       "/orders/o-1",
		Meta:       map[string]string{"order_code": "VN-000001"},
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestDispatch_PublicaJSONConClaveDelEvento(t *testing.T) {
	pub := &fakePublisher{}
	d := newDispatcher("kafka", pub, zerolog.Nop())

	require.NoError(t, d.Dispatch(context.Background(), sample()))
	require.Len(t, pub.values, 1)
	assert.Equal(t, entity.EventOrderCreated, pub.keys[0])

	var got entity.Notification
	require.NoError(t, json.Unmarshal(pub.values[0], &got))
	assert.Equal(t, "VN-000001", got.Meta["order_code"])
	assert.Equal(t, "VER_PEDIDOS", got.Permission)

	require.NoError(t, d.Close())
	assert.True(t, pub.closed)
}

func TestDispatch_ErrorDelBus(t *testing.T) {
	boom := errors.New("broker caído")
	d := newDispatcher("kafka", &fakePublisher{err: boom}, zerolog.Nop())

	err := d.Dispatch(context.Background(), sample())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), entity.EventOrderCreated)
}

func TestNew_LogEscribeEnElLogger(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(context.Background(), config.NotifyConfig{Driver: "log"}, zerolog.New(&buf))
	require.NoError(t, err)
	assert.Equal(t, "log", d.Driver())

	require.NoError(t, d.Dispatch(context.Background(), sample()))
	assert.Contains(t, buf.String(), `"event":"ORDER_CREATED"`)
	assert.Contains(t, buf.String(), `"order_code":"VN-000001"`)
}

func TestNew_Drivers(t *testing.T) {
	d, err := New(context.Background(), config.NotifyConfig{Driver: "noop"}, zerolog.Nop())
	require.NoError(t, err)
	assert.NoError(t, d.Dispatch(context.Background(), sample()))

	d, err = New(context.Background(), config.NotifyConfig{Driver: "kafka", KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "t"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "kafka", d.Driver())
	assert.NoError(t, d.Close())

	_, err = New(context.Background(), config.NotifyConfig{Driver: "smtp"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestDispatch_BrokerCaidoNoBloqueaLaPeticion(t *testing.T) {
	d := newDispatcher("redis", slowPublisher{}, zerolog.Nop())
	d.timeout = 20 * time.Millisecond

	start := time.Now()
	err := d.Dispatch(context.Background(), sample())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), time.Second)
}

func TestDispatch_NoHeredaLaCancelacionDeLaPeticion(t *testing.T) {
	pub := &fakePublisher{}
	d := newDispatcher("kafka", pub, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, d.Dispatch(ctx, sample()))
	assert.Equal(t, []string{entity.EventOrderCreated}, pub.keys)
}

func TestNewKafkaPublisher_Asincrono(t *testing.T) {
	k := newKafkaPublisher([]string{"localhost:9092"}, "vio.notifications", zerolog.Nop())
	assert.True(t, k.writer.Async)
	assert.NotNil(t, k.writer.Completion)
	assert.Equal(t, "vio.notifications", k.writer.Topic)
	require.NoError(t, k.Close())
}
