package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var line map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &line))
	return line
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel(" WARN "))
	assert.Equal(t, zerolog.TraceLevel, parseLevel("trace"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("desconocido"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
}

func TestComponent_AgregaCampo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Env: "production", Level: "info"}, &buf)

	log := l.Component("orders")
	log.Info().Msg("pedido creado")
	log.Debug().Msg("oculto")

	line := lastLine(t, &buf)
	assert.Equal(t, "orders", line["component"])
	assert.Equal(t, "pedido creado", line["message"])
	assert.Equal(t, "production", line["env"])
	assert.NotContains(t, buf.String(), "oculto")
}

func TestNewWithWriter_CamposDeServicio(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Service: "vio-app", Env: "staging", Level: "debug"}, &buf)

	l.Component("notify").Debug().Str("driver", "kafka").Msg("notificación publicada")

	line := lastLine(t, &buf)
	assert.Equal(t, "vio-app", line["service"])
	assert.Equal(t, "staging", line["env"])
	assert.Equal(t, "notify", line["component"])
	assert.Equal(t, "kafka", line["driver"])
}

func TestNewWithWriter_DevelopmentSinEnv(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Service: "vioctl", Env: "development"}, &buf)
	l.Info().Msg("migraciones aplicadas")

	line := lastLine(t, &buf)
	_, ok := line["env"]
	assert.False(t, ok)
	assert.Equal(t, "vioctl", line["service"])
}
