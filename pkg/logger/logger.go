package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger raíz.
type Config struct {
	Service string // valor del campo "service"; vacío lo omite
	Env     string // development -> consola legible; otro -> JSON
	Level   string // trace, debug, info, warn, error
}

// Logger raíz de un binario (api, vioctl). Cada adaptador y caso de uso recibe un
// sublogger de Component, nunca el raíz.
type Logger struct {
	zl zerolog.Logger
}

// New escribe en stdout: consola en development, JSON en el resto.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}
	return NewWithWriter(cfg, w)
}

// NewWithWriter igual que New pero sobre w. También reemplaza el logger global de zerolog.
func NewWithWriter(cfg Config, w io.Writer) *Logger {
	zctx := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp()
	if cfg.Service != "" {
		zctx = zctx.Str("service", cfg.Service)
	}
	if cfg.Env != "" && cfg.Env != "development" {
		zctx = zctx.Str("env", cfg.Env)
	}
	zl := zctx.Logger()
	log.Logger = zl
	return &Logger{zl: zl}
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Component sublogger con el campo "component" fijo (orders, conversion, notify, http...).
func (l *Logger) Component(name string) zerolog.Logger {
	return l.zl.With().Str("component", name).Logger()
}
