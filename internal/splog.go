package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}

// consoleHandler prints bare messages; attributes only show in debug mode.
type consoleHandler struct {
	w     io.Writer
	debug bool
	attrs []slog.Attr
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level > slog.LevelDebug || h.debug
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	msg := r.Message
	if h.debug {
		for _, a := range h.attrs {
			msg += " " + a.String()
		}
		r.Attrs(func(a slog.Attr) bool {
			msg += " " + a.String()
			return true
		})
	}
	_, err := fmt.Fprintln(h.w, msg)
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{w: h.w, debug: h.debug, attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...)}
}

func (h *consoleHandler) WithGroup(_ string) slog.Handler {
	return h
}

type fanoutHandler []slog.Handler

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// Splog writes operator-facing messages to the console and, when a log file
// is configured, everything including debug records to a rotating file.
type Splog struct {
	logger *slog.Logger
	file   io.WriteCloser
}

func NewSplog(w io.Writer, debug bool, cfg LogConfig) (*Splog, error) {
	handlers := fanoutHandler{&consoleHandler{w: w, debug: debug}}
	s := &Splog{}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0750); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
		}
		s.file = lj
		handlers = append(handlers, slog.NewTextHandler(lj, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	s.logger = slog.New(handlers)
	return s, nil
}

// Logger is the structured logger handed to the engine.
func (s *Splog) Logger() *slog.Logger {
	return s.logger
}

func (s *Splog) Info(format string, args ...any) {
	s.logger.Info(fmt.Sprintf(format, args...))
}

func (s *Splog) Warn(format string, args ...any) {
	s.logger.Warn("⚠️  " + fmt.Sprintf(format, args...))
}

func (s *Splog) Error(format string, args ...any) {
	s.logger.Error("❌ " + fmt.Sprintf(format, args...))
}

func (s *Splog) Debug(format string, args ...any) {
	s.logger.Debug(fmt.Sprintf(format, args...))
}

func (s *Splog) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
