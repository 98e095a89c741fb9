package toolwire

import (
	"log/slog"
	"time"
)

// Middleware wraps a FormatDecoder with cross-cutting behavior (logging, recovery).
type Middleware func(FormatDecoder) FormatDecoder

// WithLogging returns a middleware that logs start, end, call count, duration, and errors.
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next FormatDecoder) FormatDecoder {
		return &loggingDecoder{decoderBase: decoderBase{next: next}, logger: logger}
	}
}

// WithRecovery returns a middleware that recovers panics and returns SystemError.
func WithRecovery() Middleware {
	return func(next FormatDecoder) FormatDecoder {
		return &recoveryDecoder{decoderBase{next: next}}
	}
}

// decoderBase delegates Format to the wrapped strategy.
type decoderBase struct{ next FormatDecoder }

func (b *decoderBase) Format() Format { return b.next.Format() }

type loggingDecoder struct {
	decoderBase
	logger *slog.Logger
}

func (l *loggingDecoder) Decode(text string, defs []ToolDefinition) ([]ToolCall, error) {
	format := l.next.Format()
	l.logger.Info("decode start", "format", format, "tools", len(defs), "bytes", len(text))
	start := time.Now()
	calls, err := l.next.Decode(text, defs)
	dur := time.Since(start)
	if err != nil {
		l.logger.Error("decode error", "format", format, "duration", dur, "error", err)
		return nil, err
	}
	l.logger.Info("decode end", "format", format, "calls", len(calls), "duration", dur)
	return calls, nil
}

type recoveryDecoder struct{ decoderBase }

func (r *recoveryDecoder) Decode(text string, defs []ToolDefinition) (calls []ToolCall, err error) {
	defer func() {
		if p := recover(); p != nil {
			calls = nil
			err = &SystemError{Err: &panicError{p: p}}
		}
	}()
	return r.next.Decode(text, defs)
}

// Use stores the given middlewares and reapplies them from scratch to every format
// strategy (onion order: first middleware is outermost). Calling Use again replaces
// the chain instead of wrapping twice.
func (d *Decoder) Use(middlewares ...Middleware) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.middlewares = middlewares
	for f, raw := range d.raw {
		s := raw
		for i := len(middlewares) - 1; i >= 0; i-- {
			s = middlewares[i](s)
		}
		d.strategies[f] = s
	}
}
