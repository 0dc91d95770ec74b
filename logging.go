package osek

import (
	"io"

	"github.com/joeycumines/logiface"
	stumpy "github.com/joeycumines/stumpy"
)

// Logger is the kernel's narrow, non-generic logging seam. It is satisfied
// by a [github.com/joeycumines/logiface] logger bound to stumpy's concrete
// event type, wrapped so the Kernel type itself never has to carry a
// generic Event type parameter through its public API.
type Logger interface {
	Debugf(msg string, kv ...any)
	Infof(msg string, kv ...any)
	Warnf(msg string, kv ...any)
	Errf(msg string, kv ...any)
}

// stumpyLogger adapts a *logiface.Logger[*stumpy.Event] to Logger. kv pairs
// are applied via Any, matching the loosely-typed call sites in this
// package (task/counter/alarm ids, statuses, durations).
type stumpyLogger struct {
	log *logiface.Logger[*stumpy.Event]
}

// NewStumpyLogger builds the structured logger that WithJSONLogging
// installs, writing newline-delimited JSON to w via stumpy, the teacher
// pack's logiface backend.
func NewStumpyLogger(w io.Writer) Logger {
	return &stumpyLogger{log: stumpy.L.New(stumpy.WithStumpy(stumpy.WithWriter(w)))}
}

func fields(b *logiface.Builder[*stumpy.Event], kv []any) *logiface.Builder[*stumpy.Event] {
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		b = b.Any(key, kv[i+1])
	}
	return b
}

func (l *stumpyLogger) Debugf(msg string, kv ...any) { fields(l.log.Debug(), kv).Log(msg) }
func (l *stumpyLogger) Infof(msg string, kv ...any)   { fields(l.log.Info(), kv).Log(msg) }
func (l *stumpyLogger) Warnf(msg string, kv ...any)   { fields(l.log.Warning(), kv).Log(msg) }
func (l *stumpyLogger) Errf(msg string, kv ...any)    { fields(l.log.Err(), kv).Log(msg) }

// noopLogger discards everything; used when no logger is configured.
type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Errf(string, ...any)   {}
