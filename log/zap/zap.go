// Package zap adapts a *zap.Logger to slotcache.Logger.
package zap

import (
	"sort"

	"github.com/unkn0wn-root/slotcache"
	"go.uber.org/zap"
)

var _ slotcache.Logger = Logger{}

// Logger forwards cache events to L. The "err" field becomes zap.Error so
// it lands under zap's standard error key.
type Logger struct{ L *zap.Logger }

// New wraps l; a nil l yields a no-op zap logger.
func New(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return Logger{L: l.Named("slotcache")}
}

func (z Logger) Debug(msg string, f slotcache.Fields) { z.L.Debug(msg, fields(f)...) }
func (z Logger) Info(msg string, f slotcache.Fields)  { z.L.Info(msg, fields(f)...) }
func (z Logger) Warn(msg string, f slotcache.Fields)  { z.L.Warn(msg, fields(f)...) }
func (z Logger) Error(msg string, f slotcache.Fields) { z.L.Error(msg, fields(f)...) }

func fields(f slotcache.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		if err, ok := f[k].(error); ok && k == "err" {
			out = append(out, zap.Error(err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
