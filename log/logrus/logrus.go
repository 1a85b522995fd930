// Package logrus adapts a logrus entry to slotcache.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/slotcache"
)

var _ slotcache.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

// New tags every record with component=slotcache. A nil logger uses
// logrus.StandardLogger().
func New(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return Logger{E: l.WithField("component", "slotcache")}
}

func (l Logger) Debug(msg string, f slotcache.Fields) { l.with(f).Debug(msg) }
func (l Logger) Info(msg string, f slotcache.Fields)  { l.with(f).Info(msg) }
func (l Logger) Warn(msg string, f slotcache.Fields)  { l.with(f).Warn(msg) }
func (l Logger) Error(msg string, f slotcache.Fields) { l.with(f).Error(msg) }

func (l Logger) with(f slotcache.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	e := l.E
	if err, ok := f["err"].(error); ok {
		e = e.WithError(err)
		rest := make(logrus.Fields, len(f)-1)
		for k, v := range f {
			if k != "err" {
				rest[k] = v
			}
		}
		return e.WithFields(rest)
	}
	return e.WithFields(logrus.Fields(f))
}
