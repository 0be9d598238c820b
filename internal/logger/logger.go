// Package logger fans log calls out to the configured backends. Calls made
// before Init are dropped, which keeps library packages quiet in tests.
package logger

import "sync/atomic"

// Instance is a logging backend.
type Instance interface {
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
}

type fanout struct {
	instances []Instance
}

var current atomic.Pointer[fanout]

// Init replaces the active backends.
func Init(instances ...Instance) {
	current.Store(&fanout{instances: instances})
}

// Reset drops all backends.
func Reset() {
	current.Store(nil)
}

func each(fn func(Instance)) {
	f := current.Load()
	if f == nil {
		return
	}
	for _, in := range f.instances {
		fn(in)
	}
}

func Debug(message string, keyvals ...any) {
	each(func(in Instance) { in.Debug(message, keyvals...) })
}

func Info(message string, keyvals ...any) {
	each(func(in Instance) { in.Info(message, keyvals...) })
}

func Warn(message string, keyvals ...any) {
	each(func(in Instance) { in.Warn(message, keyvals...) })
}

func Error(message string, keyvals ...any) {
	each(func(in Instance) { in.Error(message, keyvals...) })
}
