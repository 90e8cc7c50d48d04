// Package log is the logger used by the task server and its storage layers.
package log

import "context"

// Kv is a set of structured key/value fields.
type Kv = map[string]any

// Logger is the logging interface. Implementations must be safe for
// concurrent use.
type Logger interface {
	Infof(format string, args ...any)
	Warningf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
	WithValues(values Kv) Logger
	WithCtxValues(ctx context.Context) Logger
	SetValuesOnCtx(parent context.Context, values Kv) context.Context
}

// Noop discards everything.
var Noop Logger = noop(0)

type noop int

func (noop) Infof(string, ...any)                                    {}
func (noop) Warningf(string, ...any)                                 {}
func (noop) Errorf(string, ...any)                                   {}
func (noop) Debugf(string, ...any)                                   {}
func (n noop) WithValues(Kv) Logger                                  { return n }
func (n noop) WithCtxValues(context.Context) Logger                  { return n }
func (noop) SetValuesOnCtx(ctx context.Context, _ Kv) context.Context { return ctx }

type ctxKey int

const valuesKey ctxKey = iota

// CtxWithValues returns a context carrying values merged over any fields
// already present in parent.
func CtxWithValues(parent context.Context, values Kv) context.Context {
	merged := Kv{}
	for k, v := range ValuesFromCtx(parent) {
		merged[k] = v
	}
	for k, v := range values {
		merged[k] = v
	}
	return context.WithValue(parent, valuesKey, merged)
}

// ValuesFromCtx returns the fields stored in ctx, or nil.
func ValuesFromCtx(ctx context.Context) Kv {
	v, _ := ctx.Value(valuesKey).(Kv)
	return v
}
