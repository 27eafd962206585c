package logger

import "github.com/rs/zerolog"

// Zerolog forwards log lines to a zerolog.Logger.
type Zerolog struct {
	zl zerolog.Logger
}

var _ Logger = (*Zerolog)(nil)

// NewZerolog wraps zl.
func NewZerolog(zl zerolog.Logger) *Zerolog {
	return &Zerolog{zl: zl}
}

func (z *Zerolog) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return z
	}
	ctx := z.zl.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key, f.Value)
	}
	return &Zerolog{zl: ctx.Logger()}
}

func (z *Zerolog) Debug(msg string, fields ...Field) { write(z.zl.Debug(), msg, fields) }
func (z *Zerolog) Info(msg string, fields ...Field)  { write(z.zl.Info(), msg, fields) }
func (z *Zerolog) Warn(msg string, fields ...Field)  { write(z.zl.Warn(), msg, fields) }
func (z *Zerolog) Error(msg string, fields ...Field) { write(z.zl.Error(), msg, fields) }

func write(evt *zerolog.Event, msg string, fields []Field) {
	if evt == nil {
		return
	}
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			evt = evt.AnErr(f.Key, err)
			continue
		}
		evt = evt.Interface(f.Key, f.Value)
	}
	evt.Msg(msg)
}
