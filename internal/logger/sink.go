package logger

import (
	"encoding/json"
	"time"

	"go.uber.org/zap/zapcore"
)

// Sink receives log entries for persistence. Implementations must tolerate
// concurrent calls; errors are dropped here because logging must never
// break the operation being logged.
type Sink interface {
	WriteLog(level, message, context string, at time.Time) error
}

// sinkCore forwards entries at info and above to a Sink. Debug stays
// console-only to keep the log store small.
type sinkCore struct {
	sink   Sink
	fields []zapcore.Field
}

func newSinkCore(sink Sink) zapcore.Core {
	return &sinkCore{sink: sink}
}

func (c *sinkCore) Enabled(level zapcore.Level) bool {
	return level >= zapcore.InfoLevel
}

func (c *sinkCore) With(fields []zapcore.Field) zapcore.Core {
	combined := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	combined = append(combined, c.fields...)
	combined = append(combined, fields...)
	return &sinkCore{sink: c.sink, fields: combined}
}

func (c *sinkCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *sinkCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	context := ""
	if len(c.fields) > 0 || len(fields) > 0 {
		enc := zapcore.NewMapObjectEncoder()
		for _, f := range c.fields {
			f.AddTo(enc)
		}
		for _, f := range fields {
			f.AddTo(enc)
		}
		if data, err := json.Marshal(enc.Fields); err == nil {
			context = string(data)
		}
	}

	_ = c.sink.WriteLog(entry.Level.String(), entry.Message, context, entry.Time)
	return nil
}

func (c *sinkCore) Sync() error {
	return nil
}
