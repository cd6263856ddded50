package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// NewJSONLogger creates a root logger writing to writer at level
func NewJSONLogger(writer io.Writer, level Level) *JSONLogger {
	l := &JSONLogger{
		writer: writer,
		level:  new(atomic.Int32),
		mu:     &sync.Mutex{},
	}
	l.level.Store(int32(level))
	return l
}

// enabled is checked before any field is copied
func (l *JSONLogger) enabled(level Level) bool {
	return level >= Level(l.level.Load())
}

func (l *JSONLogger) log(level Level, msg string, fields []Field) {
	if !l.enabled(level) {
		return
	}

	entry := LogEntry{
		Time:    time.Now().UTC().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}
	if n := len(l.fields) + len(fields); n > 0 {
		entry.Fields = make(map[string]any, n)
		for _, f := range l.fields {
			entry.Fields[f.Key] = f.Value
		}
		// Call-site fields override preset ones with the same key.
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		data = fmt.Appendf(nil, `{"level":"ERROR","msg":"unencodable log entry","error":%q}`, err.Error())
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer.Write(data)
}

func (l *JSONLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *JSONLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *JSONLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *JSONLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

// With returns a child that prepends fields to every entry
func (l *JSONLogger) With(fields ...Field) Logger {
	preset := make([]Field, 0, len(l.fields)+len(fields))
	preset = append(preset, l.fields...)
	preset = append(preset, fields...)
	return &JSONLogger{
		writer: l.writer,
		level:  l.level,
		fields: preset,
		mu:     l.mu,
	}
}

func (l *JSONLogger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

func (l *JSONLogger) GetLevel() Level {
	return Level(l.level.Load())
}

// StartTimer begins timing an operation logged as msg when it ends
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: OrNop(logger),
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// Elapsed returns the time since the timer was started
func (t *TimedOperation) Elapsed() time.Duration {
	return time.Since(t.start)
}

func (t *TimedOperation) finish(emit func(string, ...Field), extra ...Field) time.Duration {
	elapsed := time.Since(t.start)
	fields := make([]Field, 0, len(t.fields)+len(extra)+1)
	fields = append(fields, t.fields...)
	fields = append(fields, extra...)
	fields = append(fields, Latency(elapsed))
	emit(t.msg, fields...)
	return elapsed
}

// End logs the operation at info level and returns its duration
func (t *TimedOperation) End(extra ...Field) time.Duration {
	return t.finish(t.logger.Info, extra...)
}

// EndDebug is End at debug level, used for per-chunk timings
func (t *TimedOperation) EndDebug(extra ...Field) time.Duration {
	return t.finish(t.logger.Debug, extra...)
}

// EndError logs the operation as failed with err
func (t *TimedOperation) EndError(err error) time.Duration {
	return t.finish(t.logger.Error, Error(err))
}
