package log

import (
	"encoding/json"
	"time"
)

// Entry is one structured log record.
type Entry struct {
	Time      time.Time
	Level     Level
	Caller    string
	RequestID string
	Message   string
	Fields    map[string]any
}

func newEntry(level Level, msg string) Entry {
	return Entry{
		Time:    time.Now(),
		Level:   level,
		Message: msg,
		Fields:  make(map[string]any),
	}
}

// addPairs copies alternating key/value arguments into fields. Non-string
// keys and a trailing odd key are skipped.
func addPairs(fields map[string]any, keysAndValues []any) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		v := keysAndValues[i+1]
		if err, isErr := v.(error); isErr && err != nil {
			v = err.Error()
		}
		fields[key] = v
	}
}

// MarshalJSON flattens fields into the top-level object next to the fixed keys.
func (e Entry) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(e.Fields)+5)
	for k, v := range e.Fields {
		m[k] = v
	}
	m["time"] = e.Time.UTC().Format(time.RFC3339Nano)
	m["level"] = e.Level.String()
	m["msg"] = e.Message
	if e.Caller != "" {
		m["caller"] = e.Caller
	}
	if e.RequestID != "" {
		m["request_id"] = e.RequestID
	}
	return json.Marshal(m)
}
