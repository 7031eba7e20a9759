package log

import "context"

type contextKey int

const (
	requestIDKey contextKey = iota
	fieldsKey
)

// WithRequestID tags ctx with a request id. Verification runs use their
// request uuid, HTTP requests the X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns "" when ctx is nil or untagged.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithFields returns a context carrying the given fields merged over any
// fields already on ctx.
func WithFields(ctx context.Context, keysAndValues ...any) context.Context {
	existing := FieldsFromContext(ctx)
	fields := make(map[string]any, len(existing)+len(keysAndValues)/2)
	for k, v := range existing {
		fields[k] = v
	}
	addPairs(fields, keysAndValues)
	return context.WithValue(ctx, fieldsKey, fields)
}

// FieldsFromContext returns nil when no fields are set.
func FieldsFromContext(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey).(map[string]any)
	return fields
}
