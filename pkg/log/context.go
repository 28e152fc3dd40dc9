package log

import "context"

type contextKey int

const (
	requestIDKey contextKey = iota
	fieldsKey
)

// WithRequestID attaches a request id to the context. Loggers pick it up
// automatically in the *Ctx variants.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request id, or "" if absent.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithFields attaches structured fields to the context, merged over any
// fields already present.
func WithFields(ctx context.Context, keysAndValues ...any) context.Context {
	fields := make(map[string]any)
	for k, v := range FieldsFromContext(ctx) {
		fields[k] = v
	}
	mergeFields(fields, keysAndValues)
	return context.WithValue(ctx, fieldsKey, fields)
}

// FieldsFromContext returns fields attached to the context, or nil.
func FieldsFromContext(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey).(map[string]any)
	return fields
}
