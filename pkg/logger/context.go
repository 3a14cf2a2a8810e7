package logger

import (
	"context"
	"sync"
)

var (
	contextKeysMu      sync.RWMutex
	contextKeyRegistry = make(map[interface{}]string)
)

// RegisterContextKey makes *FCtx log calls copy ctx.Value(ctxKey) into logField.
func RegisterContextKey(ctxKey interface{}, logField string) {
	contextKeysMu.Lock()
	defer contextKeysMu.Unlock()
	contextKeyRegistry[ctxKey] = logField
}

// WithRequestID stores a request id where the transport and the *FCtx
// logging helpers will find it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestIDFrom returns the request id stored by WithRequestID.
func RequestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func withContext(ctx context.Context) []any {
	contextKeysMu.RLock()
	defer contextKeysMu.RUnlock()
	fields := make([]any, 0, len(contextKeyRegistry)*2)
	for key, fieldName := range contextKeyRegistry {
		if val := ctx.Value(key); val != nil {
			fields = append(fields, fieldName, val)
		}
	}
	return fields
}
