package middleware

import "context"

type contextKey string

const (
	ctxStoreID      contextKey = "store_id"
	ctxHeadOfficeID contextKey = "head_office_id"
)

func StoreIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxStoreID).(string); ok {
		return v
	}
	return ""
}

func HeadOfficeIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxHeadOfficeID).(string); ok {
		return v
	}
	return ""
}

// WithStoreID injects the store identifier into the context for downstream handlers.
func WithStoreID(ctx context.Context, storeID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxStoreID, storeID)
}

// WithHeadOfficeID injects the store's head office identifier into the context.
func WithHeadOfficeID(ctx context.Context, headOfficeID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxHeadOfficeID, headOfficeID)
}
