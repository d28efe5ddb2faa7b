package domain

import "context"

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
)

// ContextString reads key from ctx. gin stores values under the plain string
// key (c.Set) while context.WithValue callers use the typed key; both work.
func ContextString(ctx context.Context, key CtxKey) string {
	if v, ok := ctx.Value(string(key)).(string); ok && v != "" {
		return v
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
