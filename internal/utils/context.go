// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys,
// HTTP response writing, HTTP client initialization, JWT token generation
// and validation, and other common operations.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// WalletCtxKey is the key under which the authenticated wallet address of
// the current session is stored.
var WalletCtxKey = contextKey("wallet")

// AdminCtxKey marks a session whose wallet is on the admin list.
var AdminCtxKey = contextKey("admin")

// WithSession returns a copy of ctx carrying the session wallet and its
// admin flag.
func WithSession(ctx context.Context, wallet string, isAdmin bool) context.Context {
	ctx = context.WithValue(ctx, WalletCtxKey, wallet)
	return context.WithValue(ctx, AdminCtxKey, isAdmin)
}

// GetWalletFromContext retrieves the session wallet address.
//
// Returns ok == false when no session wallet is present.
func GetWalletFromContext(ctx context.Context) (string, bool) {
	wallet, ok := ctx.Value(WalletCtxKey).(string)
	return wallet, ok && wallet != ""
}

// IsAdminFromContext reports whether the session belongs to an admin.
func IsAdminFromContext(ctx context.Context) bool {
	isAdmin, _ := ctx.Value(AdminCtxKey).(bool)
	return isAdmin
}

// TraceIDCtxKey holds the trace id of the request that created the context.
var TraceIDCtxKey = contextKey("trace_id")

// WithTraceID returns a copy of ctx carrying traceID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDCtxKey, traceID)
}

// GetTraceIDFromContext retrieves the request trace id, if any.
func GetTraceIDFromContext(ctx context.Context) (string, bool) {
	traceID, ok := ctx.Value(TraceIDCtxKey).(string)
	return traceID, ok && traceID != ""
}
