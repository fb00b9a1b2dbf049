package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds call-scoped logging context for a single store
// operation (set_password, verify, ...): which account it acted on
// and under what identity, so every log line it produces carries that
// context without threading it through every call.
type LogContext struct {
	Operation string    // Store operation name
	Account   string    // Account-directory path
	Username  string    // Login name, if resolved
	UID       uint32    // Effective user ID
	GID       uint32    // Effective group ID
	StartTime time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for the given operation.
func NewLogContext(operation string) *LogContext {
	return &LogContext{
		Operation: operation,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	return &LogContext{
		Operation: lc.Operation,
		Account:   lc.Account,
		Username:  lc.Username,
		UID:       lc.UID,
		GID:       lc.GID,
		StartTime: lc.StartTime,
	}
}

// WithAccount returns a copy with the account path set
func (lc *LogContext) WithAccount(path string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Account = path
	}
	return clone
}

// WithAuth returns a copy with identity info set
func (lc *LogContext) WithAuth(username string, uid, gid uint32) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Username = username
		clone.UID = uid
		clone.GID = gid
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
