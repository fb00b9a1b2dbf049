package logger

import (
	"log/slog"
)

// Standard field keys for structured logging across the account and
// credential store. Every core package (pkg/transaction, pkg/verify)
// logs with these keys so log aggregation/querying stays consistent
// regardless of which operation produced the line.
const (
	// KeyOperation names the store operation: set_password,
	// expire_password, disable_password, enable_password,
	// remove_password, verify.
	KeyOperation = "operation"

	// KeyAccount is the absolute account-directory path an operation
	// acted on.
	KeyAccount = "account"

	// KeyUsername is the login name associated with an account, when known.
	KeyUsername = "username"

	KeyUID = "uid" // Effective user ID
	KeyGID = "gid" // Effective (primary) group ID

	// KeyOutcome is the short machine-readable result of an operation;
	// pkg/verify logs ok, expired, not_found, disabled,
	// incorrect_password, or error.
	KeyOutcome    = "outcome"
	KeyOutcomeMsg = "outcome_msg" // Human-readable elaboration of KeyOutcome

	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyErrorCode  = "error_code"  // lcerrors.Kind, as an integer

	KeyPath      = "path"      // Filesystem path a failure occurred at
	KeyAttempt   = "attempt"   // Retry attempt number (sentinel contention)
	KeyAlgorithm = "algorithm" // Hash algorithm label, for digest timing
)

// Operation returns a slog.Attr naming the store operation.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Account returns a slog.Attr for the account-directory path.
func Account(path string) slog.Attr {
	return slog.String(KeyAccount, path)
}

// Username returns a slog.Attr for a login name.
func Username(name string) slog.Attr {
	return slog.String(KeyUsername, name)
}

// UID returns a slog.Attr for a user ID.
func UID(uid uint32) slog.Attr {
	return slog.Any(KeyUID, uid)
}

// GID returns a slog.Attr for a group ID.
func GID(gid uint32) slog.Attr {
	return slog.Any(KeyGID, gid)
}

// Outcome returns a slog.Attr for a short machine-readable result.
func Outcome(outcome string) slog.Attr {
	return slog.String(KeyOutcome, outcome)
}

// OutcomeMsg returns a slog.Attr for a human-readable elaboration of Outcome.
func OutcomeMsg(msg string) slog.Attr {
	return slog.String(KeyOutcomeMsg, msg)
}

// DurationMs returns a slog.Attr for duration in milliseconds.
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error, or a zero Attr for a nil error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for a numeric error classification.
func ErrorCode(code int) slog.Attr {
	return slog.Int(KeyErrorCode, code)
}

// Path returns a slog.Attr for a filesystem path.
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Attempt returns a slog.Attr for a retry attempt number.
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}

// Algorithm returns a slog.Attr for a hash algorithm label.
func Algorithm(name string) slog.Attr {
	return slog.String(KeyAlgorithm, name)
}
