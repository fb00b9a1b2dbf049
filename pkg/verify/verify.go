// Package verify implements AuthVerifier: read-only credential
// verification against a stored PasswordRecord, independent of the
// write-side transaction protocol in pkg/transaction.
package verify

import (
	"crypto/subtle"
	"os"
	"time"

	"github.com/lc-login/lc-login/internal/logger"
	"github.com/lc-login/lc-login/pkg/account"
	"github.com/lc-login/lc-login/pkg/credential"
	"github.com/lc-login/lc-login/pkg/hash"
	"github.com/lc-login/lc-login/pkg/lcerrors"
	"github.com/lc-login/lc-login/pkg/metrics"
)

// reg is the metrics.Registry verification outcomes are reported to,
// or nil if the caller never wired one up.
var reg *metrics.Registry

// SetMetrics installs the metrics.Registry this package reports
// verification outcomes to. Passing nil disables metrics reporting.
func SetMetrics(r *metrics.Registry) { reg = r }

// outcomeLabel classifies the result of an attempt for both the
// verify_total metric and the structured log line below. expired is
// only meaningful when err is nil.
func outcomeLabel(expired bool, err error) string {
	if err == nil {
		if expired {
			return "expired"
		}
		return "ok"
	}
	switch lcerrors.Of(err) {
	case lcerrors.NotFound:
		return "not_found"
	case lcerrors.AuthDisabled:
		return "disabled"
	case lcerrors.IncorrectPassword:
		return "incorrect_password"
	default:
		return "error"
	}
}

// Verify checks password against the account's stored credential. On a
// digest match it returns (expired, nil), where expired reports
// whether the stored expiry has already passed — the caller decides
// what to do with an expired-but-correct credential (e.g. force a
// password change) rather than treating it as a failed login. It
// returns lcerrors.AuthDisabled if the stored header marks
// authentication disabled, lcerrors.NotFound if there is no password
// file at all, and lcerrors.IncorrectPassword on any digest mismatch
// (including a mismatched digest length, which is treated as a
// mismatch rather than an InvalidData error so callers can't
// distinguish record shape from a wrong password).
//
// Logs one structured event per attempt, tagged with the outcome, and
// reports the same outcome to the installed metrics.Registry.
func Verify(h account.Handle, password []byte) (expired bool, err error) {
	defer func() {
		outcome := outcomeLabel(expired, err)
		if reg != nil {
			reg.ObserveVerify(outcome)
		}
		fields := []any{logger.Operation("verify"), logger.Account(h.Path()), logger.Outcome(outcome)}
		if err != nil && outcome == "error" {
			logger.Warn("verification attempt failed", append(fields, logger.Err(err))...)
			return
		}
		logger.Info("verification attempt", fields...)
	}()

	b, rerr := os.ReadFile(h.PasswordPath())
	if rerr != nil {
		err = lcerrors.FromPathError("verify.Verify", h.PasswordPath(), rerr)
		return false, err
	}
	rec, derr := credential.DecodeRecord(b)
	if derr != nil {
		err = derr
		return false, err
	}
	if rec.Header.Disabled() {
		err = lcerrors.AuthDisabledErr("verify.Verify")
		return false, err
	}

	digest, herr := timedDigest(rec.Header, password, rec.Salt)
	if herr != nil {
		err = herr
		return false, err
	}
	defer credential.Zero(digest)

	if len(digest) != len(rec.Digest) || subtle.ConstantTimeCompare(digest, rec.Digest) != 1 {
		err = lcerrors.IncorrectPasswordErr("verify.Verify")
		return false, err
	}

	return Expired(rec.Header), nil
}

// timedDigest wraps hash.Digest with a metrics.Registry observation
// when one is installed, labeled by the header's algorithm code.
func timedDigest(header credential.Header, password, salt []byte) ([]byte, error) {
	if reg != nil {
		stop := reg.TimeDigest(credential.AlgorithmName(header.Algorithm))
		defer stop()
	}
	return hash.Digest(header, password, salt)
}

// Expired reports whether header's expiry has passed. A zero
// ExpirySeconds means the credential never expires.
func Expired(header credential.Header) bool {
	if header.ExpirySeconds == 0 {
		return false
	}
	return time.Now().Unix() >= int64(header.ExpirySeconds)
}
