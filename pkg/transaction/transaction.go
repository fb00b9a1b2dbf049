// Package transaction implements CredentialTransaction: the exclusive
// sentinel-file and atomic-rename protocol that every mutation of a
// password file goes through. A "password-" sentinel in the account
// directory acts as a cross-process mutex: its exclusive creation
// (O_CREATE|O_EXCL) is the lock acquisition, and it is always removed
// on the way out, success or failure.
package transaction

import (
	"crypto/rand"
	"os"
	"time"

	"github.com/lc-login/lc-login/internal/logger"
	"github.com/lc-login/lc-login/pkg/account"
	"github.com/lc-login/lc-login/pkg/credential"
	"github.com/lc-login/lc-login/pkg/hash"
	"github.com/lc-login/lc-login/pkg/lcerrors"
	"github.com/lc-login/lc-login/pkg/metrics"
)

const sentinelName = "password-"

// reg is the metrics.Registry transactions report to, or nil if the
// caller never wired one up. There is no package-level default
// registry: main calls SetMetrics once at startup after constructing
// its own metrics.Registry.
var reg *metrics.Registry

// SetMetrics installs the metrics.Registry this package reports
// transaction outcomes and sentinel contention to. Passing nil
// disables metrics reporting.
func SetMetrics(r *metrics.Registry) { reg = r }

// observe records the outcome of operation and logs it at Info (or
// Warn, if it failed).
func observe(operation string, h account.Handle, start time.Time, err error) {
	if reg != nil {
		reg.ObserveTransaction(operation, err)
	}
	fields := []any{
		logger.Operation(operation),
		logger.Account(h.Path()),
		logger.DurationMs(logger.Duration(start)),
	}
	if err != nil {
		logger.Warn("credential transaction failed", append(fields, logger.Err(err))...)
		return
	}
	logger.Info("credential transaction succeeded", fields...)
}

// begin exclusively creates the sentinel file in the account
// directory, returning an AlreadyExists error if another writer is
// already in flight.
func begin(h account.Handle) (string, error) {
	sentinel := h.Join(sentinelName)
	f, err := os.OpenFile(sentinel, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsExist(err) {
			if reg != nil {
				reg.ObserveSentinelBusy()
			}
			return "", lcerrors.AlreadyExistsErr("transaction.begin", sentinel)
		}
		return "", lcerrors.FromPathError("transaction.begin", sentinel, err)
	}
	f.Close()
	return sentinel, nil
}

// end removes the sentinel file unconditionally, regardless of how the
// transaction concluded.
func end(sentinel string) {
	_ = os.Remove(sentinel)
}

// writeRecord writes rec into the already-exclusively-created sentinel
// file and renames it over path atomically — readers of path never
// observe a partially written password file (spec §4.4 steps 5-6: the
// sentinel itself is the staging buffer, not a separate temp file).
func writeRecord(sentinel, path string, rec credential.Record) error {
	b := rec.Encode()
	if err := os.WriteFile(sentinel, b, 0o600); err != nil {
		return lcerrors.FromPathError("transaction.writeRecord", sentinel, err)
	}
	if err := os.Rename(sentinel, path); err != nil {
		return lcerrors.FromPathError("transaction.writeRecord", path, err)
	}
	return nil
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

func readRecord(path string) (credential.Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return credential.Record{}, lcerrors.FromPathError("transaction.readRecord", path, err)
	}
	return credential.DecodeRecord(b)
}

// SetPassword hashes password under header with a freshly generated
// salt and atomically installs the resulting record as the account's
// password file. Callers resolve header (site authtemplate or
// built-in default) before calling this.
func SetPassword(h account.Handle, password []byte, header credential.Header) (err error) {
	start := time.Now()
	defer func() { observe("set_password", h, start, err) }()

	sentinel, err := begin(h)
	if err != nil {
		return err
	}
	defer end(sentinel)

	salt := make([]byte, header.SaltSize)
	if _, rerr := rand.Read(salt); rerr != nil {
		err = lcerrors.New(lcerrors.IO, "transaction.SetPassword", "", rerr)
		return err
	}
	defer credential.Zero(salt)

	digest, derr := timedDigest(header, password, salt)
	if derr != nil {
		err = derr
		return err
	}
	defer credential.Zero(digest)

	rec := credential.Record{Header: header, Salt: salt, Digest: digest}
	err = writeRecord(sentinel, h.PasswordPath(), rec)
	return err
}

// setExpiry rewrites the account's stored expiry timestamp in place,
// leaving algorithm, salt, and digest untouched. Used by
// ExpirePassword/UnexpirePassword.
func setExpiry(operation string, h account.Handle, expiry time.Time) (err error) {
	start := time.Now()
	defer func() { observe(operation, h, start, err) }()

	sentinel, err := begin(h)
	if err != nil {
		return err
	}
	defer end(sentinel)

	rec, rerr := readRecord(h.PasswordPath())
	if rerr != nil {
		err = rerr
		return err
	}
	if expiry.IsZero() {
		rec.Header.ExpirySeconds = 0
	} else {
		rec.Header.ExpirySeconds = uint64(expiry.Unix())
	}
	err = writeRecord(sentinel, h.PasswordPath(), rec)
	return err
}

// ExpirePassword sets the account's expiry to at (or now, if at is the
// zero Time), forcing the next authentication to require a change. An
// instant before the unix epoch is rejected as InvalidData.
func ExpirePassword(h account.Handle, at time.Time) error {
	if at.IsZero() {
		at = time.Now()
	}
	if at.Unix() < 0 {
		return lcerrors.InvalidDataf("transaction.ExpirePassword", "expiry instant %s is before the unix epoch", at)
	}
	return setExpiry("expire_password", h, at)
}

// UnexpirePassword clears the account's expiry timestamp.
func UnexpirePassword(h account.Handle) error {
	return setExpiry("unexpire_password", h, time.Time{})
}

// setAuthDisabled flips the account's credential between enabled and
// disabled in place, within the single "password" file: disabling
// writes a leading header with algorithm/salt-mode set to the disabled
// sentinels and salt_size=0, followed by the original header, salt,
// and digest as a preserved inner payload (per spec §4.4); enabling
// strips that leading header back off and restores the inner record
// verbatim. No sidecar file is used — the wrapped record is itself a
// valid password-file byte stream, recursively decodable the same way.
func setAuthDisabled(operation string, h account.Handle, disabled bool) (err error) {
	start := time.Now()
	defer func() { observe(operation, h, start, err) }()

	sentinel, berr := begin(h)
	if berr != nil {
		err = berr
		return err
	}
	defer end(sentinel)

	rec, rerr := readRecord(h.PasswordPath())
	if rerr != nil {
		err = rerr
		return err
	}

	if disabled {
		if rec.Header.Disabled() {
			return nil
		}
		wrapper := credential.Header{
			Version:           credential.CurrentVersion,
			Algorithm:         credential.AlgDisabled,
			SaltAndRepetition: credential.EncodeSaltAndRepetition(credential.SaltDisabled, 0),
			SaltSize:          0,
		}
		wrapped := credential.Record{Header: wrapper, Salt: nil, Digest: rec.Encode()}
		err = writeRecord(sentinel, h.PasswordPath(), wrapped)
		return err
	}

	if !rec.Header.Disabled() {
		return nil
	}
	inner, ierr := credential.DecodeRecord(rec.Digest)
	if ierr != nil {
		err = ierr
		return err
	}
	err = writeRecord(sentinel, h.PasswordPath(), inner)
	return err
}

// DisablePassword marks the account's credential as disabled ("lock"),
// stashing the original algorithm/salt-mode so EnablePassword can
// restore it.
func DisablePassword(h account.Handle) error { return setAuthDisabled("disable_password", h, true) }

// EnablePassword restores a credential previously disabled via
// DisablePassword.
func EnablePassword(h account.Handle) error { return setAuthDisabled("enable_password", h, false) }

// RemovePassword deletes the account's password file entirely,
// leaving the account with no credential (passwordless login). It is
// idempotent: removing an already-absent password file is not an error.
func RemovePassword(h account.Handle) (err error) {
	start := time.Now()
	defer func() { observe("remove_password", h, start, err) }()

	sentinel, berr := begin(h)
	if berr != nil {
		err = berr
		return err
	}
	defer end(sentinel)

	if rerr := os.Remove(h.PasswordPath()); rerr != nil && !os.IsNotExist(rerr) {
		err = lcerrors.FromPathError("transaction.RemovePassword", h.PasswordPath(), rerr)
		return err
	}
	return nil
}
