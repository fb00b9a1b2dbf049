package lcerrors

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestOfAndIs(t *testing.T) {
	err := IncorrectPasswordErr("verify.Check")
	if Of(err) != IncorrectPassword {
		t.Fatalf("Of() = %v, want IncorrectPassword", Of(err))
	}
	if !Is(err, IncorrectPassword) {
		t.Fatal("Is() = false, want true")
	}
	if Is(err, NotFound) {
		t.Fatal("Is() = true for wrong kind, want false")
	}
}

func TestOfUnwrapsWrappedError(t *testing.T) {
	base := AlreadyExistsErr("transaction.SetPassword", "/etc/users/1000/password-")
	wrapped := fmt.Errorf("retry later: %w", base)
	if !Is(wrapped, AlreadyExists) {
		t.Fatal("Is() did not see through fmt.Errorf wrapping")
	}
}

func TestOfNonLcError(t *testing.T) {
	if Of(errors.New("boom")) != Other {
		t.Fatal("Of() on a foreign error should return Other")
	}
	if Of(nil) != Other {
		t.Fatal("Of(nil) should return Other")
	}
}

func TestFromPathError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not exist", &os.PathError{Op: "open", Path: "x", Err: os.ErrNotExist}, NotFound},
		{"permission", &os.PathError{Op: "open", Path: "x", Err: os.ErrPermission}, PermissionDenied},
		{"exist", &os.PathError{Op: "open", Path: "x", Err: os.ErrExist}, AlreadyExists},
		{"other", &os.PathError{Op: "open", Path: "x", Err: errors.New("disk full")}, IO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromPathError("account.Name", "x", tt.err)
			if got.Kind != tt.want {
				t.Errorf("FromPathError() kind = %v, want %v", got.Kind, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("FromPathError() did not preserve the original error via Unwrap")
			}
		})
	}
}

func TestFromPathErrorNil(t *testing.T) {
	if FromPathError("op", "path", nil) != nil {
		t.Fatal("FromPathError(nil) should return nil")
	}
}

func TestErrorMessageIncludesContext(t *testing.T) {
	err := New(InvalidData, "account.UID", "/etc/users/1000/uid", errors.New("bad int"))
	msg := err.Error()
	for _, want := range []string{"account.UID", "invalid data", "/etc/users/1000/uid", "bad int"} {
		if !contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && (needle == "" ||
		func() bool {
			for i := 0; i+len(needle) <= len(haystack); i++ {
				if haystack[i:i+len(needle)] == needle {
					return true
				}
			}
			return false
		}())
}
