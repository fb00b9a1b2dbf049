// Package prompt wraps promptui for lc-useradm's interactive prompts:
// password entry with confirmation, and yes/no confirmation before a
// destructive credential operation (disable, remove).
package prompt

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user aborts a prompt (Ctrl+C).
var ErrAborted = errors.New("aborted")

// ErrPasswordMismatch indicates the password and its confirmation differ.
var ErrPasswordMismatch = errors.New("passwords do not match")

// IsAborted reports whether err indicates the user aborted a prompt.
func IsAborted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, ErrAborted)
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if IsAborted(err) {
		return ErrAborted
	}
	return err
}

// Confirm prompts for yes/no confirmation, defaulting to defaultYes
// when the user presses Enter without typing anything.
func Confirm(label string, defaultYes bool) (bool, error) {
	defaultStr := "y/N"
	if defaultYes {
		defaultStr = "Y/n"
	}
	p := promptui.Prompt{
		Label:     fmt.Sprintf("%s [%s]", label, defaultStr),
		IsConfirm: true,
	}
	result, err := p.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			return false, ErrAborted
		}
		if err == promptui.ErrAbort {
			return false, nil
		}
		if result == "" {
			return defaultYes, nil
		}
		return false, err
	}
	return true, nil
}

// ConfirmWithForce returns true immediately when force is set,
// otherwise prompts for confirmation.
func ConfirmWithForce(label string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	return Confirm(label, false)
}

// Password prompts for a single masked password input.
func Password(label string) (string, error) {
	p := promptui.Prompt{Label: label, Mask: '*'}
	result, err := p.Run()
	return result, wrapError(err)
}

// PasswordWithMinLength prompts for a masked password, rejecting
// anything shorter than minLength.
func PasswordWithMinLength(label string, minLength int) (string, error) {
	p := promptui.Prompt{
		Label: label,
		Mask:  '*',
		Validate: func(input string) error {
			if len(input) < minLength {
				return fmt.Errorf("password must be at least %d characters", minLength)
			}
			return nil
		},
	}
	result, err := p.Run()
	return result, wrapError(err)
}

// NewPassword prompts for a new password and a confirmation,
// returning ErrPasswordMismatch if they differ.
func NewPassword(minLength int) (string, error) {
	password, err := PasswordWithMinLength("New password", minLength)
	if err != nil {
		return "", err
	}
	confirm, err := Password("Confirm password")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", ErrPasswordMismatch
	}
	return password, nil
}
