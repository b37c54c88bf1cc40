// Package errors carries process exit codes alongside errors so the binary
// can distinguish configuration problems from discovery or serving failures.
package errors

type ExitCodeError struct {
	code ExitCode
	error
}

func NewError(err error, exitCode ExitCode) *ExitCodeError {
	if err == nil {
		return nil
	}
	return &ExitCodeError{exitCode, err}
}

func (e *ExitCodeError) GetExitCode() ExitCode {
	if e == nil {
		return 0
	}
	return e.code
}

// Cause returns the wrapped error, which lets pkg/errors.Cause see through us.
func (e *ExitCodeError) Cause() error {
	if e == nil {
		return nil
	}
	return e.error
}
