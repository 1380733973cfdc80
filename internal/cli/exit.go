package cli

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitOK             = 0
	ExitConfig         = 1
	ExitTxtInput       = 3
	ExitCSV            = 4
	ExitDownloadFailed = 5
	ExitInterrupted    = 130
)

// ExitError carries the exit code the process should terminate with.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by the root command onto a process exit
// code. Errors without an explicit code are usage errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitConfig
}
