package launcher

import (
	"errors"
	"io/fs"
	"os/exec"
	"syscall"
)

// Exit codes for launch failures, following shell conventions.
const (
	ExitPermissionDenied = 126
	ExitNotFound         = 127
	ExitFailure          = 1
)

// Command is the target program and its arguments.
type Command struct {
	Target string
	Args   []string
}

// Exec replaces the current process with the target command.
// It does not return on success; on failure the returned error can be
// classified with IsNotFound and IsPermissionDenied.
func Exec(cmd Command, environ []string) error {
	execPath, err := exec.LookPath(cmd.Target)
	if err != nil {
		return err
	}

	// argv[0] is the command as given
	argv := append([]string{cmd.Target}, cmd.Args...)

	return syscall.Exec(execPath, argv, environ)
}

// IsNotFound checks if the error indicates the command was not found
func IsNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// IsPermissionDenied checks if the error indicates permission was denied
func IsPermissionDenied(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}

// ExitCode maps a launch error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsNotFound(err):
		return ExitNotFound
	case IsPermissionDenied(err):
		return ExitPermissionDenied
	default:
		return ExitFailure
	}
}
