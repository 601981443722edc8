package cli

import (
	"errors"
	"fmt"
)

// Exit codes returned by the purgebot command. Scripts rely on the
// distinction between a command failure and a configuration problem.
const (
	// ExitOK means the command succeeded.
	ExitOK = 0
	// ExitFailure means the command failed at runtime.
	ExitFailure = 1
	// ExitConfig means the configuration was invalid or unreadable.
	ExitConfig = 2
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config error: %s", e.Message)
	}
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// ExitCode returns the process exit code for configuration errors.
func (e *ConfigError) ExitCode() int {
	return ExitConfig
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code for command failures.
func (e *CommandError) ExitCode() int {
	return ExitFailure
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps an error to a process exit code. Configuration errors
// map to ExitConfig, everything else to ExitFailure, nil to ExitOK.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var exitErr interface{ ExitCode() int }
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return ExitFailure
}
