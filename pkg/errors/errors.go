// Package errors provides structured error handling for walletsync.
// It defines the error taxonomy of the session bootstrap engine, exit codes,
// and helpers for adding context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess   = 0 // Successful execution
	ExitGeneral   = 1 // General/unknown error
	ExitInput     = 2 // Invalid input
	ExitIO        = 3 // Snapshot I/O failed
	ExitNotFound  = 4 // Resource not found
	ExitWallet    = 5 // Wallet construction or observation failed
	ExitCancelled = 6 // Operation canceled or deadline exceeded
)

// SyncError is the structured error type for walletsync.
type SyncError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for the operator
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *SyncError) Error() string {
	msg := e.Message

	// Details are sorted for deterministic output
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *SyncError) Unwrap() error {
	return e.Cause
}

// Is matches two SyncErrors by code.
func (e *SyncError) Is(target error) bool {
	var t *SyncError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &SyncError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &SyncError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrNotFound = &SyncError{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	// ErrIOFailure covers snapshot reads and writes that failed below the
	// "does not exist" level.
	ErrIOFailure = &SyncError{
		Code:     "IO_FAILURE",
		Message:  "snapshot i/o failed",
		ExitCode: ExitIO,
	}

	// ErrObservationFailure means the wallet state stream errored or ended
	// before the awaited condition held.
	ErrObservationFailure = &SyncError{
		Code:     "OBSERVATION_FAILURE",
		Message:  "wallet state stream ended before condition was met",
		ExitCode: ExitWallet,
	}

	// ErrWalletConstruction is the terminal failure of a session acquire:
	// the fresh build from seed did not produce a running wallet.
	ErrWalletConstruction = &SyncError{
		Code:     "WALLET_CONSTRUCTION_FAILURE",
		Message:  "wallet construction failed",
		ExitCode: ExitWallet,
	}

	ErrSnapshotInvalid = &SyncError{
		Code:     "SNAPSHOT_INVALID",
		Message:  "snapshot does not carry a usable sync offset",
		ExitCode: ExitInput,
	}

	ErrCanceled = &SyncError{
		Code:     "CANCELED",
		Message:  "operation canceled",
		ExitCode: ExitCancelled,
	}

	ErrInvalidSeed = &SyncError{
		Code:     "INVALID_SEED",
		Message:  "invalid wallet seed",
		ExitCode: ExitInput,
	}

	ErrInvalidMnemonic = &SyncError{
		Code:     "INVALID_MNEMONIC",
		Message:  "invalid mnemonic phrase",
		ExitCode: ExitInput,
	}

	ErrInvalidSlot = &SyncError{
		Code:     "INVALID_SLOT",
		Message:  "invalid snapshot slot name",
		ExitCode: ExitInput,
	}

	ErrDecryptionFailed = &SyncError{
		Code:     "DECRYPTION_FAILED",
		Message:  "snapshot decryption failed - wrong password or corrupted file",
		ExitCode: ExitInput,
	}

	// Config-specific errors.
	ErrConfigNotFound = &SyncError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &SyncError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration is invalid",
		ExitCode: ExitInput,
	}
)

// New creates a new SyncError with the given code and message.
func New(code, message string) *SyncError {
	return &SyncError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var se *SyncError
	if errors.As(err, &se) {
		return &SyncError{
			Code:       se.Code,
			Message:    fmt.Sprintf("%s: %s", msg, se.Message),
			Details:    se.Details,
			Suggestion: se.Suggestion,
			Cause:      err,
			ExitCode:   se.ExitCode,
		}
	}

	return &SyncError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// Mark classifies err under the sentinel kind, keeping err as the cause.
// It is the usual way to turn a collaborator error into a taxonomy error.
func Mark(kind *SyncError, err error) error {
	if err == nil {
		return nil
	}
	return &SyncError{
		Code:     kind.Code,
		Message:  kind.Message,
		Cause:    err,
		ExitCode: kind.ExitCode,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var se *SyncError
	if errors.As(err, &se) {
		return &SyncError{
			Code:       se.Code,
			Message:    se.Message,
			Details:    details,
			Suggestion: se.Suggestion,
			Cause:      se.Cause,
			ExitCode:   se.ExitCode,
		}
	}

	return &SyncError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var se *SyncError
	if errors.As(err, &se) {
		return &SyncError{
			Code:       se.Code,
			Message:    se.Message,
			Details:    se.Details,
			Suggestion: suggestion,
			Cause:      se.Cause,
			ExitCode:   se.ExitCode,
		}
	}

	return &SyncError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var se *SyncError
	if errors.As(err, &se) {
		return se.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
