package errors_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncerr "github.com/mrz1836/walletsync/pkg/errors"
)

var (
	errInner = errors.New("inner")
	errPlain = errors.New("plain error")
)

func TestExitCodes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"success", nil, syncerr.ExitSuccess},
		{"general error", syncerr.ErrGeneral, syncerr.ExitGeneral},
		{"input error", syncerr.ErrInvalidInput, syncerr.ExitInput},
		{"not found", syncerr.ErrNotFound, syncerr.ExitNotFound},
		{"io failure", syncerr.ErrIOFailure, syncerr.ExitIO},
		{"observation failure", syncerr.ErrObservationFailure, syncerr.ExitWallet},
		{"construction failure", syncerr.ErrWalletConstruction, syncerr.ExitWallet},
		{"canceled", syncerr.ErrCanceled, syncerr.ExitCancelled},
		{"plain error", errPlain, syncerr.ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, syncerr.ExitCode(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()

	wrapped := syncerr.Wrap(syncerr.ErrNotFound, "slot %s", "main")
	require.ErrorIs(t, wrapped, syncerr.ErrNotFound)
	assert.Contains(t, wrapped.Error(), "slot main")
	assert.Equal(t, syncerr.ExitNotFound, syncerr.ExitCode(wrapped))

	plain := syncerr.Wrap(errPlain, "loading")
	require.ErrorIs(t, plain, errPlain)
	assert.Equal(t, "GENERAL_ERROR", syncerr.Code(plain))

	assert.NoError(t, syncerr.Wrap(nil, "nothing"))
}

func TestMark(t *testing.T) {
	t.Parallel()

	err := syncerr.Mark(syncerr.ErrObservationFailure, context.DeadlineExceeded)
	require.ErrorIs(t, err, syncerr.ErrObservationFailure)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "OBSERVATION_FAILURE", syncerr.Code(err))
	assert.Equal(t, syncerr.ExitWallet, syncerr.ExitCode(err))

	assert.NoError(t, syncerr.Mark(syncerr.ErrIOFailure, nil))
}

func TestIs_MatchesByCode(t *testing.T) {
	t.Parallel()

	other := &syncerr.SyncError{Code: "IO_FAILURE", Message: "different text"}
	require.ErrorIs(t, other, syncerr.ErrIOFailure)
	assert.NotErrorIs(t, other, syncerr.ErrNotFound)
}

func TestWithDetailsAndSuggestion(t *testing.T) {
	t.Parallel()
	details := map[string]string{"slot": "main", "path": "/tmp/main"}

	err := syncerr.WithDetails(syncerr.ErrIOFailure, details)
	err = syncerr.WithSuggestion(err, "check directory permissions")

	var se *syncerr.SyncError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, details, se.Details)
	assert.Equal(t, "check directory permissions", se.Suggestion)
	assert.Equal(t, "IO_FAILURE", se.Code)
}

func TestWithDetails_PlainError(t *testing.T) {
	t.Parallel()

	err := syncerr.WithDetails(errPlain, map[string]string{"k": "v"})
	require.ErrorIs(t, err, errPlain)
	assert.Equal(t, "GENERAL_ERROR", syncerr.Code(err))
}

func TestSyncError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *syncerr.SyncError
		want string
	}{
		{"message only", &syncerr.SyncError{Message: "failed"}, "failed"},
		{
			"details sorted",
			&syncerr.SyncError{Message: "failed", Details: map[string]string{"beta": "2", "alpha": "1"}},
			"failed (alpha: 1) (beta: 2)",
		},
		{"with cause", &syncerr.SyncError{Message: "outer", Cause: errInner}, "outer: inner"},
		{
			"details and cause",
			&syncerr.SyncError{Message: "outer", Details: map[string]string{"key": "val"}, Cause: errInner},
			"outer (key: val): inner",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()
	err := syncerr.New("CUSTOM", "custom message")
	assert.Equal(t, "custom message", err.Error())
	assert.Equal(t, "CUSTOM", syncerr.Code(err))
	assert.Equal(t, syncerr.ExitGeneral, syncerr.ExitCode(err))
}
