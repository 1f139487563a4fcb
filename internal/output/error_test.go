package output_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/walletsync/internal/output"
	syncerr "github.com/mrz1836/walletsync/pkg/errors"
)

var errSomething = errors.New("something went wrong")

// failingWriter implements io.Writer but always returns an error.
type failingWriter struct{}

func (failingWriter) Write(_ []byte) (n int, err error) {
	return 0, os.ErrClosed
}

func TestFormatError_Nil(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, nil, output.FormatJSON))
	require.NoError(t, output.FormatError(&buf, nil, output.FormatText))
	assert.Empty(t, buf.String())
}

func TestFormatError_GenericJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, errSomething, output.FormatJSON))

	var result output.ErrorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "GENERAL_ERROR", result.Error.Code)
	assert.Equal(t, "something went wrong", result.Error.Message)
	assert.Equal(t, syncerr.ExitGeneral, result.Error.ExitCode)
}

func TestFormatError_SyncErrorJSON(t *testing.T) {
	t.Parallel()
	err := syncerr.WithSuggestion(
		syncerr.WithDetails(syncerr.Mark(syncerr.ErrIOFailure, os.ErrPermission), map[string]string{"slot": "main"}),
		"check directory permissions",
	)

	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, err, output.FormatJSON))

	var result output.ErrorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "IO_FAILURE", result.Error.Code)
	assert.Equal(t, os.ErrPermission.Error(), result.Error.Cause)
	assert.Equal(t, map[string]string{"slot": "main"}, result.Error.Details)
	assert.Equal(t, "check directory permissions", result.Error.Suggestion)
	assert.Equal(t, syncerr.ExitIO, result.Error.ExitCode)
}

func TestFormatError_SyncErrorText(t *testing.T) {
	t.Parallel()
	err := syncerr.WithSuggestion(
		syncerr.WithDetails(syncerr.ErrConfigInvalid, map[string]string{"sync.resync_throttle": "must be positive", "network.id": "unknown"}),
		"edit config.yaml",
	)

	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, err, output.FormatText))

	result := buf.String()
	assert.True(t, strings.HasPrefix(result, "Error: configuration is invalid\n"))
	assert.Less(t, strings.Index(result, "network.id"), strings.Index(result, "sync.resync_throttle"))
	assert.Contains(t, result, "Suggestion: edit config.yaml")
	assert.NotContains(t, result, "Cause:")
}

func TestFormatError_GenericText(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, errSomething, output.FormatText))
	assert.Equal(t, "Error: something went wrong\n", buf.String())
}

func TestFormatError_WriteFailure(t *testing.T) {
	t.Parallel()
	require.Error(t, output.FormatError(failingWriter{}, errSomething, output.FormatText))
	require.Error(t, output.FormatError(failingWriter{}, errSomething, output.FormatJSON))
}

func TestFormatSuccess(t *testing.T) {
	t.Parallel()
	var textBuf, jsonBuf bytes.Buffer
	require.NoError(t, output.FormatSuccess(&textBuf, "deleted", output.FormatText))
	require.NoError(t, output.FormatSuccess(&jsonBuf, "deleted", output.FormatJSON))

	assert.Equal(t, "deleted\n", textBuf.String())
	assert.JSONEq(t, `{"status":"success","message":"deleted"}`, jsonBuf.String())
}
