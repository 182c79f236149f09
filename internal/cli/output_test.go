package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatter_SplitsResultsAndDiagnostics(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	formatter := newFormatter(&RootOptions{Format: "json", Verbose: true}, cmd)
	formatter.VerboseLog("Loaded %d scenario(s)", 3)
	require.NoError(t, formatter.Success(map[string]int{"files": 3}))

	assert.Contains(t, errOut.String(), "Loaded 3 scenario(s)")
	assert.NotContains(t, out.String(), "Loaded")

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestOutputFormatter_GetErrWriterFallsBack(t *testing.T) {
	out := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: out, Verbose: true}

	assert.Equal(t, out, formatter.GetErrWriter())
	formatter.VerboseLog("step %d", 1)
	assert.Equal(t, "step 1\n", out.String())

	quiet := &OutputFormatter{Format: "text", Writer: out}
	quiet.VerboseLog("hidden")
	assert.NotContains(t, out.String(), "hidden")
}

func TestNewLogger_Level(t *testing.T) {
	buf := &bytes.Buffer{}
	newLogger(&RootOptions{}, buf).Debug("newton step", "iter", 1)
	assert.Empty(t, buf.String())

	newLogger(&RootOptions{Verbose: true}, buf).Debug("newton step", "iter", 1)
	assert.Contains(t, buf.String(), "msg=\"newton step\" iter=1")
}

func TestWriteJSON_Indented(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, writeJSON(buf, CLIResponse{Status: "ok", Data: map[string]int{"passed": 2}}))
	assert.Equal(t, "{\n  \"status\": \"ok\",\n  \"data\": {\n    \"passed\": 2\n  }\n}\n", buf.String())
}

func TestExitError(t *testing.T) {
	base := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to record runs", base)

	assert.Equal(t, "failed to record runs: disk full", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("wrapped: %w", err)))

	assert.Equal(t, "1 scenario(s) failed", NewExitError(ExitFailure, "1 scenario(s) failed").Error())
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestOutputFormatter_Fail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.fail(ExitCommandError, ErrCodeStore, "failed to open database", errors.New("locked"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeStore, resp.Error.Code)
	assert.Equal(t, "failed to open database: locked", resp.Error.Message)
}

func TestOutputFormatter_FailText(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.fail(ExitFailure, ErrCodeNotConverged, "newton did not converge", nil)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "Error [E301]: newton did not converge\n", buf.String())
}
