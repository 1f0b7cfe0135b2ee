package errors

import (
	"bytes"
	stderrors "errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad input").Build(), expected: 2},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "filesystem", err: FileSystemError("unreadable").Build(), expected: 11},
		{name: "timeout", err: TimeoutError("slow").Build(), expected: 12},
		{name: "unclassified", err: stderrors.New("boom"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)
	verbose := NewCLIErrorAdapter(true, nil)
	err := WrapError(stderrors.New("permission denied"), CategoryFileSystem, "failed to read document").Build()

	require.Equal(t, "Error: failed to read document (use -v for details)", quiet.FormatError(err))
	require.Contains(t, verbose.FormatError(err), "permission denied")
	require.Equal(t, "Error: boom", quiet.FormatError(stderrors.New("boom")))
}

func TestCLIErrorAdapter_ReportWritesMessage(t *testing.T) {
	var out bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(io.Discard, nil)))

	code := adapter.Report(&out, ConfigError("missing file").Build())
	require.Equal(t, 7, code)
	require.Contains(t, out.String(), "missing file")
}
