package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilder_CarriesCategoryAndContext(t *testing.T) {
	err := NewError(CategoryConfig, "invalid configuration").
		WithContext("file", "docenrich.yaml").
		Build()

	require.Equal(t, CategoryConfig, err.Category())
	require.Equal(t, "invalid configuration", err.Message())
	file, ok := err.Context().Get("file")
	require.True(t, ok)
	require.Equal(t, "docenrich.yaml", file)
	require.Equal(t, "[config] invalid configuration", err.Error())
}

func TestWrapError_UnwrapsCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := WrapError(cause, CategoryFileSystem, "write failed").WithDocument("docs/a.md").Build()

	require.ErrorIs(t, err, cause)
	require.Equal(t, "[filesystem docs/a.md] write failed: disk full", err.Error())
	require.Equal(t, "docs/a.md", err.Context().Document())
}

func TestAsClassified_FindsWrappedError(t *testing.T) {
	inner := PipelineError("enhancer chain aborted").Build()
	outer := fmt.Errorf("batch: %w", inner)

	classified, ok := AsClassified(outer)
	require.True(t, ok)
	require.Equal(t, CategoryPipeline, classified.Category())
	require.True(t, HasCategory(outer, CategoryPipeline))
	require.False(t, HasCategory(stderrors.New("plain"), CategoryPipeline))
}

func TestClassifiedError_WithContextDoesNotMutateOriginal(t *testing.T) {
	base := TimeoutError("document timed out").WithDocument("a.md").Build()
	derived := base.WithContext("timeout", "5s")

	_, ok := base.Context().Get("timeout")
	require.False(t, ok)
	require.Equal(t, "a.md", derived.Context().Document())
	require.True(t, stderrors.Is(derived, base))
}

func TestScope(t *testing.T) {
	tests := []struct {
		err  error
		want Scope
	}{
		{NewError(CategoryPlugin, "enhancer failed").Build(), ScopePlugin},
		{TimeoutError("slow").Build(), ScopeDocument},
		{FileSystemError("unreadable").Build(), ScopeDocument},
		{ConfigError("bad").Build(), ScopeProcess},
		{NewError(CategoryStore, "locked").Build(), ScopeProcess},
		{stderrors.New("plain"), ScopeProcess},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			require.Equal(t, tt.want, ScopeOf(tt.err))
			require.Equal(t, tt.want < ScopeProcess, Recoverable(tt.err))
		})
	}
	require.True(t, Recoverable(nil))
}
