package sets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet_AddHasDelete(t *testing.T) {
	s := New("a", "b")
	s.Add("c")
	require.True(t, s.Has("c"))
	s.Delete("a")
	require.False(t, s.Has("a"))
	require.Len(t, s, 2)
}

func TestOrdered_PreservesFirstOccurrence(t *testing.T) {
	var o Ordered[string]
	require.True(t, o.Add("go"))
	require.True(t, o.Add("yaml"))
	require.False(t, o.Add("go"))
	require.True(t, o.Add("bash"))

	require.Equal(t, []string{"go", "yaml", "bash"}, o.Items())
	require.Equal(t, 3, o.Len())
	require.True(t, o.Has("yaml"))
}

func TestOrdered_ZeroValueHas(t *testing.T) {
	var o Ordered[int]
	require.False(t, o.Has(1))
	require.Empty(t, o.Items())
}
