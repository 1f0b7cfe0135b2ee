package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInspect_CollectsHeadingsCodeAndLinks(t *testing.T) {
	body := []byte("# Getting *Started*\n\nSee [docs](https://example.com) and https://go.dev.\n\n" +
		"## Install\n\n```bash\ngo install ./...\n```\n\n### Details `code`\n\n![img](a.png)\n\n```\nplain\n```\n")

	s := Inspect(body)

	require.Equal(t, []Heading{
		{Level: 1, Text: "Getting Started"},
		{Level: 2, Text: "Install"},
		{Level: 3, Text: "Details code"},
	}, s.Headings)
	require.Equal(t, []CodeBlock{{Language: "bash", Lines: 1}, {Language: "", Lines: 1}}, s.CodeBlocks)
	require.Equal(t, 2, s.Links)
	require.Equal(t, 1, s.Images)
	require.Equal(t, 3, s.MaxHeadingDepth())

	title, ok := s.FirstHeading(1)
	require.True(t, ok)
	require.Equal(t, "Getting Started", title)
}

func TestInspect_IgnoresHeadingsInsideCode(t *testing.T) {
	s := Inspect([]byte("```md\n# not a heading\n```\n"))
	require.Empty(t, s.Headings)
	_, ok := s.FirstHeading(1)
	require.False(t, ok)
}

func TestScanLines_TracksFences(t *testing.T) {
	lines := ScanLines("intro\n```go\n# inside\n```\n# after")

	require.Len(t, lines, 5)
	require.False(t, lines[0].InFence)
	require.True(t, lines[1].Fence)
	require.True(t, lines[2].InFence)
	require.True(t, lines[3].Fence)
	require.False(t, lines[4].InFence)
	require.Equal(t, "# after", lines[4].Text)
	require.Equal(t, len("intro\n```go\n# inside\n```\n# after"), lines[4].End)
}

func TestScanLines_LongerClosingFenceAndTilde(t *testing.T) {
	lines := ScanLines("~~~~\n~~~\nstill code\n~~~~~\ntext\n")
	require.True(t, lines[1].InFence, "shorter fence does not close")
	require.True(t, lines[3].Fence)
	require.False(t, lines[4].InFence)
}

func TestStripFencedCode(t *testing.T) {
	require.Equal(t, "a\nb\n", StripFencedCode("a\n```\ncode\n```\nb\n"))
}
