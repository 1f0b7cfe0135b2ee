package mdx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docenrich/internal/analyzer"
)

const sample = "---\ntitle: \"Demo\"\n---\n" +
	"import { Tabs, Tab } from '@docs/components'\n" +
	"import Chart from './Chart'\n" +
	"export const meta = { draft: true }\n\n" +
	"# Demo\n\n" +
	"<Tabs>\n" +
	"  <Tab label=\"One\">First {props.count}</Tab>\n" +
	"</Tabs>\n\n" +
	"<Chart data={points} />\n\n" +
	"```jsx\n<Fake />\n```\n"

func TestAnalyze_ComponentsImportsExports(t *testing.T) {
	info := NewAnalyzer(Options{}).Analyze(sample)

	require.Equal(t, []string{"Tabs", "Tab", "Chart"}, info.Components)
	require.Equal(t, 3, info.ComponentCount)
	require.Equal(t, []string{"@docs/components", "./Chart"}, info.Imports)
	require.Equal(t, []string{"meta"}, info.Exports)
	require.Equal(t, 1, info.Expressions)
	require.True(t, info.Nested)
	require.InDelta(t, 14.5, info.Score, 0.001)
	require.Equal(t, analyzer.LevelMedium, info.Complexity)
	require.Equal(t, []string{TagMDX, "tabs", "charts"}, info.Tags)
	require.False(t, info.Interactive)
	require.Empty(t, info.Features)
	require.True(t, info.HasFrontmatter)
	require.True(t, info.HasImports)
}

func TestAnalyze_MultiLineAndRepeatedImports(t *testing.T) {
	content := "import {\n  Tabs,\n  TabItem,\n} from '@theme/Tabs'\n" +
		"import A from 'a'\n" +
		"import { b } from 'a';\n\n" +
		"import the data from a file before you start.\n\n" +
		"<Tabs />\n"

	info := NewAnalyzer(Options{}).Analyze(content)

	require.True(t, info.HasImports)
	require.Equal(t, []string{"@theme/Tabs", "a", "a"}, info.Imports)
	require.Equal(t, []string{"@theme/Tabs", "a"}, info.ImportSources)
	require.Equal(t, []string{"Tabs"}, info.Components)
	require.InDelta(t, 2+3, info.Score, 0.001)
}

func TestAnalyze_OnlyImportIsMultiLine(t *testing.T) {
	content := "import {\n  Card,\n} from './card'\n\n# Title\n"

	info := NewAnalyzer(Options{}).Analyze(content)

	require.True(t, info.HasImports)
	require.Equal(t, []string{"./card"}, info.Imports)
}

func TestAnalyze_InteractiveFeatures(t *testing.T) {
	content := "import { useState, useEffect } from 'react'\n\n" +
		"<Button onClick={() => setN(n + 1)}>Add</Button>\n\n" +
		"const [n, setN] = useState(0)\n" +
		"useEffect(() => {}, [])\n\n" +
		"<form><input name=\"q\" /></form>\n\n" +
		"const Lazy = import('./x')\n\n" +
		"<Widget client:load />\n"

	info := NewAnalyzer(Options{}).Analyze(content)

	require.Equal(t, []string{
		FeatureEventHandlers,
		FeatureStateHooks,
		FeatureEffectHooks,
		FeatureForms,
		FeatureDynamicImports,
		FeatureClientDirectives,
	}, info.Features)
	require.True(t, info.Interactive)
	require.Equal(t, []string{"Button", "Widget"}, info.Components)
	require.Contains(t, info.Tags, TagInteractive)
	require.False(t, info.HasFrontmatter)
}

func TestAnalyze_DottedComponentsUseBaseName(t *testing.T) {
	info := NewAnalyzer(Options{}).Analyze("<Card.Header>Title</Card.Header>\n")
	require.Equal(t, []string{"Card.Header"}, info.Components)
	require.Equal(t, []string{TagMDX, "cards"}, info.Tags)
	require.False(t, info.Nested)
}

func TestAnalyze_EmptyContent(t *testing.T) {
	info := NewAnalyzer(Options{}).Analyze("")
	require.Zero(t, info.ComponentCount)
	require.Equal(t, []string{TagMDX}, info.Tags)
	require.Equal(t, analyzer.LevelLow, info.Complexity)
	require.False(t, info.HasImports)
}

func TestNewAnalyzer_CustomTable(t *testing.T) {
	a := NewAnalyzer(Options{ComponentTags: []ComponentTag{{Components: []string{"Quiz"}, Tag: "quiz"}}})
	info := a.Analyze("<Quiz />\n<Tabs />\n")
	require.Equal(t, []string{TagMDX, "quiz"}, info.Tags)
}

func TestInfoSummary(t *testing.T) {
	s := NewAnalyzer(Options{}).Analyze("<Steps />\n").Summary()
	require.Equal(t, []any{"Steps"}, s["components"])
	require.Equal(t, 1, s["component_count"])
	require.Equal(t, "low", s["complexity"])
	require.Equal(t, false, s["interactive"])
}
