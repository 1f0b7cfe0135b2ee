package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docenrich/internal/batch"
	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/fmrepair"
	"git.home.luguber.info/inful/docenrich/internal/pipeline"
	"git.home.luguber.info/inful/docenrich/internal/plugin"
)

func sampleSummary() batch.Summary {
	issue := plugin.ValidationIssue{Kind: "no-tags", Message: "Document has no tags", Severity: 2}
	info := plugin.Info{Name: "metadata-completeness", Version: "v1.0.0"}
	return batch.Summary{
		RunID: "run-1",
		Results: []batch.Result{
			{
				Item: batch.Item{InputPath: "docs/a.md"},
				Output: &pipeline.Output{
					Metadata:    docmodel.NewMetadata(),
					Repair:      &fmrepair.Result{Success: true, Fixed: true, Issues: []string{fmrepair.MsgAddedTitle}},
					TOCInserted: true,
					Reports: []plugin.NamedReport{
						{Plugin: info, Report: plugin.NewQualityReport([]plugin.ValidationIssue{issue}, []string{"Add tags"})},
					},
				},
			},
			{
				Item: batch.Item{InputPath: "docs/b.md"},
				Output: &pipeline.Output{
					Metadata: docmodel.NewMetadata(),
					Failures: []*plugin.PluginError{plugin.NewPluginError(info, "enhance", "docs/b.md", errors.New("boom"))},
				},
			},
			{
				Item: batch.Item{InputPath: "docs/c.md"},
				Err:  errors.New("document processing timed out"),
			},
		},
	}
}

func TestFromBatch(t *testing.T) {
	sum := FromBatch(sampleSummary(), func(path string) bool { return path == "docs/a.md" })

	require.Equal(t, "run-1", sum.RunID)
	require.Equal(t, 1, sum.Failed)
	require.Equal(t, 1, sum.Degraded)
	require.Len(t, sum.Documents, 3)

	a := sum.Documents[0]
	require.True(t, a.Changed)
	require.Equal(t, []string{fmrepair.MsgAddedTitle}, a.Repaired)
	require.Equal(t, 80, a.Score)
	require.Equal(t, plugin.LevelHigh, a.Level)
	require.Equal(t, "metadata-completeness@v1.0.0", a.Reports[0].Plugin)

	require.Len(t, sum.Documents[1].Failures, 1)
	require.Equal(t, "document processing timed out", sum.Documents[2].Error)
	require.Equal(t, plugin.LevelLow, sum.Documents[2].Level)
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TextFormatter{}).Format(&buf, FromBatch(sampleSummary(), nil)))

	out := buf.String()
	require.Contains(t, out, "✓ docs/a.md [high 80]\n")
	require.Contains(t, out, "  repaired: Added missing title\n")
	require.Contains(t, out, "  inserted table of contents\n")
	require.Contains(t, out, "  low    Document has no tags (metadata-completeness@v1.0.0)\n")
	require.Contains(t, out, "  hint:  Add tags\n")
	require.Contains(t, out, "  plugin failure: plugin metadata-completeness@v1.0.0 failed during enhance of docs/b.md: boom\n")
	require.Contains(t, out, "✗ docs/c.md\n  error: document processing timed out\n")
	require.Contains(t, out, "3 documents processed, 1 failed, 1 degraded\n")
}

func TestTextFormatter_Quiet(t *testing.T) {
	sum := Summary{Documents: []Document{{Path: "clean.md", Score: 100, Level: plugin.LevelHigh}}}

	var buf bytes.Buffer
	require.NoError(t, (&TextFormatter{Quiet: true}).Format(&buf, sum))
	require.NotContains(t, buf.String(), "clean.md")
	require.Contains(t, buf.String(), "1 document processed\n")
}

func TestJSONFormatter(t *testing.T) {
	f, err := NewFormatter("json")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, FromBatch(sampleSummary(), nil)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "run-1", decoded["run_id"])
	docs := decoded["documents"].([]any)
	first := docs[0].(map[string]any)
	reports := first["reports"].([]any)
	require.Equal(t, "metadata-completeness@v1.0.0", reports[0].(map[string]any)["plugin"])
	require.EqualValues(t, 80, reports[0].(map[string]any)["score"])
}

func TestNewFormatter_Unknown(t *testing.T) {
	_, err := NewFormatter("xml")
	require.Error(t, err)
}
