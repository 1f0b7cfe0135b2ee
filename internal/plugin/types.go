package plugin

import "fmt"

// Level is the overall grade of a QualityReport.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// Bucket groups issue severities for display.
type Bucket string

const (
	BucketHigh   Bucket = "high"
	BucketMedium Bucket = "medium"
	BucketLow    Bucket = "low"
)

// ValidationIssue is a single finding. Severity ranges 0-10 and only affects
// presentation.
type ValidationIssue struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Severity int    `json:"severity"`
}

// Bucket maps Severity onto a display bucket: high from 7, medium from 4.
func (v ValidationIssue) Bucket() Bucket {
	switch {
	case v.Severity >= 7:
		return BucketHigh
	case v.Severity >= 4:
		return BucketMedium
	default:
		return BucketLow
	}
}

// QualityReport is a validator's verdict on one document. Reports are built
// fresh for every call and never shared.
type QualityReport struct {
	Level       Level             `json:"level"`
	Score       int               `json:"score"`
	Issues      []ValidationIssue `json:"issues"`
	Suggestions []string          `json:"suggestions"`
}

// NewQualityReport scores issues: every severity point costs ten of the 100
// available. Scores from 80 are high, from 50 medium.
func NewQualityReport(issues []ValidationIssue, suggestions []string) QualityReport {
	sum := 0
	for _, is := range issues {
		sum += is.Severity
	}
	score := max(0, 100-10*sum)

	level := LevelLow
	switch {
	case score >= 80:
		level = LevelHigh
	case score >= 50:
		level = LevelMedium
	}
	return QualityReport{
		Level:       level,
		Score:       score,
		Issues:      append([]ValidationIssue(nil), issues...),
		Suggestions: append([]string(nil), suggestions...),
	}
}

// NamedReport pairs a report with the validator that produced it.
type NamedReport struct {
	Plugin Info
	Report QualityReport
}

// PluginError represents an error that occurred within a plugin.
type PluginError struct {
	// PluginName identifies which plugin failed.
	PluginName string

	Version string

	// Operation describes what the plugin was doing when it failed.
	Operation string

	// Document is the input path of the document being processed.
	Document string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s@%s failed during %s of %s: %v", e.PluginName, e.Version, e.Operation, e.Document, e.Err)
}

// Unwrap returns the underlying error for error inspection.
func (e *PluginError) Unwrap() error {
	return e.Err
}

// NewPluginError creates a new plugin error.
func NewPluginError(info Info, operation, document string, err error) *PluginError {
	return &PluginError{
		PluginName: info.Name,
		Version:    info.Version,
		Operation:  operation,
		Document:   document,
		Err:        err,
	}
}
