package report

import (
	"encoding/json"
	"io"
)

// JSONFormatter writes the summary as a single JSON document.
type JSONFormatter struct {
	Indent bool
}

func (f *JSONFormatter) Format(w io.Writer, sum Summary) error {
	enc := json.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(sum)
}
