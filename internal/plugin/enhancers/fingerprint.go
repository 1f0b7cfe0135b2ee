package enhancers

import (
	"context"
	"strings"
	"time"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/frontmatter"
	"git.home.luguber.info/inful/docenrich/internal/plugin"
)

// KeyLastmod is refreshed whenever the fingerprint changes.
const KeyLastmod = "lastmod"

// Keys excluded from the fingerprint because they change on every run or
// are derived from the fingerprint itself.
var fingerprintExcluded = map[string]bool{
	mdfp.FingerprintField: true,
	KeyLastmod:            true,
}

// Fingerprint stores a content hash of the final metadata and body. It runs
// last so the hash covers every other enhancer's output.
type Fingerprint struct {
	now func() time.Time
}

// NewFingerprint creates the enhancer. now defaults to time.Now.
func NewFingerprint(now func() time.Time) *Fingerprint {
	if now == nil {
		now = time.Now
	}
	return &Fingerprint{now: now}
}

func (p *Fingerprint) Info() plugin.Info {
	return plugin.Info{
		Name:        "fingerprint",
		Version:     "v1.0.0",
		Priority:    -100,
		Description: "Adds a content fingerprint and refreshes lastmod when it changes",
	}
}

func (p *Fingerprint) Enhance(_ context.Context, meta *docmodel.Metadata, pctx *docmodel.ProcessingContext) (*docmodel.Metadata, error) {
	content, err := documentContent(pctx)
	if err != nil {
		return nil, err
	}
	body, _ := docmodel.SplitBody(content)

	fp, err := ComputeFingerprint(meta, body)
	if err != nil {
		return nil, err
	}

	old := strings.TrimSpace(meta.ExtraString(mdfp.FingerprintField))
	meta.SetExtra(mdfp.FingerprintField, fp)
	if old != fp {
		meta.SetExtra(KeyLastmod, p.now().UTC().Format(time.DateOnly))
	}
	return meta, nil
}

// ComputeFingerprint hashes the metadata (serialized as frontmatter, LF
// newlines, without the trailing newline) together with body.
func ComputeFingerprint(meta *docmodel.Metadata, body string) (string, error) {
	var fields []frontmatter.Field
	for _, f := range meta.Fields() {
		if !fingerprintExcluded[f.Key] {
			fields = append(fields, f)
		}
	}

	serialized := ""
	if len(fields) > 0 {
		raw, err := frontmatter.Encode(fields, frontmatter.Style{Newline: "\n"})
		if err != nil {
			return "", err
		}
		serialized = strings.TrimSuffix(string(raw), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(serialized, body), nil
}
