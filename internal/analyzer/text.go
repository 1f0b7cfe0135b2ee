package analyzer

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docenrich/internal/markdown"
)

// UntitledTitle is used when neither a heading nor a filename is available.
const UntitledTitle = "Untitled"

var (
	camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	wordSeparator = regexp.MustCompile(`[-_\s]+`)
	titleCaser    = cases.Title(language.English, cases.NoLower)

	mdImage      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	mdLink       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdRefLink    = regexp.MustCompile(`\[([^\]]*)\]\[[^\]]*\]`)
	mdInlineCode = regexp.MustCompile("`+([^`]*)`+")
	mdEmphasis   = regexp.MustCompile(`(\*{1,3}|~~)([^*~]+)(\*{1,3}|~~)`)
	mdUnderscore = regexp.MustCompile(`(^|[^\w])_{1,2}([^_]+?)_{1,2}([^\w]|$)`)
	mdHTMLTag    = regexp.MustCompile(`</?[A-Za-z][^>]*>`)
	mdListMarker = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+`)
	mdQuote      = regexp.MustCompile(`^\s*>+\s?`)
	whitespace   = regexp.MustCompile(`\s+`)

	trailingPunct = regexp.MustCompile(`[\s.,;:!?…\-–—]+$`)
)

// skippedPrefixes mark lines that never start a description paragraph.
var skippedPrefixes = []string{"#", "```", "~~~", "{", "<", "import ", "export ", "---", "|"}

// TitleFromFilename converts a path such as "getting-started_guide.md" into
// "Getting Started Guide". An empty path yields UntitledTitle.
func TitleFromFilename(path string) string {
	base := filepath.Base(path)
	if path == "" || base == "." || base == string(filepath.Separator) {
		return UntitledTitle
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = camelBoundary.ReplaceAllString(base, "$1 $2")
	words := wordSeparator.Split(strings.TrimSpace(base), -1)

	kept := words[:0]
	for _, w := range words {
		if w != "" {
			kept = append(kept, titleCaser.String(w))
		}
	}
	if len(kept) == 0 {
		return UntitledTitle
	}
	return strings.Join(kept, " ")
}

// Description returns the normalized description for a Markdown body, or ""
// when no paragraph qualifies.
func (a *Analyzer) Description(body string) string {
	raw := ExtractDescription(body, a.opts.MinDescriptionLength)
	if raw == "" {
		return ""
	}
	return NormalizeDescription(raw, a.opts.DescriptionMaxLength)
}

// ExtractDescription returns the first paragraph outside fenced code whose
// cleaned text has at least minLength characters.
func ExtractDescription(body string, minLength int) string {
	var para []string
	flush := func() string {
		if len(para) == 0 {
			return ""
		}
		text := CleanMarkdown(strings.Join(para, " "))
		para = para[:0]
		if utf8.RuneCountInString(text) >= minLength {
			return text
		}
		return ""
	}

	skipping := false
	for _, line := range markdown.ScanLines(body) {
		if line.Fence || line.InFence || line.Blank() {
			if text := flush(); text != "" {
				return text
			}
			skipping = false
			continue
		}
		trimmed := strings.TrimSpace(line.Text)
		if hasSkippedPrefix(trimmed) {
			if text := flush(); text != "" {
				return text
			}
			skipping = true
		}
		if skipping {
			continue
		}
		para = append(para, trimmed)
	}
	return flush()
}

func hasSkippedPrefix(line string) bool {
	for _, p := range skippedPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// CleanMarkdown strips inline Markdown markers and collapses whitespace.
func CleanMarkdown(s string) string {
	s = mdListMarker.ReplaceAllString(s, "")
	s = mdQuote.ReplaceAllString(s, "")
	s = mdImage.ReplaceAllString(s, "$1")
	s = mdLink.ReplaceAllString(s, "$1")
	s = mdRefLink.ReplaceAllString(s, "$1")
	s = mdInlineCode.ReplaceAllString(s, "$1")
	for mdEmphasis.MatchString(s) {
		s = mdEmphasis.ReplaceAllString(s, "$2")
	}
	s = mdUnderscore.ReplaceAllString(s, "$1$2$3")
	s = mdHTMLTag.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func collapseSpace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// NormalizeDescription truncates s to at most maxLen characters on a word
// boundary and replaces any trailing punctuation with a single period.
func NormalizeDescription(s string, maxLen int) string {
	s = strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
	if s == "" {
		return ""
	}

	runes := []rune(s)
	if maxLen > 1 && len(runes) > maxLen {
		cut := string(runes[:maxLen-1])
		if i := strings.LastIndexByte(cut, ' '); i > 0 && utf8.RuneCountInString(cut[:i]) > maxLen/2 {
			cut = cut[:i]
		}
		cut = trailingPunct.ReplaceAllString(cut, "")
		return cut + "."
	}

	trimmed := trailingPunct.ReplaceAllString(s, "")
	if trimmed == "" {
		return ""
	}
	return trimmed + "."
}
