package markdown

import "strings"

// Line is one physical line of a body with its byte range.
//
// End includes the line terminator. Fence marks a fence delimiter line and
// InFence marks lines inside a fenced code block (delimiters excluded).
type Line struct {
	Text    string
	Start   int
	End     int
	Fence   bool
	InFence bool
}

// Blank reports whether the line holds only whitespace.
func (l Line) Blank() bool {
	return strings.TrimSpace(l.Text) == ""
}

// ScanLines splits body into lines and classifies fenced code regions.
func ScanLines(body string) []Line {
	var (
		lines     []Line
		fenceChar byte
		fenceLen  int
	)

	for start := 0; start < len(body); {
		end := strings.IndexByte(body[start:], '\n')
		if end < 0 {
			end = len(body)
		} else {
			end = start + end + 1
		}
		raw := strings.TrimRight(body[start:end], "\r\n")
		line := Line{Text: raw, Start: start, End: end}

		char, n, info := fenceMarker(raw)
		switch {
		case fenceLen == 0 && n > 0:
			fenceChar, fenceLen = char, n
			line.Fence = true
		case fenceLen > 0 && char == fenceChar && n >= fenceLen && strings.TrimSpace(info) == "":
			fenceChar, fenceLen = 0, 0
			line.Fence = true
		case fenceLen > 0:
			line.InFence = true
		}

		lines = append(lines, line)
		start = end
	}
	return lines
}

// fenceMarker reports the fence character and run length when line opens or
// closes a fenced code block, plus the trailing info string.
func fenceMarker(line string) (byte, int, string) {
	indent := 0
	for indent < len(line) && indent < 4 && line[indent] == ' ' {
		indent++
	}
	if indent > 3 {
		return 0, 0, ""
	}
	rest := line[indent:]
	if len(rest) < 3 || (rest[0] != '`' && rest[0] != '~') {
		return 0, 0, ""
	}
	c := rest[0]
	n := 0
	for n < len(rest) && rest[n] == c {
		n++
	}
	if n < 3 {
		return 0, 0, ""
	}
	info := rest[n:]
	if c == '`' && strings.ContainsRune(info, '`') {
		return 0, 0, ""
	}
	return c, n, info
}

// StripFencedCode returns body with fenced code blocks (delimiters included) removed.
func StripFencedCode(body string) string {
	var b strings.Builder
	for _, l := range ScanLines(body) {
		if l.Fence || l.InFence {
			continue
		}
		b.WriteString(body[l.Start:l.End])
	}
	return b.String()
}
