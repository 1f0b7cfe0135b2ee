package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ErrUnencodableValue indicates a string value that cannot be written as a
// double-quoted scalar without changing its meaning.
var ErrUnencodableValue = errors.New("value cannot be encoded as a quoted yaml scalar")

// Encode serializes ordered fields into the block format docenrich reads and
// writes (without delimiters): string values are double-quoted, lists are
// block sequences, other scalars are written bare.
//
// The returned bytes use the newline style provided by Style (defaults to \n).
func Encode(fields []Field, style Style) ([]byte, error) {
	var buf bytes.Buffer
	for _, f := range fields {
		if err := encodeField(&buf, f); err != nil {
			return nil, fmt.Errorf("encode %q: %w", f.Key, err)
		}
	}

	out := buf.Bytes()
	if style.Newline != "" && style.Newline != "\n" {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte(style.Newline))
	}
	return out, nil
}

// Quote returns s as a YAML double-quoted scalar.
func Quote(s string) (string, error) {
	if !utf8.ValidString(s) || strings.ContainsRune(s, 0) {
		return "", ErrUnencodableValue
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String(), nil
}

func encodeField(buf *bytes.Buffer, f Field) error {
	key := f.Key
	if needsKeyQuoting(key) {
		q, err := Quote(key)
		if err != nil {
			return err
		}
		key = q
	}

	switch v := f.Value.(type) {
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return encodeList(buf, key, items)
	case []any:
		if isScalarList(v) {
			return encodeList(buf, key, v)
		}
	default:
		if scalar, ok, err := encodeScalar(v); ok || err != nil {
			if err != nil {
				return err
			}
			fmt.Fprintf(buf, "%s: %s\n", key, scalar)
			return nil
		}
	}

	return encodeNested(buf, key, f.Value)
}

func encodeList(buf *bytes.Buffer, key string, items []any) error {
	if len(items) == 0 {
		fmt.Fprintf(buf, "%s: []\n", key)
		return nil
	}
	fmt.Fprintf(buf, "%s:\n", key)
	for _, item := range items {
		scalar, _, err := encodeScalar(item)
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, "  - %s\n", scalar)
	}
	return nil
}

func encodeScalar(v any) (string, bool, error) {
	switch vv := v.(type) {
	case nil:
		return "null", true, nil
	case string:
		q, err := Quote(vv)
		return q, true, err
	case bool:
		return strconv.FormatBool(vv), true, nil
	case int:
		return strconv.Itoa(vv), true, nil
	case int64:
		return strconv.FormatInt(vv, 10), true, nil
	case uint64:
		return strconv.FormatUint(vv, 10), true, nil
	case float64:
		return strconv.FormatFloat(vv, 'g', -1, 64), true, nil
	case time.Time:
		if vv.Equal(vv.Truncate(24*time.Hour)) && vv.Location() == time.UTC {
			return vv.Format(time.DateOnly), true, nil
		}
		return vv.Format(time.RFC3339Nano), true, nil
	case fmt.Stringer:
		q, err := Quote(vv.String())
		return q, true, err
	default:
		return "", false, nil
	}
}

func isScalarList(items []any) bool {
	for _, item := range items {
		if _, ok, _ := encodeScalar(item); !ok {
			return false
		}
	}
	return true
}

// encodeNested falls back to yaml's own encoding for maps and structs.
func encodeNested(buf *bytes.Buffer, key string, v any) error {
	var nested bytes.Buffer
	enc := yaml.NewEncoder(&nested)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	fmt.Fprintf(buf, "%s:\n", key)
	for _, line := range strings.Split(strings.TrimRight(nested.String(), "\n"), "\n") {
		buf.WriteString("  ")
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return nil
}

func needsKeyQuoting(key string) bool {
	if key == "" {
		return true
	}
	return strings.ContainsAny(key, ":#{}[],&*!|>'\"%@` \t")
}
