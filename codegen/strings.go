package codegen

import (
	"fmt"
	"strings"

	"github.com/strager/jmm/wat"
)

// StringTable lays string literals out in linear memory, in the order they
// are interned. Equal literals are not shared.
type StringTable struct {
	size int
	data []wat.Data
}

// Intern appends a literal, given as raw source text with its escapes
// uninterpreted, and returns its offset and byte length.
func (t *StringTable) Intern(raw string) (offset, length int) {
	offset, length = t.size, Length(raw)
	t.data = append(t.data, wat.Data{Offset: offset, Text: Escape(raw)})
	t.size += length
	return offset, length
}

// Size is the total number of bytes interned so far.
func (t *StringTable) Size() int { return t.size }

// Data returns one data segment per interned literal.
func (t *StringTable) Data() []wat.Data {
	return append([]wat.Data(nil), t.data...)
}

// Length is the number of bytes raw occupies once its escapes are
// interpreted. A backslash and the byte after it count as one.
func Length(raw string) int {
	n := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
		}
		n++
	}
	return n
}

// Escape re-encodes raw for a WAT string literal. Plain bytes become \hh.
// An escape sequence is kept as is, except \b, \f and \r, which WAT lacks
// and are rewritten to their hex codes.
func Escape(raw string) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		b := raw[i]
		if b != '\\' {
			fmt.Fprintf(&sb, "\\%02x", b)
			continue
		}
		if i+1 == len(raw) {
			sb.WriteString(`\5c`)
			break
		}
		i++
		switch raw[i] {
		case 'b':
			sb.WriteString(`\08`)
		case 'f':
			sb.WriteString(`\0c`)
		case 'r':
			sb.WriteString(`\0d`)
		default:
			sb.WriteByte('\\')
			sb.WriteByte(raw[i])
		}
	}
	return sb.String()
}
