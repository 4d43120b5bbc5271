// Package sexy reads the S-expression notation used for syntax trees and
// for test expectations, and extracts Markdown test suites written in it.
//
// The notation has symbols (break, ==, formalparameter), integers (42, -7),
// double-quoted strings in which only \" and \\ are escapes, lists, and
// {key: value, ...} maps. A list may carry metadata maps introduced by ^,
// as in (id ^{line: 3, col: 7} "x"). A ; starts a comment that runs to the
// end of the line.
package sexy

import (
	"fmt"
	"strings"
)

type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeInteger
	NodeList
	NodeMap
)

// Node is one datum.
type Node struct {
	Type NodeType

	Text string // symbol name, decoded string, or integer digits

	Items []*Node  // list elements, or map values
	Keys  []string // map keys, parallel to Items

	// List metadata, parallel slices in first-seen key order.
	MetaKeys  []string
	MetaItems []*Node

	// Where the datum starts in the input (1-based). Zero for nodes built in code.
	Line   int
	Column int
}

func NewSymbol(name string) *Node    { return &Node{Type: NodeSymbol, Text: name} }
func NewString(value string) *Node   { return &Node{Type: NodeString, Text: value} }
func NewInteger(digits string) *Node { return &Node{Type: NodeInteger, Text: digits} }
func NewList(items []*Node) *Node    { return &Node{Type: NodeList, Items: items} }

func NewListWithMeta(items []*Node, metaKeys []string, metaItems []*Node) *Node {
	return &Node{Type: NodeList, Items: items, MetaKeys: metaKeys, MetaItems: metaItems}
}

func NewMap(keys []string, items []*Node) *Node {
	return &Node{Type: NodeMap, Keys: keys, Items: items}
}

func (n *Node) IsAtom() bool {
	return n.Type == NodeSymbol || n.Type == NodeString || n.Type == NodeInteger
}

// Meta returns the metadata value stored under key, or nil.
func (n *Node) Meta(key string) *Node {
	for i, k := range n.MetaKeys {
		if k == key && i < len(n.MetaItems) {
			return n.MetaItems[i]
		}
	}
	return nil
}

// String renders n back into the notation. Metadata comes first inside a
// list.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	switch n.Type {
	case NodeSymbol, NodeInteger:
		sb.WriteString(n.Text)
	case NodeString:
		sb.WriteByte('"')
		for i := 0; i < len(n.Text); i++ {
			if c := n.Text[i]; c == '"' || c == '\\' {
				sb.WriteByte('\\')
			}
			sb.WriteByte(n.Text[i])
		}
		sb.WriteByte('"')
	case NodeList:
		sb.WriteByte('(')
		sep := ""
		if len(n.MetaKeys) > 0 {
			writeEntries(sb, "^{", n.MetaKeys, n.MetaItems)
			sep = " "
		}
		for _, item := range n.Items {
			sb.WriteString(sep)
			item.write(sb)
			sep = " "
		}
		sb.WriteByte(')')
	case NodeMap:
		writeEntries(sb, "{", n.Keys, n.Items)
	default:
		fmt.Fprintf(sb, "<node type %d>", n.Type)
	}
}

func writeEntries(sb *strings.Builder, open string, keys []string, values []*Node) {
	sb.WriteString(open)
	for i, key := range keys {
		if i >= len(values) {
			break
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(key + ": ")
		values[i].write(sb)
	}
	sb.WriteByte('}')
}

// Parse reads exactly one datum from input.
func Parse(input string) (*Node, error) {
	r := &reader{src: input, line: 1, col: 1}
	node, err := r.datum()
	if err != nil {
		return nil, err
	}
	r.skipSpace()
	if !r.done() {
		return nil, r.errorf("expected end of input, found %s", r.describe())
	}
	return node, nil
}

// reader is a recursive-descent parser working directly on the input
// bytes. Non-ASCII text may only appear inside strings and comments.
type reader struct {
	src  string
	pos  int
	line int
	col  int
}

func (r *reader) done() bool { return r.pos >= len(r.src) }

func (r *reader) peek() byte { return r.peekAt(0) }

func (r *reader) peekAt(offset int) byte {
	if r.pos+offset >= len(r.src) {
		return 0
	}
	return r.src[r.pos+offset]
}

func (r *reader) next() byte {
	c := r.src[r.pos]
	r.pos++
	if c == '\n' {
		r.line++
		r.col = 1
	} else {
		r.col++
	}
	return c
}

// at reports whether the next byte is c. It is false at the end of input.
func (r *reader) at(c byte) bool {
	return !r.done() && r.src[r.pos] == c
}

func (r *reader) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", r.line, fmt.Sprintf(format, args...))
}

// describe names the upcoming input for error messages.
func (r *reader) describe() string {
	if r.done() {
		return "end of input"
	}
	return fmt.Sprintf("'%c'", r.peek())
}

func (r *reader) skipSpace() {
	for !r.done() {
		switch c := r.peek(); {
		case c == ';':
			for !r.done() && !r.at('\n') {
				r.next()
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			r.next()
		default:
			return
		}
	}
}

func (r *reader) expect(c byte) error {
	r.skipSpace()
	if !r.at(c) {
		return r.errorf("expected '%c', found %s", c, r.describe())
	}
	r.next()
	return nil
}

func (r *reader) datum() (*Node, error) {
	r.skipSpace()
	line, col := r.line, r.col
	node, err := r.datumHere()
	if err != nil {
		return nil, err
	}
	node.Line, node.Column = line, col
	return node, nil
}

func (r *reader) datumHere() (*Node, error) {
	c := r.peek()
	switch {
	case r.done():
		return nil, r.errorf("unexpected end of input")
	case c == '(':
		return r.list()
	case c == '{':
		return r.table()
	case c == '"':
		s, err := r.str()
		if err != nil {
			return nil, err
		}
		return NewString(s), nil
	case isDigit(c) || ((c == '+' || c == '-') && isDigit(r.peekAt(1))):
		return NewInteger(r.integer()), nil
	case isSymbolStart(c) || isOperatorChar(c) || c == '-':
		return NewSymbol(r.symbol()), nil
	case strings.IndexByte(")}:,^", c) >= 0:
		return nil, r.errorf("unexpected '%c'", c)
	default:
		return nil, r.errorf("unexpected character '%c'", c)
	}
}

func (r *reader) list() (*Node, error) {
	r.next() // (
	list := NewList(nil)
	for {
		r.skipSpace()
		switch {
		case r.done():
			return nil, r.errorf("expected ')', found end of input")
		case r.at(')'):
			r.next()
			return list, nil
		case r.at('^'):
			r.next()
			if !r.at('{') {
				return nil, r.errorf("expected '{' after '^', found %s", r.describe())
			}
			meta, err := r.table()
			if err != nil {
				return nil, err
			}
			list.mergeMeta(meta)
		default:
			item, err := r.datum()
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, item)
		}
	}
}

// mergeMeta adds the entries of m to the list's metadata. A key seen
// again takes the newer value.
func (n *Node) mergeMeta(m *Node) {
next:
	for i, key := range m.Keys {
		for j, existing := range n.MetaKeys {
			if existing == key {
				n.MetaItems[j] = m.Items[i]
				continue next
			}
		}
		n.MetaKeys = append(n.MetaKeys, key)
		n.MetaItems = append(n.MetaItems, m.Items[i])
	}
}

// table reads a {key: value, ...} map.
func (r *reader) table() (*Node, error) {
	r.next() // {
	m := NewMap(nil, nil)
	for {
		r.skipSpace()
		if r.at('}') {
			r.next()
			return m, nil
		}
		if !isSymbolStart(r.peek()) {
			return nil, r.errorf("expected a symbol as map key, found %s", r.describe())
		}
		key := r.symbol()
		if err := r.expect(':'); err != nil {
			return nil, err
		}
		value, err := r.datum()
		if err != nil {
			return nil, err
		}
		m.Keys = append(m.Keys, key)
		m.Items = append(m.Items, value)

		r.skipSpace()
		switch {
		case r.at(','):
			r.next()
		case !r.at('}'):
			return nil, r.errorf("expected ',' or '}' in map, found %s", r.describe())
		}
	}
}

func (r *reader) str() (string, error) {
	r.next() // opening quote
	var sb strings.Builder
	for {
		if r.done() {
			return "", r.errorf("unterminated string")
		}
		c := r.next()
		switch c {
		case '"':
			return sb.String(), nil
		case '\\':
			if r.done() {
				return "", r.errorf("unterminated string")
			}
			esc := r.next()
			if esc != '"' && esc != '\\' {
				return "", r.errorf("invalid escape sequence: \\%c", esc)
			}
			sb.WriteByte(esc)
		default:
			sb.WriteByte(c)
		}
	}
}

func (r *reader) integer() string {
	start := r.pos
	if r.at('+') || r.at('-') {
		r.next()
	}
	for isDigit(r.peek()) {
		r.next()
	}
	return r.src[start:r.pos]
}

func (r *reader) symbol() string {
	start := r.pos
	for !r.done() && isSymbolChar(r.peek()) {
		r.next()
	}
	return r.src[start:r.pos]
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isSymbolStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isSymbolChar(c byte) bool {
	return isSymbolStart(c) || isDigit(c) || c == '-' || isOperatorChar(c)
}

func isOperatorChar(c byte) bool {
	return c != 0 && strings.IndexByte("=!<>+*/%&|", c) >= 0
}
