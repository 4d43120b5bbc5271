package ast

import (
	"fmt"
	"math"
	"strconv"

	"github.com/strager/jmm/position"
	"github.com/strager/jmm/sexy"
)

// Parse reads a whole tree in the S-expression input format.
func Parse(input string) (*Node, error) {
	doc, err := sexy.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("reading AST: %w", err)
	}
	return FromSexy(doc)
}

// FromSexy converts a parsed S-expression document into a tree.
//
// A list (kind child...) is a node. A bare symbol is a childless node.
// Identifier and literal nodes take their text from a single atom:
// (id "x"), (num 42), (string "a\\nb"). Location metadata ^{line: L, col: C}
// overrides the position of the list in the document.
func FromSexy(sn *sexy.Node) (*Node, error) {
	return fromSexy(sn, "")
}

func fromSexy(sn *sexy.Node, parent NodeKind) (*Node, error) {
	switch sn.Type {
	case sexy.NodeSymbol:
		kind := NodeKind(sn.Text)
		if !kind.IsKnown() {
			return nil, fmt.Errorf("line %d: unknown node kind %q", sn.Line, sn.Text)
		}
		if kind.HasAttr() {
			return nil, fmt.Errorf("line %d: %s node needs a value", sn.Line, kind)
		}
		return New(kind, position.New(sn.Line, sn.Column)), nil

	case sexy.NodeList:
		if len(sn.Items) == 0 || sn.Items[0].Type != sexy.NodeSymbol {
			return nil, fmt.Errorf("line %d: node must start with a kind symbol", sn.Line)
		}
		kind := NodeKind(sn.Items[0].Text)
		if !kind.IsKnown() {
			return nil, fmt.Errorf("line %d: unknown node kind %q", sn.Line, sn.Items[0].Text)
		}
		loc, err := metaLocation(sn)
		if err != nil {
			return nil, err
		}

		if kind.HasAttr() {
			if len(sn.Items) != 2 || !sn.Items[1].IsAtom() {
				return nil, fmt.Errorf("line %d: %s node needs exactly one value", sn.Line, kind)
			}
			attr := sn.Items[1]
			if kind == NodeNum {
				if err := checkNum(attr.Text, parent); err != nil {
					return nil, fmt.Errorf("line %d: %w", sn.Line, err)
				}
			}
			return NewAttr(kind, attr.Text, loc), nil
		}

		node := New(kind, loc)
		for _, item := range sn.Items[1:] {
			child, err := fromSexy(item, kind)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
		return node, nil

	default:
		return nil, fmt.Errorf("line %d: expected a node, got %s", sn.Line, sn.String())
	}
}

// checkNum requires an int literal to fit in 32 bits. The magnitude of the
// smallest int is only valid as the operand of unary minus.
func checkNum(text string, parent NodeKind) error {
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return fmt.Errorf("bad number %q", text)
	}
	limit := int64(math.MaxInt32)
	if parent == NodeNeg {
		limit++
	}
	if v < math.MinInt32 || v > limit {
		return fmt.Errorf("number %s does not fit in an int", text)
	}
	return nil
}

func metaLocation(sn *sexy.Node) (position.Location, error) {
	loc := position.New(sn.Line, sn.Column)
	if line := sn.Meta("line"); line != nil {
		n, err := metaInt(line)
		if err != nil {
			return loc, fmt.Errorf("line %d: line metadata: %w", sn.Line, err)
		}
		loc = position.New(n, 0)
		if col := sn.Meta("col"); col != nil {
			c, err := metaInt(col)
			if err != nil {
				return loc, fmt.Errorf("line %d: col metadata: %w", sn.Line, err)
			}
			loc.Column = c
		}
	}
	return loc, nil
}

func metaInt(n *sexy.Node) (int, error) {
	if n.Type != sexy.NodeInteger {
		return 0, fmt.Errorf("expected an integer, got %s", n.String())
	}
	return strconv.Atoi(n.Text)
}
