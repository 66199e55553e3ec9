// Package dub parses the command lines typed at the wavegen prompt.
//
// A command is an identifier followed by zero or more arguments separated by
// spaces. Arguments are identifiers, integers, floats or double-quoted strings:
//
//	wave saw
//	freq 220.5
//	preset "lame-bass"
package dub

import (
	"fmt"
	"strconv"
)

type Node interface {
	isNode()
}

func (Identifier) isNode() {}
func (Int) isNode()        {}
func (Float) isNode()      {}
func (String) isNode()     {}

type Command struct {
	Name Identifier
	Args []Node
}

type Identifier string
type Int int
type Float float64
type String string

// Parse reads a single command line.
func Parse(input string) (Command, error) {
	tokens, err := lex(input)
	if err != nil {
		return Command{}, err
	}
	if tokens[0].typ != typeIdentifier {
		return Command{}, unexpected(tokens[0])
	}
	cmd := Command{Name: Identifier(tokens[0].text)}
	for _, t := range tokens[1 : len(tokens)-1] {
		arg, err := node(t)
		if err != nil {
			return cmd, err
		}
		cmd.Args = append(cmd.Args, arg)
	}
	return cmd, nil
}

func node(t token) (Node, error) {
	switch t.typ {
	case typeIdentifier:
		return Identifier(t.text), nil
	case typeString:
		return String(t.text[1 : len(t.text)-1]), nil
	case typeFloat:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %s at position %d: %w", t.text, t.pos, err)
		}
		return Float(f), nil
	case typeInt:
		n, err := strconv.Atoi(t.text)
		if err != nil {
			return nil, fmt.Errorf("bad number %s at position %d: %w", t.text, t.pos, err)
		}
		return Int(n), nil
	}
	return nil, unexpected(t)
}

func unexpected(t token) error {
	if t.typ == typeEOF {
		return fmt.Errorf("unexpected end of input")
	}
	return fmt.Errorf("unexpected token %q at position %d", t.text, t.pos)
}
