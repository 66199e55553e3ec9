package dub

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenType int

const (
	typeUnknown tokenType = iota
	typeInt
	typeFloat
	typeIdentifier
	typeString
	typeEOF
)

type token struct {
	typ  tokenType
	pos  int // byte offset of the first character
	text string
}

// lex splits a command line into tokens. The line is a sequence of words
// separated by spaces or tabs; a word is either a double-quoted string or a
// bare word that must form an identifier or a number as a whole.
func lex(input string) ([]token, error) {
	var tokens []token
	pos := 0
	for {
		for pos < len(input) && isSpace(rune(input[pos])) {
			pos++
		}
		if pos == len(input) {
			return append(tokens, token{typ: typeEOF, pos: pos}), nil
		}

		start := pos
		if input[pos] == '"' {
			end := strings.IndexByte(input[pos+1:], '"')
			if end < 0 {
				return tokens, fmt.Errorf("unterminated string starting at position %d", start)
			}
			pos += end + 2
			tokens = append(tokens, token{typeString, start, input[start:pos]})
			continue
		}

		for pos < len(input) && !isSpace(rune(input[pos])) {
			pos++
		}
		word := input[start:pos]
		typ, bad := classify(word)
		if typ == typeUnknown {
			bad = min(bad, len(word)-1)
			r, _ := utf8.DecodeRuneInString(word[bad:])
			return tokens, fmt.Errorf("unexpected character %#U at position %d", r, start+bad)
		}
		tokens = append(tokens, token{typ, start, word})
	}
}

// classify reports the token type of a bare word. For words that are neither
// an identifier nor a number it returns typeUnknown and the offset of the
// first offending character.
func classify(word string) (tokenType, int) {
	first, _ := utf8.DecodeRuneInString(word)
	if unicode.IsLetter(first) {
		return identifier(word)
	}
	return number(word)
}

// Identifiers start with a letter and may contain digits, '_', '-' and '.'
// after that, e.g. lame-bass or env.decay.
func identifier(word string) (tokenType, int) {
	for i, r := range word {
		if !unicode.IsLetter(r) && !isDigit(r) && r != '_' && r != '-' && r != '.' {
			return typeUnknown, i
		}
	}
	return typeIdentifier, 0
}

// number accepts an optional sign, digits with an optional fraction (either
// side of the '.' may be empty, not both) and an optional exponent.
func number(word string) (tokenType, int) {
	i := 0
	if i < len(word) && word[i] == '-' {
		i++
	}
	n := skipDigits(word, i)
	mantissa := n - i
	i = n

	typ := typeInt
	if i < len(word) && word[i] == '.' {
		typ = typeFloat
		n = skipDigits(word, i+1)
		mantissa += n - i - 1
		i = n
	}
	if mantissa == 0 {
		return typeUnknown, i
	}

	if i < len(word) && (word[i] == 'e' || word[i] == 'E') {
		typ = typeFloat
		i++
		if i < len(word) && (word[i] == '+' || word[i] == '-') {
			i++
		}
		n = skipDigits(word, i)
		if n == i {
			return typeUnknown, i
		}
		i = n
	}
	if i != len(word) {
		return typeUnknown, i
	}
	return typ, 0
}

func skipDigits(s string, i int) int {
	for i < len(s) && isDigit(rune(s[i])) {
		i++
	}
	return i
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}
