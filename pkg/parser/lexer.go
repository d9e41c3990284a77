package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sandrolain/goxq/pkg/types"
)

const eof = -1

// Lexer converts a query into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go" technique.
type Lexer struct {
	input   string // Input string being scanned
	length  int    // Length of input string
	start   int    // Start position of current token
	current int    // Current position in input
	width   int    // Width of last rune read
	err     error  // First error encountered
}

// NewLexer creates a new lexer from the provided input string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Next returns the next token from the input.
// When the end of the input is reached, Next returns TokenEOF for all subsequent calls.
func (l *Lexer) Next() Token {
	l.skipWhitespace()

	// Check if skipWhitespace encountered an error (e.g., unclosed comment)
	if l.err != nil {
		return l.error("Unclosed comment")
	}

	ch := l.nextRune()
	if ch == eof {
		return l.eof()
	}

	if ch == '/' {
		if l.acceptRune('/') {
			return l.newToken(TokenDoubleSlash)
		}
		return l.newToken(TokenSlash)
	}

	// A dot followed by a digit starts a decimal number
	if ch == '.' && l.peekDigit() {
		l.backup()
		return l.scanNumber()
	}

	if tt := lookupSymbol1(ch); tt > 0 {
		return l.newToken(tt)
	}

	if ch == '"' || ch == '\'' {
		l.ignore()
		return l.scanString(ch)
	}

	if isDigit(ch) {
		l.backup()
		return l.scanNumber()
	}

	if isNameStart(ch) {
		return l.scanName()
	}

	return l.error("Unexpected character")
}

// Error returns the first error encountered during lexing, if any.
func (l *Lexer) Error() error {
	return l.err
}

// scanString reads a string literal from the current position.
// The opening quote has already been consumed. A doubled quote stands for the quote itself.
func (l *Lexer) scanString(quote rune) Token {
	for {
		switch l.nextRune() {
		case quote:
			if l.acceptRune(quote) {
				continue
			}
			l.backup()
			t := l.newToken(TokenString)
			q := string(quote)
			t.Value = strings.ReplaceAll(t.Value, q+q, q)
			l.acceptRune(quote)
			l.ignore()
			return t
		case eof:
			return l.error("Unterminated string literal")
		}
	}
}

// scanNumber reads a number literal from the current position.
// Format: [0-9]*(\.[0-9]*)?([eE][+-]?[0-9]+)?
func (l *Lexer) scanNumber() Token {
	l.acceptAll(isDigit)

	if l.acceptRune('.') {
		l.acceptAll(isDigit)
	}

	if l.acceptRunes2('e', 'E') {
		l.acceptRunes2('+', '-')
		if !l.acceptAll(isDigit) {
			return l.error("Invalid number literal")
		}
	}

	return l.newToken(TokenNumber)
}

// scanName reads a name from the current position. The first character has already been
// consumed. Names may contain letters, digits, '_', '-', '.' and a namespace prefix separator ':'.
func (l *Lexer) scanName() Token {
	l.acceptAll(isNameChar)
	return l.newToken(TokenName)
}

// Helper methods

func (l *Lexer) eof() Token {
	return Token{
		Type:     TokenEOF,
		Position: l.current,
	}
}

func (l *Lexer) error(message string) Token {
	t := l.newToken(TokenError)
	if l.err == nil {
		l.err = &types.Error{
			Code:     types.ErrSyntax,
			Message:  message,
			Position: t.Position,
			Token:    t.Value,
		}
	}
	return t
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:     tt,
		Value:    l.input[l.start:l.current],
		Position: l.start,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) peekDigit() bool {
	return l.current < l.length && isDigit(rune(l.input[l.current]))
}

func (l *Lexer) backup() {
	l.current -= l.width
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) acceptRunes2(r1, r2 rune) bool {
	return l.accept(func(c rune) bool {
		return c == r1 || c == r2
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

// skipWhitespace skips whitespace and (: comments :), which may nest.
func (l *Lexer) skipWhitespace() {
	for {
		l.acceptAll(isWhitespace)
		l.ignore()

		if !strings.HasPrefix(l.input[l.current:], "(:") {
			return
		}
		depth := 0
		for {
			rest := l.input[l.current:]
			switch {
			case rest == "":
				l.err = &types.Error{
					Code:     types.ErrSyntax,
					Message:  "Unclosed comment",
					Position: l.start,
				}
				return
			case strings.HasPrefix(rest, "(:"):
				depth++
				l.current += 2
			case strings.HasPrefix(rest, ":)"):
				depth--
				l.current += 2
			default:
				l.nextRune()
			}
			if depth == 0 {
				break
			}
		}
		l.ignore()
	}
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	return isNameStart(r) || isDigit(r) || r == '-' || r == '.' || r == ':'
}
