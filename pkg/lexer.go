package kaleido

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenType uint64
type stateFunc func(l *Lexer) stateFunc

//go:generate stringer -type=TokenType -trimprefix=Token
const (
	EOF rune = 0

	TokenError TokenType = iota
	TokenEOF
	TokenComment

	TokenDef
	TokenExtern

	TokenIdentifier
	TokenNumber

	// TokenChar is any other single character: operators, parentheses,
	// commas and semicolons. The character is the token's Value.
	TokenChar
)

var keywordTable = map[string]TokenType{
	"def":    TokenDef,
	"extern": TokenExtern,
}

type Location struct {
	Line int
	Col  int
}

func (l *Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

type Token struct {
	Typ   TokenType
	Value string
	Loc   *Location
}

// Char returns the character of a TokenChar, or EOF for any other token.
func (t Token) Char() rune {
	if t.Typ != TokenChar {
		return EOF
	}

	r, _ := utf8.DecodeRuneInString(t.Value)
	return r
}

// IsChar reports whether t is the single character token r.
func (t Token) IsChar(r rune) bool {
	return t.Typ == TokenChar && t.Char() == r
}

func (t Token) isComment() bool {
	return t.Typ == TokenComment
}

func (t Token) String() string {
	switch t.Typ {
	case TokenEOF:
		return "end of input"
	case TokenError:
		return "error: " + t.Value
	default:
		return fmt.Sprintf("'%s'", t.Value)
	}
}

// Tokenizer is the token source consumed by the Parser.
type Tokenizer interface {
	Get() Token
}

// Lexer turns a stream of runes into tokens. It is pull based: each call to
// Get runs the state machine until exactly one token has been produced.
type Lexer struct {
	reader *bufio.Reader
	state  stateFunc
	out    *Token

	line  int
	col   int
	start Location
}

func NewLexer(reader io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(reader),
		state:  defaultState,
		line:   1,
		col:    1,
	}
}

func NewLexerFromString(src string) *Lexer {
	return NewLexer(strings.NewReader(src))
}

func (l *Lexer) Get() Token {
	for l.out == nil {
		if l.state == nil {
			loc := l.location()
			return Token{Typ: TokenEOF, Loc: &loc}
		}

		l.state = l.state(l)
	}

	tok := *l.out
	l.out = nil

	return tok
}

// RunBlocking lexes the whole input and returns every token before EOF.
func (l *Lexer) RunBlocking() ([]Token, error) {
	var tokens []Token
	for {
		t := l.Get()
		if t.Typ == TokenEOF {
			return tokens, nil
		}

		if t.Typ == TokenError {
			return nil, fmt.Errorf("%s: %s", t.Loc, t.Value)
		}

		tokens = append(tokens, t)
	}
}

func defaultState(l *Lexer) stateFunc {
	for {
		l.start = l.location()

		switch r := l.peek(); {
		case r == EOF:
			l.emit(TokenEOF, "")
			return nil
		case unicode.IsSpace(r):
			l.next()
			continue
		case isDigit(r) || r == '.':
			return numberState
		case isLetter(r):
			return identifierState
		case r == '#':
			return commentState
		default:
			return charState
		}
	}
}

func numberState(l *Lexer) stateFunc {
	var num strings.Builder
	for r := l.peek(); isDigit(r) || r == '.'; r = l.peek() {
		num.WriteRune(l.next())
	}

	if _, err := strconv.ParseFloat(num.String(), 64); err != nil {
		return l.errorf("invalid number literal '%s'", num.String())
	}

	return l.emit(TokenNumber, num.String())
}

func identifierState(l *Lexer) stateFunc {
	var id strings.Builder
	for r := l.peek(); isLetter(r) || isDigit(r); r = l.peek() {
		id.WriteRune(l.next())
	}

	if t, ok := keywordTable[id.String()]; ok {
		return l.emit(t, id.String())
	}

	return l.emit(TokenIdentifier, id.String())
}

func commentState(l *Lexer) stateFunc {
	l.next() // Skip the '#'

	var text strings.Builder
	for r := l.peek(); r != '\n' && r != EOF; r = l.peek() {
		text.WriteRune(l.next())
	}

	return l.emit(TokenComment, text.String())
}

func charState(l *Lexer) stateFunc {
	return l.emit(TokenChar, string(l.next()))
}

func (l *Lexer) errorf(format string, args ...interface{}) stateFunc {
	return l.emit(TokenError, fmt.Sprintf(format, args...))
}

func (l *Lexer) emit(t TokenType, val string) stateFunc {
	loc := l.start
	l.out = &Token{
		Typ:   t,
		Value: val,
		Loc:   &loc,
	}

	return defaultState
}

func (l *Lexer) location() Location {
	return Location{Line: l.line, Col: l.col}
}

func (l *Lexer) peek() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		return EOF
	}

	_ = l.reader.UnreadRune()
	return r
}

func (l *Lexer) next() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return EOF
		}

		return utf8.RuneError
	}

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isLetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}
