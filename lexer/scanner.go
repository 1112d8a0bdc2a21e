package lexer

import (
	"fmt"
	"strings"
)

// Error is a lexical error. The offending text is skipped and never reaches
// the parser.
type Error struct {
	Line    int
	Text    string
	Message string
}

func (e Error) String() string {
	return fmt.Sprintf("(%s, %s)", e.Text, e.Message)
}

// Errors collects lexical errors in the order they were found.
type Errors []Error

func (errs Errors) HasErrors() bool {
	return len(errs) > 0
}

// String groups errors by line: "7.\t(3d, Invalid number) ".
func (errs Errors) String() string {
	if len(errs) == 0 {
		return "There is no lexical error."
	}
	var sb strings.Builder
	for i, e := range errs {
		if i == 0 || errs[i-1].Line != e.Line {
			if i > 0 {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "%d.\t", e.Line)
		}
		sb.WriteString(e.String())
		sb.WriteString(" ")
	}
	return sb.String()
}

// Scanner turns C-minus source text into tokens. Whitespace and comments are
// consumed here and never surfaced.
type Scanner struct {
	input []byte
	pos   int
	line  int

	// Errors holds every lexical error seen so far.
	Errors Errors
	// Tokens holds every surfaced token, end of input excluded.
	Tokens []Token

	identifiers []string
	seen        map[string]bool
}

// NewScanner creates a scanner over src.
func NewScanner(src []byte) *Scanner {
	return &Scanner{
		input: src,
		line:  1,
		seen:  make(map[string]bool),
	}
}

// NextToken returns the next token, or the EOF token once input is
// exhausted. It may be called again after EOF.
func (s *Scanner) NextToken() Token {
	for {
		tok, ok := s.scan()
		if !ok {
			continue
		}
		if tok.Kind != EOF {
			s.Tokens = append(s.Tokens, tok)
		}
		return tok
	}
}

// Identifiers returns identifiers in order of first appearance.
func (s *Scanner) Identifiers() []string {
	return append([]string(nil), s.identifiers...)
}

// SymbolTable returns the lexical symbol table: keywords followed by
// identifiers.
func (s *Scanner) SymbolTable() []string {
	return append(Keywords(), s.identifiers...)
}

func (s *Scanner) peek(offset int) byte {
	if s.pos+offset >= len(s.input) {
		return 0
	}
	return s.input[s.pos+offset]
}

func (s *Scanner) errorf(line int, text, message string) {
	s.Errors = append(s.Errors, Error{Line: line, Text: text, Message: message})
}

// scan reads one lexeme. ok is false when the lexeme was whitespace, a
// comment or an error and scanning should continue.
func (s *Scanner) scan() (tok Token, ok bool) {
	if s.pos >= len(s.input) {
		return Token{Kind: EOF, Text: EndMarker, Line: s.line}, true
	}

	c := s.input[s.pos]
	switch {
	case isWhitespace(c):
		if c == '\n' {
			s.line++
		}
		s.pos++
		return Token{}, false

	case c == '/':
		return s.scanSlash()

	case c == '*' && s.peek(1) == '/':
		s.errorf(s.line, "*/", "Unmatched comment")
		s.pos += 2
		return Token{}, false

	case c == '=':
		if s.peek(1) == '=' {
			s.pos += 2
			return Token{Kind: SYMBOL, Text: "==", Line: s.line}, true
		}
		s.pos++
		return Token{Kind: SYMBOL, Text: "=", Line: s.line}, true

	case isSymbol(c):
		s.pos++
		return Token{Kind: SYMBOL, Text: string(c), Line: s.line}, true

	case isDigit(c):
		return s.scanNumber()

	case isLetter(c):
		return s.scanWord()

	default:
		s.errorf(s.line, string(c), "Invalid input")
		s.pos++
		return Token{}, false
	}
}

func (s *Scanner) scanSlash() (Token, bool) {
	start, line := s.pos, s.line
	switch s.peek(1) {
	case '/':
		for s.pos < len(s.input) && s.input[s.pos] != '\n' {
			s.pos++
		}
		return Token{}, false

	case '*':
		s.pos += 2
		for s.pos < len(s.input) {
			if s.input[s.pos] == '*' && s.peek(1) == '/' {
				s.pos += 2
				return Token{}, false
			}
			if s.input[s.pos] == '\n' {
				s.line++
			}
			s.pos++
		}
		s.errorf(line, shortComment(string(s.input[start:])), "Unclosed comment")
		return Token{}, false

	default:
		s.errorf(line, "/", "Invalid input")
		s.pos++
		return Token{}, false
	}
}

func (s *Scanner) scanNumber() (Token, bool) {
	start := s.pos
	for isDigit(s.peek(0)) {
		s.pos++
	}
	if c := s.peek(0); c != 0 && !isWhitespace(c) && !isSymbol(c) && c != '/' {
		s.pos++
		s.errorf(s.line, string(s.input[start:s.pos]), "Invalid number")
		return Token{}, false
	}
	return Token{Kind: NUM, Text: string(s.input[start:s.pos]), Line: s.line}, true
}

func (s *Scanner) scanWord() (Token, bool) {
	start := s.pos
	for isLetter(s.peek(0)) || isDigit(s.peek(0)) {
		s.pos++
	}
	if c := s.peek(0); c != 0 && !isWhitespace(c) && !isSymbol(c) && c != '/' {
		s.pos++
		s.errorf(s.line, string(s.input[start:s.pos]), "Invalid input")
		return Token{}, false
	}

	word := string(s.input[start:s.pos])
	if IsKeyword(word) {
		return Token{Kind: KEYWORD, Text: word, Line: s.line}, true
	}
	if !s.seen[word] {
		s.seen[word] = true
		s.identifiers = append(s.identifiers, word)
	}
	return Token{Kind: ID, Text: word, Line: s.line}, true
}

func shortComment(comment string) string {
	if len(comment) > 7 {
		return comment[:4] + "..."
	}
	return comment
}

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isSymbol(c byte) bool {
	return strings.IndexByte(";:,[](){}+-*=<", c) >= 0
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
