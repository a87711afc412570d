package animation

import (
	"fmt"
	"strings"
)

type ronTokenType uint8

const (
	ronEOF ronTokenType = iota
	ronIdent
	ronInt
	ronFloat
	ronString
	ronChar
	ronLParen
	ronRParen
	ronLBracket
	ronRBracket
	ronLBrace
	ronRBrace
	ronColon
	ronComma
	ronHash
	ronBang
)

func (t ronTokenType) String() string {
	switch t {
	case ronEOF:
		return "end of input"
	case ronIdent:
		return "identifier"
	case ronInt:
		return "integer"
	case ronFloat:
		return "float"
	case ronString:
		return "string"
	case ronChar:
		return "char"
	case ronLParen:
		return "`(`"
	case ronRParen:
		return "`)`"
	case ronLBracket:
		return "`[`"
	case ronRBracket:
		return "`]`"
	case ronLBrace:
		return "`{`"
	case ronRBrace:
		return "`}`"
	case ronColon:
		return "`:`"
	case ronComma:
		return "`,`"
	case ronHash:
		return "`#`"
	case ronBang:
		return "`!`"
	default:
		return "unknown token"
	}
}

var ronPunctuation = map[byte]ronTokenType{
	'(': ronLParen, ')': ronRParen,
	'[': ronLBracket, ']': ronRBracket,
	'{': ronLBrace, '}': ronRBrace,
	':': ronColon, ',': ronComma,
	'#': ronHash, '!': ronBang,
}

type ronPos struct {
	line int
	col  int
}

type ronToken struct {
	typ   ronTokenType
	value string
	pos   ronPos
}

// ronLexer splits field-notation text into tokens. Whitespace, line
// comments and (nested) block comments are skipped.
type ronLexer struct {
	input string
	pos   int
	line  int
	col   int
}

func newRONLexer(input string) *ronLexer {
	return &ronLexer{input: input, line: 1, col: 1}
}

func (l *ronLexer) tokenize() ([]ronToken, error) {
	var tokens []ronToken
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.typ == ronEOF {
			return tokens, nil
		}
	}
}

func (l *ronLexer) errorf(pos ronPos, format string, args ...interface{}) error {
	return &SyntaxError{Line: pos.line, Column: pos.col, Msg: fmt.Sprintf(format, args...)}
}

func (l *ronLexer) current() ronPos { return ronPos{line: l.line, col: l.col} }

func (l *ronLexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *ronLexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else if l.input[l.pos]&0xC0 != 0x80 {
		l.col++
	}
	l.pos++
}

func (l *ronLexer) next() (ronToken, error) {
	if err := l.skipTrivia(); err != nil {
		return ronToken{}, err
	}
	start := l.current()
	if l.pos >= len(l.input) {
		return ronToken{typ: ronEOF, pos: start}, nil
	}

	ch := l.input[l.pos]
	if typ, ok := ronPunctuation[ch]; ok {
		l.advance()
		return ronToken{typ: typ, value: string(ch), pos: start}, nil
	}

	switch {
	case ch == '"':
		return l.scanString(start)
	case ch == 'r' && (l.peekAt(1) == '"' || l.peekAt(1) == '#'):
		return l.scanRawString(start)
	case ch == '\'':
		return l.scanChar(start)
	case ch == '+' || ch == '-' || ch == '.' || isDecimal(ch):
		return l.scanNumber(start)
	case isIdentStart(ch):
		begin := l.pos
		for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
			l.advance()
		}
		return ronToken{typ: ronIdent, value: l.input[begin:l.pos], pos: start}, nil
	}
	return ronToken{}, l.errorf(start, "unexpected character %q", ch)
}

func (l *ronLexer) skipTrivia() error {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			l.advance()
		case ch == '/' && l.peekAt(1) == '/':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.advance()
			}
		case ch == '/' && l.peekAt(1) == '*':
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *ronLexer) skipBlockComment() error {
	start := l.current()
	depth := 0
	for l.pos < len(l.input) {
		switch {
		case l.input[l.pos] == '/' && l.peekAt(1) == '*':
			depth++
			l.advance()
			l.advance()
		case l.input[l.pos] == '*' && l.peekAt(1) == '/':
			depth--
			l.advance()
			l.advance()
			if depth == 0 {
				return nil
			}
		default:
			l.advance()
		}
	}
	return l.errorf(start, "unclosed block comment")
}

func (l *ronLexer) scanString(start ronPos) (ronToken, error) {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return ronToken{}, l.errorf(start, "unterminated string")
		}
		ch := l.input[l.pos]
		if ch == '"' {
			l.advance()
			return ronToken{typ: ronString, value: sb.String(), pos: start}, nil
		}
		if ch == '\\' {
			l.advance()
			if l.pos >= len(l.input) {
				return ronToken{}, l.errorf(start, "unterminated string")
			}
			switch esc := l.input[l.pos]; esc {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case '0':
				sb.WriteByte(0)
			default:
				sb.WriteByte(esc)
			}
			l.advance()
			continue
		}
		sb.WriteByte(ch)
		l.advance()
	}
}

func (l *ronLexer) scanRawString(start ronPos) (ronToken, error) {
	l.advance() // r
	hashes := 0
	for l.pos < len(l.input) && l.input[l.pos] == '#' {
		hashes++
		l.advance()
	}
	if l.pos >= len(l.input) || l.input[l.pos] != '"' {
		return ronToken{}, l.errorf(start, "malformed raw string")
	}
	l.advance()
	closing := "\"" + strings.Repeat("#", hashes)
	end := strings.Index(l.input[l.pos:], closing)
	if end < 0 {
		return ronToken{}, l.errorf(start, "unterminated raw string")
	}
	value := l.input[l.pos : l.pos+end]
	for i := 0; i < end+len(closing); i++ {
		l.advance()
	}
	return ronToken{typ: ronString, value: value, pos: start}, nil
}

func (l *ronLexer) scanChar(start ronPos) (ronToken, error) {
	l.advance() // opening quote
	begin := l.pos
	for l.pos < len(l.input) && l.input[l.pos] != '\'' {
		if l.input[l.pos] == '\\' {
			l.advance()
		}
		l.advance()
	}
	if l.pos >= len(l.input) {
		return ronToken{}, l.errorf(start, "unterminated char")
	}
	value := l.input[begin:l.pos]
	l.advance()
	return ronToken{typ: ronChar, value: value, pos: start}, nil
}

// scanNumber keeps the literal as written; the parser interprets it.
func (l *ronLexer) scanNumber(start ronPos) (ronToken, error) {
	begin := l.pos
	if ch := l.input[l.pos]; ch == '+' || ch == '-' {
		l.advance()
	}
	typ := ronInt
	if l.peekAt(0) == '0' && strings.ContainsRune("xXbBoO", rune(l.peekAt(1))) {
		l.advance()
		l.advance()
		for l.pos < len(l.input) && (isHex(l.input[l.pos]) || l.input[l.pos] == '_') {
			l.advance()
		}
	} else {
	digits:
		for l.pos < len(l.input) {
			ch := l.input[l.pos]
			switch {
			case isDecimal(ch) || ch == '_':
			case ch == '.' || ch == 'e' || ch == 'E':
				typ = ronFloat
			case (ch == '+' || ch == '-') && (l.input[l.pos-1] == 'e' || l.input[l.pos-1] == 'E'):
			default:
				break digits
			}
			l.advance()
		}
	}
	literal := l.input[begin:l.pos]
	if literal == "+" || literal == "-" || literal == "." {
		return ronToken{}, l.errorf(start, "unexpected character %q", literal[0])
	}
	return ronToken{typ: typ, value: literal, pos: start}, nil
}

func isDecimal(ch byte) bool { return ch >= '0' && ch <= '9' }

func isHex(ch byte) bool {
	return isDecimal(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool { return isIdentStart(ch) || isDecimal(ch) }
