package animation

import (
	"fmt"
	"strconv"
	"strings"
)

type ronKind uint8

const (
	ronValInt ronKind = iota
	ronValFloat
	ronValString
	ronValChar
	ronValBool
	ronValUnit
	ronValIdent
	ronValList
	ronValMap
	ronValTuple
	ronValStruct
)

// ronValue is one node of a parsed field-notation document. Named tuples
// carry enum variants and options: RepeatFrom(1) and Some(100).
type ronValue struct {
	kind ronKind
	pos  ronPos
	name string
	text string

	// integers
	num      uint64
	negative bool
	overflow bool

	elems  []*ronValue
	fields []ronField
}

type ronField struct {
	name  string
	pos   ronPos
	value *ronValue
}

func (v *ronValue) describe() string {
	switch v.kind {
	case ronValInt:
		return "integer `" + v.text + "`"
	case ronValFloat:
		return "floating point `" + v.text + "`"
	case ronValString:
		return fmt.Sprintf("string %q", v.text)
	case ronValChar:
		return "char `" + v.text + "`"
	case ronValBool:
		return "boolean `" + v.text + "`"
	case ronValUnit:
		return "unit value"
	case ronValIdent:
		return "identifier `" + v.name + "`"
	case ronValList:
		return "sequence"
	case ronValMap:
		return "map"
	case ronValTuple:
		if v.name != "" {
			return "`" + v.name + "(…)`"
		}
		return "tuple"
	default:
		if v.name != "" {
			return "struct `" + v.name + "`"
		}
		return "struct"
	}
}

// maxRONDepth bounds the nesting of lists, maps, tuples and structs.
const maxRONDepth = 128

// ronParser builds a ronValue tree from tokens with one token of lookahead
// (two for the `ident:` check that separates structs from tuples).
type ronParser struct {
	tokens []ronToken
	pos    int
	depth  int
}

func parseRON(input string) (*ronValue, error) {
	tokens, err := newRONLexer(input).tokenize()
	if err != nil {
		return nil, err
	}
	p := &ronParser{tokens: tokens}
	if err := p.skipAttributes(); err != nil {
		return nil, err
	}
	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.typ != ronEOF {
		return nil, p.errorf(tok.pos, "trailing characters after the document: %s", tok.typ)
	}
	return value, nil
}

func (p *ronParser) peek() ronToken { return p.peekN(0) }

func (p *ronParser) peekN(n int) ronToken {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *ronParser) advance() ronToken {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *ronParser) expect(typ ronTokenType) (ronToken, error) {
	tok := p.advance()
	if tok.typ != typ {
		return tok, p.errorf(tok.pos, "expected %s, found %s", typ, tok.typ)
	}
	return tok, nil
}

func (p *ronParser) errorf(pos ronPos, format string, args ...interface{}) error {
	return &SyntaxError{Line: pos.line, Column: pos.col, Msg: fmt.Sprintf(format, args...)}
}

// skipAttributes consumes leading `#![enable(...)]` headers. Every extension
// is accepted; implicit Some is always on.
func (p *ronParser) skipAttributes() error {
	for p.peek().typ == ronHash {
		p.advance()
		if _, err := p.expect(ronBang); err != nil {
			return err
		}
		if _, err := p.expect(ronLBracket); err != nil {
			return err
		}
		depth := 1
		for depth > 0 {
			tok := p.advance()
			switch tok.typ {
			case ronLBracket:
				depth++
			case ronRBracket:
				depth--
			case ronEOF:
				return p.errorf(tok.pos, "unterminated attribute")
			}
		}
	}
	return nil
}

func (p *ronParser) parseValue() (*ronValue, error) {
	p.depth++
	defer func() { p.depth-- }()
	tok := p.peek()
	if p.depth > maxRONDepth {
		return nil, p.errorf(tok.pos, "exceeded max nesting depth of %d", maxRONDepth)
	}
	switch tok.typ {
	case ronInt:
		p.advance()
		return parseRONInt(tok), nil
	case ronFloat:
		p.advance()
		return &ronValue{kind: ronValFloat, pos: tok.pos, text: tok.value}, nil
	case ronString:
		p.advance()
		return &ronValue{kind: ronValString, pos: tok.pos, text: tok.value}, nil
	case ronChar:
		p.advance()
		return &ronValue{kind: ronValChar, pos: tok.pos, text: tok.value}, nil
	case ronLBracket:
		return p.parseList()
	case ronLBrace:
		return p.parseMap()
	case ronLParen:
		return p.parseParen("", tok.pos)
	case ronIdent:
		p.advance()
		if tok.value == "true" || tok.value == "false" {
			return &ronValue{kind: ronValBool, pos: tok.pos, text: tok.value}, nil
		}
		if p.peek().typ == ronLParen {
			return p.parseParen(tok.value, tok.pos)
		}
		return &ronValue{kind: ronValIdent, pos: tok.pos, name: tok.value}, nil
	default:
		return nil, p.errorf(tok.pos, "expected a value, found %s", tok.typ)
	}
}

func parseRONInt(tok ronToken) *ronValue {
	v := &ronValue{kind: ronValInt, pos: tok.pos, text: tok.value}
	digits := tok.value
	switch {
	case strings.HasPrefix(digits, "-"):
		v.negative = true
		digits = digits[1:]
	case strings.HasPrefix(digits, "+"):
		digits = digits[1:]
	}
	base := 0
	if prefix := strings.ToLower(digits); !strings.HasPrefix(prefix, "0x") &&
		!strings.HasPrefix(prefix, "0b") && !strings.HasPrefix(prefix, "0o") {
		base = 10
		digits = strings.ReplaceAll(digits, "_", "")
	}
	n, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		v.overflow = true
		return v
	}
	v.num = n
	if n == 0 {
		v.negative = false
	}
	return v
}

func (p *ronParser) parseList() (*ronValue, error) {
	open := p.advance()
	list := &ronValue{kind: ronValList, pos: open.pos}
	for {
		if p.peek().typ == ronRBracket {
			p.advance()
			return list, nil
		}
		elem, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		list.elems = append(list.elems, elem)
		if err := p.separator(ronRBracket); err != nil {
			return nil, err
		}
	}
}

func (p *ronParser) parseMap() (*ronValue, error) {
	open := p.advance()
	m := &ronValue{kind: ronValMap, pos: open.pos}
	for {
		if p.peek().typ == ronRBrace {
			p.advance()
			return m, nil
		}
		key, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(ronColon); err != nil {
			return nil, err
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		m.elems = append(m.elems, key, value)
		if err := p.separator(ronRBrace); err != nil {
			return nil, err
		}
	}
}

// parseParen parses `( … )` after an optional name: a unit value, a struct
// when the first item is `ident:`, a tuple otherwise.
func (p *ronParser) parseParen(name string, pos ronPos) (*ronValue, error) {
	p.advance() // (
	if p.peek().typ == ronRParen {
		p.advance()
		if name == "" {
			return &ronValue{kind: ronValUnit, pos: pos}, nil
		}
		return &ronValue{kind: ronValStruct, pos: pos, name: name}, nil
	}
	if p.peek().typ == ronIdent && p.peekN(1).typ == ronColon {
		return p.parseStructFields(name, pos)
	}
	tuple := &ronValue{kind: ronValTuple, pos: pos, name: name}
	for {
		if p.peek().typ == ronRParen {
			p.advance()
			return tuple, nil
		}
		elem, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		tuple.elems = append(tuple.elems, elem)
		if err := p.separator(ronRParen); err != nil {
			return nil, err
		}
	}
}

func (p *ronParser) parseStructFields(name string, pos ronPos) (*ronValue, error) {
	st := &ronValue{kind: ronValStruct, pos: pos, name: name}
	for {
		if p.peek().typ == ronRParen {
			p.advance()
			return st, nil
		}
		key, err := p.expect(ronIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(ronColon); err != nil {
			return nil, err
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		st.fields = append(st.fields, ronField{name: key.value, pos: key.pos, value: value})
		if err := p.separator(ronRParen); err != nil {
			return nil, err
		}
	}
}

// separator accepts a comma or the closing token; trailing commas are allowed.
func (p *ronParser) separator(closing ronTokenType) error {
	tok := p.peek()
	switch tok.typ {
	case ronComma:
		p.advance()
		return nil
	case closing:
		return nil
	default:
		return p.errorf(tok.pos, "expected %s or %s, found %s", ronComma, closing, tok.typ)
	}
}
