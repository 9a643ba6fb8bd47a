// Package sexy reads the S-expression notation used for syntax tree input files and for
// assertions in markdown test documents.
package sexy

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// NodeType represents the type of a Node
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeInteger
	NodeList
	NodeMap
	NodeArray
)

func (t NodeType) String() string {
	switch t {
	case NodeSymbol:
		return "symbol"
	case NodeString:
		return "string"
	case NodeInteger:
		return "integer"
	case NodeList:
		return "list"
	case NodeMap:
		return "map"
	case NodeArray:
		return "array"
	default:
		return fmt.Sprintf("unknown node type %d", int(t))
	}
}

// Node represents any Sexy datum
type Node struct {
	Type NodeType

	// NodeSymbol, NodeString, NodeInteger
	Text string

	// NodeList, NodeArray, NodeMap (values)
	Items []*Node
	// NodeMap - parallel to Items
	Keys []string

	// NodeList metadata (^{key: value}), parallel slices like maps
	MetaKeys  []string
	MetaItems []*Node

	// Byte offset of the datum in the input.
	Position int
}

func (n *Node) String() string {
	switch n.Type {
	case NodeSymbol, NodeInteger:
		return n.Text
	case NodeString:
		escaped := strings.ReplaceAll(n.Text, "\\", "\\\\")
		escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
		return "\"" + escaped + "\""
	case NodeList:
		var parts []string
		if len(n.MetaKeys) > 0 {
			parts = append(parts, "^"+formatMap(n.MetaKeys, n.MetaItems))
		}
		for _, item := range n.Items {
			parts = append(parts, item.String())
		}
		return "(" + strings.Join(parts, " ") + ")"
	case NodeMap:
		return formatMap(n.Keys, n.Items)
	case NodeArray:
		var parts []string
		for _, item := range n.Items {
			parts = append(parts, item.String())
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return fmt.Sprintf("UNKNOWN_NODE_TYPE_%d", n.Type)
	}
}

func formatMap(keys []string, items []*Node) string {
	var parts []string
	for i, key := range keys {
		if i < len(items) {
			parts = append(parts, key+": "+items[i].String())
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func NewSymbol(name string) *Node {
	return &Node{Type: NodeSymbol, Text: name}
}

func NewString(value string) *Node {
	return &Node{Type: NodeString, Text: value}
}

func NewInteger(text string) *Node {
	return &Node{Type: NodeInteger, Text: text}
}

func NewList(items []*Node) *Node {
	return &Node{Type: NodeList, Items: items}
}

func NewArray(items []*Node) *Node {
	return &Node{Type: NodeArray, Items: items}
}

// Head returns the symbol naming a list form such as (assign ...), or "".
func (n *Node) Head() string {
	if n.Type != NodeList || len(n.Items) == 0 || n.Items[0].Type != NodeSymbol {
		return ""
	}
	return n.Items[0].Text
}

// Args returns the items of a list form after its head.
func (n *Node) Args() []*Node {
	if n.Type != NodeList || len(n.Items) == 0 {
		return nil
	}
	return n.Items[1:]
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

// Int returns the value of an integer datum.
func (n *Node) Int() (int64, error) {
	if n.Type != NodeInteger {
		return 0, fmt.Errorf("expected integer but got %s %s", n.Type, n.String())
	}
	return strconv.ParseInt(n.Text, 10, 64)
}

type parser struct {
	lexer        *lexer
	currentToken token
	peekToken    token
}

// Parse parses the entire input and returns the top-level datum
func Parse(input string) (*Node, error) {
	p := &parser{lexer: newLexer(input)}
	p.nextToken()
	p.nextToken()

	result, err := p.parseDatum()
	if len(p.lexer.errors) > 0 {
		// Lexer errors take priority because they might cause confusing parser errors.
		return nil, fmt.Errorf("%s", p.lexer.errors[0])
	}
	if err != nil {
		return nil, err
	}

	if p.currentToken.Type != tokenEOF {
		return nil, fmt.Errorf("offset %d: expected EOF but got %s", p.currentToken.Position, p.currentToken.Type)
	}

	return result, nil
}

func (p *parser) nextToken() {
	p.currentToken = p.peekToken
	p.peekToken = p.lexer.nextToken()
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("offset %d: %s", p.currentToken.Position, fmt.Sprintf(format, args...))
}

func (p *parser) parseDatum() (*Node, error) {
	pos := p.currentToken.Position
	var node *Node
	var err error
	switch p.currentToken.Type {
	case tokenSymbol:
		node = NewSymbol(p.currentToken.Value)
		p.nextToken()
	case tokenString:
		node = NewString(p.currentToken.Value)
		p.nextToken()
	case tokenInteger:
		node = NewInteger(p.currentToken.Value)
		p.nextToken()
	case tokenLParen:
		node, err = p.parseList()
	case tokenLBracket:
		node, err = p.parseArray()
	case tokenLBrace:
		node, err = p.parseMap()
	default:
		return nil, p.errorf("unexpected token: %s", p.currentToken.Type)
	}
	if err != nil {
		return nil, err
	}
	node.Position = pos
	return node, nil
}

func (p *parser) parseList() (*Node, error) {
	list := NewList(nil)
	p.nextToken() // consume '('

	for p.currentToken.Type != tokenRParen && p.currentToken.Type != tokenEOF {
		if p.currentToken.Type == tokenCaret {
			p.nextToken() // consume '^'
			if p.currentToken.Type != tokenLBrace {
				return nil, p.errorf("expected '{' after '^' but got %s", p.currentToken.Type)
			}
			meta, err := p.parseMap()
			if err != nil {
				return nil, err
			}
			for i, key := range meta.Keys {
				list.setMeta(key, meta.Items[i])
			}
			continue
		}
		item, err := p.parseDatum()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
	}

	if p.currentToken.Type != tokenRParen {
		return nil, p.errorf("expected ')' but got %s", p.currentToken.Type)
	}
	p.nextToken() // consume ')'
	return list, nil
}

// setMeta records a metadata entry; later values for the same key win.
func (n *Node) setMeta(key string, value *Node) {
	for i, existing := range n.MetaKeys {
		if existing == key {
			n.MetaItems[i] = value
			return
		}
	}
	n.MetaKeys = append(n.MetaKeys, key)
	n.MetaItems = append(n.MetaItems, value)
}

func (p *parser) parseArray() (*Node, error) {
	var items []*Node
	p.nextToken() // consume '['

	for p.currentToken.Type != tokenRBracket && p.currentToken.Type != tokenEOF {
		item, err := p.parseDatum()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if p.currentToken.Type != tokenRBracket {
		return nil, p.errorf("expected ']' but got %s", p.currentToken.Type)
	}
	p.nextToken() // consume ']'

	return NewArray(items), nil
}

func (p *parser) parseMap() (*Node, error) {
	m := &Node{Type: NodeMap}
	p.nextToken() // consume '{'

	for p.currentToken.Type != tokenRBrace && p.currentToken.Type != tokenEOF {
		if p.currentToken.Type != tokenSymbol {
			return nil, p.errorf("expected symbol for map key but got %s", p.currentToken.Type)
		}
		m.Keys = append(m.Keys, p.currentToken.Value)
		p.nextToken()

		if p.currentToken.Type != tokenColon {
			return nil, p.errorf("expected ':' after map key but got %s", p.currentToken.Type)
		}
		p.nextToken()

		value, err := p.parseDatum()
		if err != nil {
			return nil, err
		}
		m.Items = append(m.Items, value)

		if p.currentToken.Type == tokenComma {
			p.nextToken()
		} else if p.currentToken.Type != tokenRBrace {
			return nil, p.errorf("expected ',' or '}' in map but got %s", p.currentToken.Type)
		}
	}

	if p.currentToken.Type != tokenRBrace {
		return nil, p.errorf("expected '}' but got %s", p.currentToken.Type)
	}
	p.nextToken() // consume '}'

	return m, nil
}

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenSymbol
	tokenString
	tokenInteger
	tokenLParen
	tokenRParen
	tokenLBrace
	tokenRBrace
	tokenLBracket
	tokenRBracket
	tokenColon
	tokenComma
	tokenCaret
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "EOF"
	case tokenSymbol:
		return "symbol"
	case tokenString:
		return "string"
	case tokenInteger:
		return "integer"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenLBrace:
		return "'{'"
	case tokenRBrace:
		return "'}'"
	case tokenLBracket:
		return "'['"
	case tokenRBracket:
		return "']'"
	case tokenColon:
		return "':'"
	case tokenComma:
		return "','"
	case tokenCaret:
		return "'^'"
	default:
		return fmt.Sprintf("unknown token %d", int(t))
	}
}

type token struct {
	Type     tokenType
	Value    string
	Position int
}

type lexer struct {
	input    string
	position int
	current  rune
	errors   []string
}

func newLexer(input string) *lexer {
	l := &lexer{input: input}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.position >= len(l.input) {
		l.current = 0
	} else {
		l.current = rune(l.input[l.position])
	}
	l.position++
}

func (l *lexer) peekChar() rune {
	if l.position >= len(l.input) {
		return 0
	}
	return rune(l.input[l.position])
}

func (l *lexer) skipWhitespace() {
	for unicode.IsSpace(l.current) {
		l.readChar()
	}
}

func (l *lexer) skipComment() {
	for l.current != '\n' && l.current != '\r' && l.current != 0 {
		l.readChar()
	}
}

func (l *lexer) readSymbol() string {
	start := l.position - 1
	for isSymbolChar(l.current) {
		l.readChar()
	}
	return l.input[start : l.position-1]
}

func (l *lexer) readString() (string, error) {
	var sb strings.Builder
	l.readChar() // skip opening quote

	for l.current != '"' && l.current != 0 {
		if l.current == '\\' {
			l.readChar()
			switch l.current {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case 'n':
				sb.WriteByte('\n')
			default:
				return "", fmt.Errorf("invalid escape sequence: \\%c", l.current)
			}
		} else {
			sb.WriteRune(l.current)
		}
		l.readChar()
	}

	if l.current != '"' {
		return "", fmt.Errorf("unterminated string")
	}
	l.readChar() // skip closing quote

	return sb.String(), nil
}

func (l *lexer) readInteger() string {
	start := l.position - 1
	if l.current == '+' || l.current == '-' {
		l.readChar()
	}
	for unicode.IsDigit(l.current) {
		l.readChar()
	}
	return l.input[start : l.position-1]
}

func (l *lexer) nextToken() token {
	for {
		l.skipWhitespace()

		pos := l.position - 1

		switch l.current {
		case 0:
			return token{Type: tokenEOF, Position: pos}
		case ';':
			l.skipComment()
			continue
		case '(':
			l.readChar()
			return token{Type: tokenLParen, Value: "(", Position: pos}
		case ')':
			l.readChar()
			return token{Type: tokenRParen, Value: ")", Position: pos}
		case '{':
			l.readChar()
			return token{Type: tokenLBrace, Value: "{", Position: pos}
		case '}':
			l.readChar()
			return token{Type: tokenRBrace, Value: "}", Position: pos}
		case '[':
			l.readChar()
			return token{Type: tokenLBracket, Value: "[", Position: pos}
		case ']':
			l.readChar()
			return token{Type: tokenRBracket, Value: "]", Position: pos}
		case ':':
			l.readChar()
			return token{Type: tokenColon, Value: ":", Position: pos}
		case ',':
			l.readChar()
			return token{Type: tokenComma, Value: ",", Position: pos}
		case '^':
			l.readChar()
			return token{Type: tokenCaret, Value: "^", Position: pos}
		case '"':
			str, err := l.readString()
			if err != nil {
				l.errors = append(l.errors, fmt.Sprintf("offset %d: %v", pos, err))
				return token{Type: tokenEOF, Position: pos}
			}
			return token{Type: tokenString, Value: str, Position: pos}
		default:
			if unicode.IsLetter(l.current) || l.current == '_' {
				return token{Type: tokenSymbol, Value: l.readSymbol(), Position: pos}
			}
			if unicode.IsDigit(l.current) || ((l.current == '+' || l.current == '-') && unicode.IsDigit(l.peekChar())) {
				return token{Type: tokenInteger, Value: l.readInteger(), Position: pos}
			}
			l.errors = append(l.errors, fmt.Sprintf("offset %d: unexpected character '%c'", pos, l.current))
			return token{Type: tokenEOF, Position: pos}
		}
	}
}

func isSymbolChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}
