package turtle

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

const (
	xsdNS = "http://www.w3.org/2001/XMLSchema#"
	rdfNS = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
)

var (
	rdfType    = Node{Type: NodeURI, Buf: []byte(rdfNS + "type")}
	rdfFirst   = Node{Type: NodeURI, Buf: []byte(rdfNS + "first")}
	rdfRest    = Node{Type: NodeURI, Buf: []byte(rdfNS + "rest")}
	rdfNil     = Node{Type: NodeURI, Buf: []byte(rdfNS + "nil")}
	xsdInteger = Node{Type: NodeURI, Buf: []byte(xsdNS + "integer")}
	xsdDecimal = Node{Type: NodeURI, Buf: []byte(xsdNS + "decimal")}
	xsdDouble  = Node{Type: NodeURI, Buf: []byte(xsdNS + "double")}
	xsdBoolean = Node{Type: NodeURI, Buf: []byte(xsdNS + "boolean")}
)

// cursor parses one statement group held in buf. Escapes are decoded in
// place, which never grows the text, so node views stay valid for the whole
// chunk.
type cursor struct {
	r   *Reader
	buf []byte
	pos int
}

// literal is a parsed object literal with its optional metadata.
type literal struct {
	lexical  Node
	datatype Node
	lang     Node
}

func (c *cursor) parseChunk() error {
	for {
		c.skipWS()
		if c.pos >= len(c.buf) {
			return nil
		}
		if err := c.parseStatement(); err != nil {
			return err
		}
	}
}

func (c *cursor) parseStatement() error {
	switch {
	case c.hasKeyword("@prefix", true):
		c.pos += len("@prefix")
		return c.parsePrefix(true)
	case c.hasKeyword("@base", true):
		c.pos += len("@base")
		return c.parseBase(true)
	case c.hasKeyword("PREFIX", false):
		c.pos += len("PREFIX")
		return c.parsePrefix(false)
	case c.hasKeyword("BASE", false):
		c.pos += len("BASE")
		return c.parseBase(false)
	}
	return c.parseTriples()
}

func (c *cursor) parsePrefix(terminated bool) error {
	c.skipWS()
	start := c.pos
	for c.pos < len(c.buf) && c.buf[c.pos] != ':' && !isSpace(c.buf[c.pos]) {
		c.pos++
	}
	if c.pos >= len(c.buf) || c.buf[c.pos] != ':' {
		return c.errorf(StatusBadSyntax, "expected prefix name ending in ':'")
	}
	name := c.buf[start:c.pos]
	if !isValidPrefixName(name) {
		return c.errorf(StatusBadSyntax, "invalid prefix name %q", name)
	}
	c.pos++
	c.skipWS()
	uri, err := c.parseIRIRef()
	if err != nil {
		return err
	}
	if terminated && !c.consume('.') {
		return c.errorf(StatusBadSyntax, "expected '.' after @prefix directive")
	}
	if c.r.h.Prefix == nil {
		return nil
	}
	c.r.emitPos = start
	return c.r.h.Prefix(Node{Type: NodeLiteral, Buf: name}, uri)
}

func (c *cursor) parseBase(terminated bool) error {
	c.skipWS()
	start := c.pos
	uri, err := c.parseIRIRef()
	if err != nil {
		return err
	}
	if terminated && !c.consume('.') {
		return c.errorf(StatusBadSyntax, "expected '.' after @base directive")
	}
	if c.r.h.Base == nil {
		return nil
	}
	c.r.emitPos = start
	return c.r.h.Base(uri)
}

func (c *cursor) parseTriples() error {
	subject, hasProperties, err := c.parseSubject()
	if err != nil {
		return err
	}
	c.skipWS()
	// A blank node property list may stand alone as a statement.
	if hasProperties && c.peek() == '.' {
		c.pos++
		return nil
	}
	if err := c.parsePredicateObjectList(subject); err != nil {
		return err
	}
	if !c.consume('.') {
		return c.errorf(StatusBadSyntax, "expected '.' at end of statement")
	}
	return nil
}

func (c *cursor) parseSubject() (Node, bool, error) {
	c.skipWS()
	if c.pos >= len(c.buf) {
		return Node{}, false, c.errorf(StatusBadSyntax, "unexpected end of statement")
	}
	switch ch := c.buf[c.pos]; {
	case ch == '<':
		if c.hasPrefix("<<") {
			return Node{}, false, c.errorf(StatusBadSyntax, "quoted triples are not supported")
		}
		n, err := c.parseIRIRef()
		return n, false, err
	case c.hasPrefix("_:"):
		n, err := c.parseBlankLabel()
		return n, false, err
	case ch == '[':
		return c.parseBlankNodePropertyList()
	case ch == '(':
		n, err := c.parseCollection()
		return n, false, err
	case ch == '"' || ch == '\'':
		return Node{}, false, c.errorf(StatusBadSyntax, "literal not allowed as subject")
	default:
		n, err := c.parsePrefixedName()
		return n, false, err
	}
}

func (c *cursor) parsePredicateObjectList(subject Node) error {
	for {
		predicate, err := c.parseVerb()
		if err != nil {
			return err
		}
		if err := c.parseObjectList(subject, predicate); err != nil {
			return err
		}
		c.skipWS()
		if c.peek() != ';' {
			return nil
		}
		for c.peek() == ';' {
			c.pos++
			c.skipWS()
		}
		switch c.peek() {
		case '.', ']', 0:
			return nil
		}
	}
}

func (c *cursor) parseVerb() (Node, error) {
	c.skipWS()
	if c.peek() == 'a' && isTerminator(c.peekAt(1), c.peekAt(2)) {
		c.pos++
		return rdfType, nil
	}
	switch {
	case c.hasPrefix("<<"):
		return Node{}, c.errorf(StatusBadSyntax, "quoted triples are not supported")
	case c.peek() == '<':
		return c.parseIRIRef()
	case c.pos >= len(c.buf):
		return Node{}, c.errorf(StatusBadSyntax, "expected predicate")
	}
	switch c.buf[c.pos] {
	case '"', '\'', '[', '(', '_':
		return Node{}, c.errorf(StatusBadSyntax, "predicate must be an IRI")
	}
	return c.parsePrefixedName()
}

func (c *cursor) parseObjectList(subject, predicate Node) error {
	for {
		if err := c.parseObject(subject, predicate); err != nil {
			return err
		}
		c.skipWS()
		if c.peek() != ',' {
			return nil
		}
		c.pos++
	}
}

// parseObject parses one object and emits the statement for it. Nested
// blank node property lists and collections emit the outer statement first.
func (c *cursor) parseObject(subject, predicate Node) error {
	c.skipWS()
	if c.pos >= len(c.buf) {
		return c.errorf(StatusBadSyntax, "expected object")
	}
	switch ch := c.buf[c.pos]; {
	case c.hasPrefix("<<"):
		return c.errorf(StatusBadSyntax, "quoted triples are not supported")
	case ch == '<':
		obj, err := c.parseIRIRef()
		if err != nil {
			return err
		}
		return c.emit(subject, predicate, literal{lexical: obj})
	case c.hasPrefix("_:"):
		obj, err := c.parseBlankLabel()
		if err != nil {
			return err
		}
		return c.emit(subject, predicate, literal{lexical: obj})
	case ch == '[':
		c.pos++
		bn := c.r.genBlank()
		if err := c.emit(subject, predicate, literal{lexical: bn}); err != nil {
			return err
		}
		return c.parsePropertyListBody(bn)
	case ch == '(':
		c.pos++
		if c.consume(')') {
			return c.emit(subject, predicate, literal{lexical: rdfNil})
		}
		head := c.r.genBlank()
		if err := c.emit(subject, predicate, literal{lexical: head}); err != nil {
			return err
		}
		return c.parseCollectionItems(head)
	case ch == '"' || ch == '\'':
		lit, err := c.parseLiteral(ch)
		if err != nil {
			return err
		}
		return c.emit(subject, predicate, lit)
	}
	if lit, ok := c.tryParseNumericLiteral(); ok {
		return c.emit(subject, predicate, lit)
	}
	if lit, ok := c.tryParseBooleanLiteral(); ok {
		return c.emit(subject, predicate, lit)
	}
	obj, err := c.parsePrefixedName()
	if err != nil {
		return err
	}
	return c.emit(subject, predicate, literal{lexical: obj})
}

func (c *cursor) emit(subject, predicate Node, obj literal) error {
	if c.r.h.Statement == nil {
		return nil
	}
	c.r.emitPos = c.pos
	ev := Event{
		Subject:   subject,
		Predicate: predicate,
		Object:    obj.lexical,
		Datatype:  obj.datatype,
		Lang:      obj.lang,
	}
	return c.r.h.Statement(&ev)
}

// parseBlankNodePropertyList parses "[ ... ]" in subject position.
func (c *cursor) parseBlankNodePropertyList() (Node, bool, error) {
	c.pos++ // '['
	bn := c.r.genBlank()
	c.skipWS()
	if c.peek() == ']' {
		c.pos++
		return bn, false, nil
	}
	if err := c.parsePropertyListBody(bn); err != nil {
		return Node{}, false, err
	}
	return bn, true, nil
}

// parsePropertyListBody parses the predicate-object list after '[' up to and
// including the closing ']'.
func (c *cursor) parsePropertyListBody(bn Node) error {
	c.skipWS()
	if c.consume(']') {
		return nil
	}
	if err := c.parsePredicateObjectList(bn); err != nil {
		return err
	}
	if !c.consume(']') {
		return c.errorf(StatusBadSyntax, "expected ']'")
	}
	return nil
}

// parseCollection parses "( ... )" in subject position.
func (c *cursor) parseCollection() (Node, error) {
	c.pos++ // '('
	if c.consume(')') {
		return rdfNil, nil
	}
	head := c.r.genBlank()
	if err := c.parseCollectionItems(head); err != nil {
		return Node{}, err
	}
	return head, nil
}

// parseCollectionItems emits the rdf:first/rdf:rest chain starting at head.
// At least one item must follow; the closing ')' is consumed.
func (c *cursor) parseCollectionItems(head Node) error {
	current := head
	for {
		if err := c.parseObject(current, rdfFirst); err != nil {
			return err
		}
		c.skipWS()
		if c.pos >= len(c.buf) {
			return c.errorf(StatusBadSyntax, "unterminated collection")
		}
		if c.consume(')') {
			return c.emit(current, rdfRest, literal{lexical: rdfNil})
		}
		next := c.r.genBlank()
		if err := c.emit(current, rdfRest, literal{lexical: next}); err != nil {
			return err
		}
		current = next
	}
}

// parseIRIRef parses "<...>" and decodes UCHAR escapes in place.
func (c *cursor) parseIRIRef() (Node, error) {
	c.skipWS()
	if c.peek() != '<' {
		return Node{}, c.errorf(StatusBadSyntax, "expected IRI")
	}
	c.pos++
	start := c.pos
	w := c.pos
	for c.pos < len(c.buf) && c.buf[c.pos] != '>' {
		ch := c.buf[c.pos]
		if ch == '\\' {
			cp, n, ok := c.decodeEscapedCodePoint()
			if !ok || cp <= 0x20 || cp == '<' || cp == '>' || (c.r.opts.Strict && isDisallowedIRIChar(cp)) {
				return Node{}, c.errorf(StatusBadSyntax, "invalid escape in IRI")
			}
			c.pos += n
			w += utf8.EncodeRune(c.buf[w:], cp)
			continue
		}
		// whitespace and '<' never belong to an IRI; the rest is tolerated unless strict
		if ch <= 0x20 || ch == '<' || (c.r.opts.Strict && (ch == '"' || ch == '{' || ch == '}' || ch == '|' || ch == '^' || ch == '`')) {
			return Node{}, c.errorf(StatusBadSyntax, "invalid character %q in IRI", ch)
		}
		c.buf[w] = ch
		w++
		c.pos++
	}
	if c.pos >= len(c.buf) {
		return Node{}, c.errorf(StatusBadSyntax, "unterminated IRI")
	}
	c.pos++ // '>'
	return Node{Type: NodeURI, Buf: c.buf[start:w]}, nil
}

// decodeEscapedCodePoint decodes \uXXXX or \UXXXXXXXX at the cursor,
// returning the code point and the escape length.
func (c *cursor) decodeEscapedCodePoint() (rune, int, bool) {
	if c.pos+1 >= len(c.buf) {
		return 0, 0, false
	}
	size := 0
	switch c.buf[c.pos+1] {
	case 'u':
		size = 4
	case 'U':
		size = 8
	default:
		return 0, 0, false
	}
	if c.pos+2+size > len(c.buf) {
		return 0, 0, false
	}
	cp := decodeUChar(c.buf[c.pos+2 : c.pos+2+size])
	if cp < 0 {
		return 0, 0, false
	}
	n := 2 + size
	if size == 4 && cp >= surrogateHighStart && cp <= surrogateHighEnd {
		// surrogate pair written as two \u escapes
		rest := c.buf[c.pos+n:]
		if len(rest) < 6 || rest[0] != '\\' || rest[1] != 'u' {
			return 0, 0, false
		}
		low := decodeUChar(rest[2:6])
		if low < surrogateLowStart || low > surrogateLowEnd {
			return 0, 0, false
		}
		cp = surrogateBase + ((cp - surrogateHighStart) << 10) + (low - surrogateLowStart)
		n += 6
	}
	if !isValidUnicodeCodePoint(cp) {
		return 0, 0, false
	}
	return cp, n, true
}

func (c *cursor) parseBlankLabel() (Node, error) {
	c.pos += 2 // "_:"
	start := c.pos
	for c.pos < len(c.buf) && !isTerminator(c.buf[c.pos], c.peekAt(1)) && c.buf[c.pos] != ':' {
		c.pos++
	}
	if start == c.pos {
		return Node{}, c.errorf(StatusBadSyntax, "blank node id missing")
	}
	label := c.buf[start:c.pos]
	if label[len(label)-1] == '.' {
		return Node{}, c.errorf(StatusBadSyntax, "blank node id may not end with '.'")
	}
	if !c.r.claimLabel(label) {
		return Node{}, c.errorf(StatusIDClash, "blank node id %q clashes with a generated id", label)
	}
	return Node{Type: NodeBlank, Buf: label}, nil
}

// parsePrefixedName scans a bare word and returns it as an unexpanded
// CURIE. Local name escapes are removed in place.
func (c *cursor) parsePrefixedName() (Node, error) {
	start := c.pos
	w := c.pos
	for c.pos < len(c.buf) {
		ch := c.buf[c.pos]
		if ch == '\\' && c.pos+1 < len(c.buf) {
			esc := c.buf[c.pos+1]
			if c.r.opts.Strict && !isValidPNLocalEscape(esc) {
				return Node{}, c.errorf(StatusBadSyntax, "invalid local name escape '\\%c'", esc)
			}
			c.buf[w] = esc
			w++
			c.pos += 2
			continue
		}
		if isTerminator(ch, c.peekAt(1)) {
			break
		}
		if c.r.opts.Strict && (ch == '~' || ch == '^' || ch == '{' || ch == '|') {
			return Node{}, c.errorf(StatusBadSyntax, "invalid character %q in prefixed name", ch)
		}
		c.buf[w] = ch
		w++
		c.pos++
	}
	if w == start {
		return Node{}, c.errorf(StatusBadSyntax, "expected term")
	}
	return Node{Type: NodeCURIE, Buf: c.buf[start:w]}, nil
}

// parseLiteral parses a quoted string with its optional language tag or
// datatype. The lexical form is unescaped in place.
func (c *cursor) parseLiteral(quote byte) (literal, error) {
	long := c.hasPrefix(string([]byte{quote, quote, quote}))
	if long {
		c.pos += 3
	} else {
		c.pos++
	}
	start := c.pos
	w := c.pos
	closed := false
	for c.pos < len(c.buf) {
		ch := c.buf[c.pos]
		if ch == quote {
			if !long {
				c.pos++
				closed = true
				break
			}
			if c.pos+2 < len(c.buf) && c.buf[c.pos+1] == quote && c.buf[c.pos+2] == quote {
				c.pos += 3
				closed = true
				break
			}
		}
		if !long && (ch == '\n' || ch == '\r') {
			return literal{}, c.errorf(StatusBadSyntax, "line break in short string")
		}
		if ch == '\\' {
			n, err := c.unescapeAt(&w)
			if err != nil {
				return literal{}, err
			}
			c.pos += n
			continue
		}
		c.buf[w] = ch
		w++
		c.pos++
	}
	if !closed {
		return literal{}, c.errorf(StatusBadSyntax, "unterminated string literal")
	}
	lit := literal{lexical: Node{Type: NodeLiteral, Buf: c.buf[start:w]}}

	switch {
	case c.peek() == '@':
		c.pos++
		langStart := c.pos
		for c.pos < len(c.buf) && !isTerminator(c.buf[c.pos], c.peekAt(1)) {
			c.pos++
		}
		lang := c.buf[langStart:c.pos]
		if len(lang) == 0 || (c.r.opts.Strict && !isValidLangTag(lang)) {
			return literal{}, c.errorf(StatusBadSyntax, "invalid language tag %q", lang)
		}
		if c.hasPrefix("^^") {
			return literal{}, c.errorf(StatusBadSyntax, "literal cannot have both language tag and datatype")
		}
		lit.lang = Node{Type: NodeLiteral, Buf: lang}
	case c.hasPrefix("^^"):
		c.pos += 2
		var err error
		if c.peek() == '<' {
			lit.datatype, err = c.parseIRIRef()
		} else {
			lit.datatype, err = c.parsePrefixedName()
		}
		if err != nil {
			return literal{}, err
		}
	}
	return lit, nil
}

// unescapeAt decodes the string escape at the cursor into buf[*w:] and
// returns the number of input bytes consumed.
func (c *cursor) unescapeAt(w *int) (int, error) {
	if c.pos+1 >= len(c.buf) {
		return 0, c.errorf(StatusBadSyntax, "unterminated escape")
	}
	var out byte
	switch c.buf[c.pos+1] {
	case 't':
		out = '\t'
	case 'b':
		out = '\b'
	case 'n':
		out = '\n'
	case 'r':
		out = '\r'
	case 'f':
		out = '\f'
	case '"':
		out = '"'
	case '\'':
		out = '\''
	case '\\':
		out = '\\'
	case 'u', 'U':
		cp, n, ok := c.decodeEscapedCodePoint()
		if !ok {
			return 0, c.errorf(StatusBadSyntax, "invalid escape sequence")
		}
		*w += utf8.EncodeRune(c.buf[*w:], cp)
		return n, nil
	default:
		return 0, c.errorf(StatusBadSyntax, "invalid escape sequence '\\%c'", c.buf[c.pos+1])
	}
	c.buf[*w] = out
	*w++
	return 2, nil
}

func (c *cursor) tryParseNumericLiteral() (literal, bool) {
	start := c.pos
	pos := c.pos
	if pos < len(c.buf) && (c.buf[pos] == '+' || c.buf[pos] == '-') {
		pos++
	}
	hasDigits, hasDot, hasExp := false, false, false
	for pos < len(c.buf) {
		ch := c.buf[pos]
		switch {
		case isDigit(ch):
			hasDigits = true
			pos++
			continue
		case ch == '.' && !hasDot && !hasExp:
			next := byte(0)
			if pos+1 < len(c.buf) {
				next = c.buf[pos+1]
			}
			if isDigit(next) || ((next == 'e' || next == 'E') && hasDigits) {
				hasDot = true
				pos++
				continue
			}
		case (ch == 'e' || ch == 'E') && !hasExp && hasDigits:
			hasExp = true
			pos++
			if pos < len(c.buf) && (c.buf[pos] == '+' || c.buf[pos] == '-') {
				pos++
			}
			if pos >= len(c.buf) || !isDigit(c.buf[pos]) {
				return literal{}, false
			}
			continue
		}
		break
	}
	if !hasDigits {
		return literal{}, false
	}
	next, nextNext := byte(0), byte(0)
	if pos < len(c.buf) {
		next = c.buf[pos]
	}
	if pos+1 < len(c.buf) {
		nextNext = c.buf[pos+1]
	}
	if next != 0 && !isTerminator(next, nextNext) {
		return literal{}, false
	}
	c.pos = pos
	lit := literal{lexical: Node{Type: NodeLiteral, Buf: c.buf[start:pos]}}
	switch {
	case hasExp:
		lit.datatype = xsdDouble
	case hasDot:
		lit.datatype = xsdDecimal
	default:
		lit.datatype = xsdInteger
	}
	return lit, true
}

func (c *cursor) tryParseBooleanLiteral() (literal, bool) {
	for _, word := range []string{"true", "false"} {
		end := c.pos + len(word)
		if !c.hasPrefix(word) {
			continue
		}
		if end < len(c.buf) && !isTerminator(c.buf[end], c.peekAt(len(word)+1)) {
			continue
		}
		c.pos = end
		return literal{
			lexical:  Node{Type: NodeLiteral, Buf: c.buf[end-len(word) : end]},
			datatype: xsdBoolean,
		}, true
	}
	return literal{}, false
}

// skipWS skips whitespace and comments.
func (c *cursor) skipWS() {
	for c.pos < len(c.buf) {
		switch ch := c.buf[c.pos]; {
		case isSpace(ch):
			c.pos++
		case ch == '#':
			for c.pos < len(c.buf) && c.buf[c.pos] != '\n' {
				c.pos++
			}
		default:
			return
		}
	}
}

func (c *cursor) consume(ch byte) bool {
	c.skipWS()
	if c.peek() == ch {
		c.pos++
		return true
	}
	return false
}

func (c *cursor) peek() byte { return c.peekAt(0) }

func (c *cursor) peekAt(offset int) byte {
	if c.pos+offset >= len(c.buf) {
		return 0
	}
	return c.buf[c.pos+offset]
}

func (c *cursor) hasPrefix(prefix string) bool {
	return bytes.HasPrefix(c.buf[c.pos:], []byte(prefix))
}

// hasKeyword matches a directive keyword followed by whitespace. The '@'
// forms are case sensitive, the SPARQL forms are not.
func (c *cursor) hasKeyword(kw string, caseSensitive bool) bool {
	end := c.pos + len(kw)
	if end >= len(c.buf) || !isSpace(c.buf[end]) {
		return false
	}
	word := c.buf[c.pos:end]
	if caseSensitive {
		return string(word) == kw
	}
	return bytes.EqualFold(word, []byte(kw))
}

func (c *cursor) errorf(status Status, format string, args ...interface{}) error {
	line, col := c.r.position(c.pos)
	return c.r.fail(&Error{
		Status:  status,
		Line:    line,
		Column:  col,
		Message: fmt.Sprintf(format, args...),
	})
}
