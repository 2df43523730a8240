package turtle

import (
	"bufio"
	"bytes"
	"io"
)

// stripComment cuts a trailing comment that sits outside strings and IRIs.
func stripComment(line []byte) []byte {
	inString := false
	inIRI := false
	quote := byte(0)

	for i := 0; i < len(line); i++ {
		ch := line[i]
		if inString {
			if ch == '\\' {
				i++
				continue
			}
			if ch == quote {
				inString = false
			}
			continue
		}
		if inIRI {
			if ch == '>' {
				inIRI = false
			}
			continue
		}
		switch ch {
		case '"', '\'':
			inString = true
			quote = ch
		case '<':
			inIRI = true
		case '#':
			if i > 0 && line[i-1] == '\\' {
				// PN_LOCAL_ESC
				continue
			}
			return line[:i]
		}
	}
	return line
}

// groupScanner tracks strings, IRIs and nesting across the lines of one
// statement group.
type groupScanner struct {
	inString     bool
	longString   bool
	quote        byte
	inIRI        bool
	bracketDepth int
	parenDepth   int
}

func (g *groupScanner) reset() { *g = groupScanner{} }

// complete consumes the next line of the group and reports whether the group
// ends with it, that is, whether the line closes with a top-level '.'.
// A line break inside a short string or an IRI also ends the group, since
// neither token may span lines.
func (g *groupScanner) complete(line []byte) bool {
	for i := 0; i < len(line); i++ {
		ch := line[i]

		if g.inString {
			if ch == '\\' {
				i++
				if !g.longString && i < len(line) && line[i] == '\n' {
					return true
				}
				continue
			}
			if ch == '\n' && !g.longString {
				return true
			}
			if ch == g.quote {
				if !g.longString {
					g.inString = false
				} else if i+2 < len(line) && line[i+1] == g.quote && line[i+2] == g.quote {
					g.inString = false
					g.longString = false
					i += 2
				}
			}
			continue
		}
		if g.inIRI {
			switch ch {
			case '>':
				g.inIRI = false
			case '\n':
				return true
			}
			continue
		}

		switch ch {
		case '<':
			g.inIRI = true
		case '"', '\'':
			g.inString = true
			g.quote = ch
			if i+2 < len(line) && line[i+1] == ch && line[i+2] == ch {
				g.longString = true
				i += 2
			}
		case '[':
			g.bracketDepth++
		case ']':
			if g.bracketDepth > 0 {
				g.bracketDepth--
			}
		case '(':
			g.parenDepth++
		case ')':
			if g.parenDepth > 0 {
				g.parenDepth--
			}
		case '#':
			if i > 0 && line[i-1] == '\\' {
				continue
			}
			for i < len(line) && line[i] != '\n' {
				i++
			}
		case '.':
			if g.bracketDepth != 0 || g.parenDepth != 0 {
				continue
			}
			if i > 0 && isDigit(line[i-1]) && i+1 < len(line) && isDigit(line[i+1]) {
				// decimal point
				continue
			}
			if isBlankLine(line[i+1:]) {
				return true
			}
		}
	}
	return false
}

// isBlankLine reports whether text holds nothing but whitespace and
// comments.
func isBlankLine(text []byte) bool {
	for len(text) > 0 {
		text = bytes.TrimLeft(text, " \t\r\n")
		if len(text) == 0 || text[0] != '#' {
			return len(text) == 0
		}
		end := bytes.IndexByte(text, '\n')
		if end < 0 {
			return true
		}
		text = text[end+1:]
	}
	return true
}

// isBareDirective reports whether line is a complete SPARQL-style PREFIX or
// BASE directive, which carries no terminating '.'.
func isBareDirective(line []byte) bool {
	for _, kw := range [][]byte{[]byte("PREFIX"), []byte("BASE")} {
		if len(line) > len(kw) && bytes.EqualFold(line[:len(kw)], kw) && isSpace(line[len(kw)]) {
			return line[len(line)-1] == '>'
		}
	}
	return false
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

// readLine appends the next line (including its newline) to dst.
// maxBytes <= 0 disables the limit.
func readLine(reader *bufio.Reader, dst []byte, maxBytes int) ([]byte, error) {
	start := len(dst)
	for {
		part, err := reader.ReadSlice('\n')
		dst = append(dst, part...)
		if maxBytes > 0 && len(dst)-start > maxBytes {
			if err == bufio.ErrBufferFull {
				discardLine(reader)
			}
			return dst[:start], ErrLineTooLong
		}
		switch err {
		case nil:
			return dst, nil
		case bufio.ErrBufferFull:
			continue
		case io.EOF:
			if len(dst) > start {
				return dst, nil
			}
			return dst, io.EOF
		default:
			return dst[:start], err
		}
	}
}

func discardLine(reader *bufio.Reader) {
	for {
		_, err := reader.ReadSlice('\n')
		if err != bufio.ErrBufferFull {
			return
		}
	}
}
