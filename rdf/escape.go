package rdf

// appendQuoted appends lexical as a double-quoted N-Triples string.
// Only backslash, line feed, carriage return and the double quote are
// escaped; every other byte is copied unchanged.
func appendQuoted(dst, lexical []byte) []byte {
	dst = append(dst, '"')
	start := 0
	for i, ch := range lexical {
		var esc string
		switch ch {
		case '\\':
			esc = `\\`
		case '\n':
			esc = `\n`
		case '\r':
			esc = `\r`
		case '"':
			esc = `\"`
		default:
			continue
		}
		dst = append(dst, lexical[start:i]...)
		dst = append(dst, esc...)
		start = i + 1
	}
	dst = append(dst, lexical[start:]...)
	return append(dst, '"')
}
