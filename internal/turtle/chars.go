package turtle

import (
	"bytes"
	"strconv"
)

// Unicode surrogate pair constants
const (
	surrogateHighStart = 0xD800
	surrogateHighEnd   = 0xDBFF
	surrogateLowStart  = 0xDC00
	surrogateLowEnd    = 0xDFFF
	surrogateBase      = 0x10000
)

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isValidPNLocalEscape(ch byte) bool {
	switch ch {
	case '_', '~', '.', '-', '!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=', '/', '?', '#', '@', '%':
		return true
	default:
		return false
	}
}

// isValidLangTag checks BCP47-shaped tags, including the RDF 1.2 direction suffix.
func isValidLangTag(tag []byte) bool {
	if len(tag) == 0 {
		return false
	}
	if i := bytes.Index(tag, []byte("--")); i >= 0 {
		dir := tag[i+2:]
		if !bytes.Equal(dir, []byte("ltr")) && !bytes.Equal(dir, []byte("rtl")) {
			return false
		}
		tag = tag[:i]
	}
	parts := bytes.Split(tag, []byte("-"))
	if len(parts[0]) < 1 || len(parts[0]) > 8 {
		return false
	}
	for i, part := range parts {
		if len(part) == 0 {
			return false
		}
		for _, ch := range part {
			alpha := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
			if i == 0 && !alpha {
				return false
			}
			if !alpha && !isDigit(ch) {
				return false
			}
		}
	}
	return true
}

func isValidUnicodeCodePoint(cp rune) bool {
	if cp > 0x10FFFF {
		return false
	}
	return cp < surrogateHighStart || cp > surrogateLowEnd
}

func decodeUChar(hex []byte) rune {
	if len(hex) != 4 && len(hex) != 8 {
		return -1
	}
	var cp rune
	for _, ch := range hex {
		var digit rune
		switch {
		case ch >= '0' && ch <= '9':
			digit = rune(ch - '0')
		case ch >= 'a' && ch <= 'f':
			digit = rune(ch-'a') + 10
		case ch >= 'A' && ch <= 'F':
			digit = rune(ch-'A') + 10
		default:
			return -1
		}
		cp = cp*16 + digit
	}
	return cp
}

func isValidPrefixName(prefix []byte) bool {
	if len(prefix) == 0 {
		return true
	}
	if prefix[0] == '.' || prefix[len(prefix)-1] == '.' {
		return false
	}
	first := prefix[0]
	if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z') || first == '_' || first >= 0x80) {
		return false
	}
	for _, ch := range prefix[1:] {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || isDigit(ch) || ch == '_' || ch == '-' || ch == '.' || ch >= 0x80 {
			continue
		}
		return false
	}
	return true
}

func isDisallowedIRIChar(cp rune) bool {
	if cp <= 0x20 || (cp >= 0x7F && cp <= 0x9F) {
		return true
	}
	switch cp {
	case '<', '>', '"', '{', '}', '|', '^', '`', '\\':
		return true
	}
	return false
}

func isTerminator(ch byte, next byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', ';', ',', '(', ')', '[', ']', '}', '<', '>', '"', '\'':
		return true
	case '.':
		// A dot ends a token only before whitespace, a delimiter or end of input.
		switch next {
		case 0, ' ', '\t', '\r', '\n', ';', ',', ')', ']', '}':
			return true
		}
		return false
	default:
		return false
	}
}

// generatedLabelNumber returns n when label has the genid<n> shape used for
// generated blank nodes.
func generatedLabelNumber(label []byte) (uint64, bool) {
	digits, ok := bytes.CutPrefix(label, []byte(generatedLabelPrefix))
	if !ok || len(digits) == 0 || digits[0] == '0' {
		return 0, false
	}
	for _, ch := range digits {
		if !isDigit(ch) {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(string(digits), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
