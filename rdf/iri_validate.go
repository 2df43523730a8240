package rdf

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// ValidateIRI reports whether iri is a well-formed absolute or relative IRI
// reference. It is a structural check built on url.Parse, not a complete
// RFC 3987 validator.
func ValidateIRI(iri string) error {
	if iri == "" {
		return fmt.Errorf("empty IRI")
	}
	for i, r := range iri {
		if r < 0x20 || r == 0x7F {
			return fmt.Errorf("invalid control character at position %d in IRI: %s", i, iri)
		}
		switch r {
		case ' ', '<', '>', '"', '{', '}', '|', '^', '`', '\\':
			return fmt.Errorf("invalid character %q at position %d in IRI: %s", r, i, iri)
		}
	}

	parsed, err := url.Parse(iri)
	if err != nil {
		return fmt.Errorf("invalid IRI syntax: %w", err)
	}
	if parsed.Scheme != "" {
		first := parsed.Scheme[0]
		if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
			return fmt.Errorf("scheme must start with a letter: %s", iri)
		}
		return nil
	}

	// A network-path reference needs a scheme to be usable.
	if strings.HasPrefix(iri, "//") {
		return fmt.Errorf("relative IRI without scheme: %s", iri)
	}
	return nil
}

// ValidateBlankNodeLabel reports whether label is a valid blank node label
// (the part after "_:").
func ValidateBlankNodeLabel(label []byte) error {
	if len(label) == 0 {
		return fmt.Errorf("empty blank node label")
	}
	if label[len(label)-1] == '.' {
		return fmt.Errorf("blank node label ends with '.': %s", label)
	}
	for i := 0; i < len(label); {
		r, size := utf8.DecodeRune(label[i:])
		if r == utf8.RuneError && size <= 1 {
			return fmt.Errorf("invalid UTF-8 in blank node label at position %d", i)
		}
		if !isBlankLabelRune(r, i == 0) {
			return fmt.Errorf("invalid character %q at position %d in blank node label: %s", r, i, label)
		}
		i += size
	}
	return nil
}

func isBlankLabelRune(r rune, first bool) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		return true
	case r >= 0x80:
		return true
	case first:
		return false
	}
	return r == '-' || r == '.'
}
