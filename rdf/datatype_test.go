package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXSDCanonicalizer(t *testing.T) {
	tests := []struct {
		datatype string
		lexical  string
		want     string
	}{
		{"boolean", "1", "true"},
		{"boolean", "false", "false"},
		{"integer", "+007", "7"},
		{"integer", "-0", "0"},
		{"integer", "123456789012345678901234567890", "123456789012345678901234567890"},
		{"byte", "127", "127"},
		{"unsignedLong", "18446744073709551615", "18446744073709551615"},
		{"decimal", "1.50", "1.5"},
		{"decimal", "-.5", "-0.5"},
		{"decimal", "+003", "3.0"},
		{"decimal", "-0.00", "0.0"},
		{"double", "1e3", "1.0E3"},
		{"double", "0.00125", "1.25E-3"},
		{"double", "-0", "-0.0E0"},
		{"double", "INF", "INF"},
		{"float", "NaN", "NaN"},
		{"float", "1.5", "1.5E0"},
		{"date", "2024-01-05", "2024-01-05"},
		{"date", "2024-01-05+02:00", "2024-01-05+02:00"},
		{"dateTime", "2024-01-05T10:30:00", "2024-01-05T10:30:00"},
		{"dateTime", "2024-01-05T10:30:00.500+02:00", "2024-01-05T08:30:00.5Z"},
		{"dateTime", " 2024-01-05T10:30:00Z ", "2024-01-05T10:30:00Z"},
	}
	var c XSDCanonicalizer
	for _, tt := range tests {
		t.Run(tt.datatype+"/"+tt.lexical, func(t *testing.T) {
			got, err := c.Canonicalize(XSDNamespace+tt.datatype, tt.lexical)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestXSDCanonicalizerRejects(t *testing.T) {
	tests := []struct {
		datatype string
		lexical  string
	}{
		{"boolean", "yes"},
		{"integer", "1.0"},
		{"integer", ""},
		{"byte", "128"},
		{"positiveInteger", "0"},
		{"unsignedInt", "-1"},
		{"decimal", "1e3"},
		{"decimal", "."},
		{"double", "1e"},
		{"double", "inf"},
		{"date", "2024-13-01"},
		{"dateTime", "2024-01-05"},
	}
	var c XSDCanonicalizer
	for _, tt := range tests {
		t.Run(tt.datatype+"/"+tt.lexical, func(t *testing.T) {
			_, err := c.Canonicalize(XSDNamespace+tt.datatype, tt.lexical)
			assert.ErrorIs(t, err, ErrInvalidLexical)
		})
	}
}

func TestXSDCanonicalizerUnknownDatatype(t *testing.T) {
	var c XSDCanonicalizer
	got, err := c.Canonicalize("urn:custom", " raw ")
	require.NoError(t, err)
	assert.Equal(t, " raw ", got)

	got, err = c.Canonicalize(XSDNamespace+"gYear", "2024")
	require.NoError(t, err)
	assert.Equal(t, "2024", got)
}

func TestAppendQuoted(t *testing.T) {
	quote := func(s string) string { return string(appendQuoted(nil, []byte(s))) }
	assert.Equal(t, `"plain"`, quote("plain"))
	assert.Equal(t, `"a\\b\"c\nd\re"`, quote("a\\b\"c\nd\re"))
	assert.Equal(t, "\"tab\there\"", quote("tab\there"))
	assert.Equal(t, "\"\xff\"", quote("\xff"))
}
