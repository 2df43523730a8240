package rdf

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	// XSDNamespace is the XML Schema datatype namespace.
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"
	// XSDString is the plain string datatype. Literals of this type are
	// written without a datatype suffix.
	XSDString = XSDNamespace + "string"
)

// ErrInvalidLexical is wrapped by canonicalization failures.
var ErrInvalidLexical = errors.New("invalid lexical form")

// Canonicalizer maps a lexical form of a datatype onto its canonical
// lexical form. It fails when the lexical form is not valid for the
// datatype.
type Canonicalizer interface {
	Canonicalize(datatype, lexical string) (string, error)
}

// CanonicalizerFunc adapts a function to the Canonicalizer interface.
type CanonicalizerFunc func(datatype, lexical string) (string, error)

// Canonicalize calls f.
func (f CanonicalizerFunc) Canonicalize(datatype, lexical string) (string, error) {
	return f(datatype, lexical)
}

// PassThrough accepts every lexical form unchanged.
var PassThrough Canonicalizer = CanonicalizerFunc(func(_, lexical string) (string, error) {
	return lexical, nil
})

// XSDCanonicalizer canonicalizes the XML Schema numeric, boolean and
// temporal datatypes. Other datatypes pass through unchanged.
type XSDCanonicalizer struct{}

// Canonicalize implements Canonicalizer.
func (XSDCanonicalizer) Canonicalize(datatype, lexical string) (string, error) {
	local, ok := strings.CutPrefix(datatype, XSDNamespace)
	if !ok {
		return lexical, nil
	}
	fn, ok := xsdCanonicalizers[local]
	if !ok {
		return lexical, nil
	}
	canonical, err := fn(strings.Trim(lexical, " \t\r\n"))
	if err != nil {
		return "", fmt.Errorf("xsd:%s %q: %w", local, lexical, err)
	}
	return canonical, nil
}

type integerRange struct {
	min, max *big.Int
}

func bigInt(s string) *big.Int {
	v, _ := new(big.Int).SetString(s, 10)
	return v
}

var integerRanges = map[string]integerRange{
	"integer":            {},
	"nonNegativeInteger": {min: big.NewInt(0)},
	"positiveInteger":    {min: big.NewInt(1)},
	"nonPositiveInteger": {max: big.NewInt(0)},
	"negativeInteger":    {max: big.NewInt(-1)},
	"long":               {min: big.NewInt(math.MinInt64), max: big.NewInt(math.MaxInt64)},
	"int":                {min: big.NewInt(math.MinInt32), max: big.NewInt(math.MaxInt32)},
	"short":              {min: big.NewInt(math.MinInt16), max: big.NewInt(math.MaxInt16)},
	"byte":               {min: big.NewInt(math.MinInt8), max: big.NewInt(math.MaxInt8)},
	"unsignedLong":       {min: big.NewInt(0), max: bigInt("18446744073709551615")},
	"unsignedInt":        {min: big.NewInt(0), max: big.NewInt(math.MaxUint32)},
	"unsignedShort":      {min: big.NewInt(0), max: big.NewInt(math.MaxUint16)},
	"unsignedByte":       {min: big.NewInt(0), max: big.NewInt(math.MaxUint8)},
}

var xsdCanonicalizers = map[string]func(string) (string, error){
	"boolean":  canonicalBoolean,
	"decimal":  canonicalDecimal,
	"double":   func(s string) (string, error) { return canonicalFloat(s, 64) },
	"float":    func(s string) (string, error) { return canonicalFloat(s, 32) },
	"date":     canonicalDate,
	"dateTime": canonicalDateTime,
}

func init() {
	for name, rng := range integerRanges {
		xsdCanonicalizers[name] = func(s string) (string, error) { return canonicalInteger(s, rng) }
	}
}

func canonicalBoolean(s string) (string, error) {
	switch s {
	case "true", "1":
		return "true", nil
	case "false", "0":
		return "false", nil
	}
	return "", ErrInvalidLexical
}

func canonicalInteger(s string, rng integerRange) (string, error) {
	if !isIntegerLexical(s) {
		return "", ErrInvalidLexical
	}
	v, ok := new(big.Int).SetString(strings.TrimPrefix(s, "+"), 10)
	if !ok {
		return "", ErrInvalidLexical
	}
	if (rng.min != nil && v.Cmp(rng.min) < 0) || (rng.max != nil && v.Cmp(rng.max) > 0) {
		return "", fmt.Errorf("%w: out of range", ErrInvalidLexical)
	}
	return v.String(), nil
}

func isIntegerLexical(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// canonicalDecimal writes an optional '-', at least one digit on each side
// of the point and no redundant zeros.
func canonicalDecimal(s string) (string, error) {
	sign := ""
	switch {
	case strings.HasPrefix(s, "-"):
		sign = "-"
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return "", ErrInvalidLexical
	}
	for _, part := range []string{intPart, fracPart} {
		for i := 0; i < len(part); i++ {
			if part[i] < '0' || part[i] > '9' {
				return "", ErrInvalidLexical
			}
		}
	}
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}
	fracPart = strings.TrimRight(fracPart, "0")
	if fracPart == "" {
		fracPart = "0"
	}
	if intPart == "0" && fracPart == "0" {
		sign = ""
	}
	return sign + intPart + "." + fracPart, nil
}

// canonicalFloat writes a mantissa with one leading digit and an 'E'
// exponent, following the XML Schema canonical mapping.
func canonicalFloat(s string, bits int) (string, error) {
	switch s {
	case "INF", "+INF":
		return "INF", nil
	case "-INF":
		return "-INF", nil
	case "NaN":
		return "NaN", nil
	}
	if !isFloatLexical(s) {
		return "", ErrInvalidLexical
	}
	value, err := strconv.ParseFloat(s, bits)
	if err != nil {
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || numErr.Err != strconv.ErrRange {
			return "", ErrInvalidLexical
		}
	}
	if math.IsInf(value, 1) {
		return "INF", nil
	}
	if math.IsInf(value, -1) {
		return "-INF", nil
	}
	if value == 0 {
		if math.Signbit(value) {
			return "-0.0E0", nil
		}
		return "0.0E0", nil
	}
	raw := strconv.FormatFloat(value, 'E', -1, bits)
	mantissa, exponent, _ := strings.Cut(raw, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	exp, err := strconv.Atoi(exponent)
	if err != nil {
		return "", ErrInvalidLexical
	}
	return mantissa + "E" + strconv.Itoa(exp), nil
}

func isFloatLexical(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	digits := 0
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start {
			return false
		}
	}
	return i == len(s)
}

func hasTimezone(s string) bool {
	if strings.HasSuffix(s, "Z") {
		return true
	}
	if len(s) >= 6 {
		tz := s[len(s)-6:]
		return (tz[0] == '+' || tz[0] == '-') && tz[3] == ':'
	}
	return false
}

func canonicalDate(s string) (string, error) {
	layout := "2006-01-02"
	tz := hasTimezone(s)
	if tz {
		layout += "Z07:00"
	}
	value, err := time.Parse(layout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLexical, err)
	}
	year, month, day := value.Date()
	out := fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
	if tz {
		out += formatTimezone(value)
	}
	return out, nil
}

// canonicalDateTime normalizes timezoned values to UTC and trims trailing
// zeros from the fractional seconds.
func canonicalDateTime(s string) (string, error) {
	layout := "2006-01-02T15:04:05"
	tz := hasTimezone(s)
	if tz {
		layout += "Z07:00"
	}
	value, err := time.Parse(layout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLexical, err)
	}
	if tz {
		value = value.UTC()
	}
	year, month, day := value.Date()
	hour, minute, second := value.Clock()
	out := fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d%s", year, int(month), day, hour, minute, second, formatFraction(value.Nanosecond()))
	if tz {
		out += "Z"
	}
	return out, nil
}

func formatFraction(nanos int) string {
	if nanos == 0 {
		return ""
	}
	frac := strings.TrimRight(fmt.Sprintf("%09d", nanos), "0")
	return "." + frac
}

func formatTimezone(value time.Time) string {
	_, offset := value.Zone()
	if offset == 0 {
		return "Z"
	}
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	return fmt.Sprintf("%s%02d:%02d", sign, offset/3600, (offset%3600)/60)
}
