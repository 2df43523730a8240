package rdf

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain reads every statement and error until io.EOF.
func drain(t *testing.T, sr *StatementReader) ([]string, []*ParsingError) {
	t.Helper()
	var lines []string
	var errs []*ParsingError
	for i := 0; i < 10000; i++ {
		st, err := sr.Next()
		if err == io.EOF {
			return lines, errs
		}
		if err != nil {
			var perr *ParsingError
			require.ErrorAs(t, err, &perr)
			errs = append(errs, perr)
			continue
		}
		assert.False(t, st.Borrowed(), "queued statements must own their terms")
		lines = append(lines, st.String())
	}
	t.Fatal("reader did not reach end of input")
	return nil, nil
}

func readString(t *testing.T, input string, opts ...Option) ([]string, []*ParsingError) {
	t.Helper()
	sr := NewStatementReader(strings.NewReader(input), opts...)
	defer sr.Close()
	return drain(t, sr)
}

func TestStatementReaderPlainTriples(t *testing.T) {
	input := "<urn:a> <urn:b> \"hello\" .\n" +
		"<urn:a> <urn:b> \"hello\" .\n" +
		"<urn:a> <urn:b> \"world\" .\n"
	lines, errs := readString(t, input)
	assert.Empty(t, errs)
	assert.Equal(t, []string{
		`<urn:a> <urn:b> "hello" .`,
		`<urn:a> <urn:b> "hello" .`,
		`<urn:a> <urn:b> "world" .`,
	}, lines)
}

func TestStatementReaderPrefixExpansion(t *testing.T) {
	lines, errs := readString(t, "@prefix ex: <urn:ex:> .\nex:a ex:b ex:c .\n")
	assert.Empty(t, errs)
	assert.Equal(t, []string{"<urn:ex:a> <urn:ex:b> <urn:ex:c> ."}, lines)
}

func TestStatementReaderUnknownPrefix(t *testing.T) {
	lines, errs := readString(t, "ex:a ex:b ex:c .\n<urn:s> <urn:p> <urn:o> .\n")
	require.Len(t, errs, 1)
	assert.Equal(t, BadCurie, errs[0].Kind)
	assert.Equal(t, 1, errs[0].Line)
	assert.Equal(t, []string{"<urn:s> <urn:p> <urn:o> ."}, lines)
}

func TestStatementReaderMissingColon(t *testing.T) {
	lines, errs := readString(t, "<urn:s> <urn:p> word .\n")
	require.Len(t, errs, 1)
	assert.Equal(t, BadCurie, errs[0].Kind)
	assert.Empty(t, lines)
}

func TestStatementReaderLiterals(t *testing.T) {
	input := `@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .` + "\n" +
		`<urn:s> <urn:p> "3"^^<http://www.w3.org/2001/XMLSchema#string> .` + "\n" +
		`<urn:s> <urn:p> "3"^^xsd:string .` + "\n" +
		`<urn:s> <urn:p> "chat"@fr .` + "\n" +
		`<urn:s> <urn:p> 1.50 .` + "\n" +
		`<urn:s> <urn:p> "007"^^xsd:integer .` + "\n" +
		`<urn:s> <urn:p> "x"^^<urn:dt> .` + "\n" +
		`<urn:s> <urn:p> "say \"hi\"\\now\nnext" .` + "\n" +
		`<urn:s> <urn:p> "é" .` + "\n"
	lines, errs := readString(t, input)
	assert.Empty(t, errs)
	assert.Equal(t, []string{
		`<urn:s> <urn:p> "3" .`,
		`<urn:s> <urn:p> "3" .`,
		`<urn:s> <urn:p> "chat"@fr .`,
		`<urn:s> <urn:p> "1.5"^^<http://www.w3.org/2001/XMLSchema#decimal> .`,
		`<urn:s> <urn:p> "7"^^<http://www.w3.org/2001/XMLSchema#integer> .`,
		`<urn:s> <urn:p> "x"^^<urn:dt> .`,
		`<urn:s> <urn:p> "say \"hi\"\\now\nnext" .`,
		`<urn:s> <urn:p> "é" .`,
	}, lines)
}

func TestStatementReaderBadLiteral(t *testing.T) {
	input := `<urn:s> <urn:p> "abc"^^<http://www.w3.org/2001/XMLSchema#integer> .` + "\n" +
		`<urn:s> <urn:p> "ok" .` + "\n"
	lines, errs := readString(t, input)
	require.Len(t, errs, 1)
	assert.Equal(t, BadLiteral, errs[0].Kind)
	assert.ErrorIs(t, errs[0], ErrInvalidLexical)
	assert.Equal(t, []string{`<urn:s> <urn:p> "ok" .`}, lines)
}

func TestStatementReaderPassThrough(t *testing.T) {
	lines, errs := readString(t,
		`<urn:s> <urn:p> "007"^^<http://www.w3.org/2001/XMLSchema#integer> .`+"\n",
		OptCanonicalizer(PassThrough))
	assert.Empty(t, errs)
	assert.Equal(t, []string{`<urn:s> <urn:p> "007"^^<http://www.w3.org/2001/XMLSchema#integer> .`}, lines)
}

func TestStatementReaderBlankNodes(t *testing.T) {
	lines, errs := readString(t, "_:x <urn:p> [ <urn:q> _:y ] .\n")
	assert.Empty(t, errs)
	assert.Equal(t, []string{
		"_:x <urn:p> _:genid1 .",
		"_:genid1 <urn:q> _:y .",
	}, lines)
}

func TestStatementReaderRecovery(t *testing.T) {
	input := "<urn:a> <urn:b> <urn:c> .\n" +
		"<urn:a> <urn:b> .\n" +
		"<urn:d> <urn:e> <urn:f> .\n"
	lines, errs := readString(t, input)
	require.Len(t, errs, 1)
	assert.Equal(t, BadSyntax, errs[0].Kind)
	assert.Equal(t, 2, errs[0].Line)
	assert.Equal(t, []string{
		"<urn:a> <urn:b> <urn:c> .",
		"<urn:d> <urn:e> <urn:f> .",
	}, lines)
}

func TestStatementReaderUnterminatedString(t *testing.T) {
	input := "<urn:a> <urn:b> \"ok\" .\n" +
		"<urn:a> <urn:b> \"broken .\n" +
		"<urn:c> <urn:d> <urn:e> .\n" +
		"<urn:f> <urn:g> <urn:h> .\n" +
		"<urn:i> <urn:j> <urn:k> .\n"
	lines, errs := readString(t, input)
	require.Len(t, errs, 1)
	assert.Equal(t, BadSyntax, errs[0].Kind)
	assert.Equal(t, 2, errs[0].Line)
	assert.Equal(t, []string{
		`<urn:a> <urn:b> "ok" .`,
		"<urn:c> <urn:d> <urn:e> .",
		"<urn:f> <urn:g> <urn:h> .",
		"<urn:i> <urn:j> <urn:k> .",
	}, lines)
}

func TestStatementReaderPendingError(t *testing.T) {
	input := "<urn:a> <urn:b> <urn:c>, ex:x .\n<urn:d> <urn:e> <urn:f> .\n"
	sr := NewStatementReader(strings.NewReader(input))
	defer sr.Close()

	st, err := sr.Next()
	require.NoError(t, err)
	assert.Equal(t, "<urn:a> <urn:b> <urn:c> .", st.String())

	_, err = sr.Next()
	assert.Equal(t, BadCurie, KindOf(err))

	st, err = sr.Next()
	require.NoError(t, err)
	assert.Equal(t, "<urn:d> <urn:e> <urn:f> .", st.String())

	_, err = sr.Next()
	assert.Equal(t, io.EOF, err)
	_, err = sr.Next()
	assert.Equal(t, io.EOF, err)
}

func TestStatementReaderNoParsePrefixes(t *testing.T) {
	input := "@prefix ex: <urn:ex:> .\n<urn:a> <urn:b> <urn:c> .\nex:a ex:b ex:c .\n"
	sr := NewStatementReader(strings.NewReader(input), OptNoParsePrefixes())
	defer sr.Close()

	_, err := sr.Next()
	assert.Equal(t, BadSyntax, KindOf(err))
	assert.Equal(t, 0, sr.Prefixes().Len())

	st, err := sr.Next()
	require.NoError(t, err)
	assert.Equal(t, "<urn:a> <urn:b> <urn:c> .", st.String())

	_, err = sr.Next()
	assert.Equal(t, BadCurie, KindOf(err))

	_, err = sr.Next()
	assert.Equal(t, io.EOF, err)
}

func TestStatementReaderSeededPrefixes(t *testing.T) {
	lines, errs := readString(t, "ex:a ex:b ex:c .\n", OptPrefixes(map[string]string{"ex": "urn:ex:"}))
	assert.Empty(t, errs)
	assert.Equal(t, []string{"<urn:ex:a> <urn:ex:b> <urn:ex:c> ."}, lines)
}

func TestStatementReaderPrefixRebinding(t *testing.T) {
	input := "@prefix ex: <urn:one:> .\nex:a ex:b ex:c .\n@prefix ex: <urn:two:> .\nex:a ex:b ex:c .\n"
	lines, errs := readString(t, input, OptPrefixes(map[string]string{"ex": "urn:seed:"}))
	assert.Empty(t, errs)
	assert.Equal(t, []string{
		"<urn:one:a> <urn:one:b> <urn:one:c> .",
		"<urn:two:a> <urn:two:b> <urn:two:c> .",
	}, lines)
}

func TestStatementReaderBaseSetsEmptyPrefix(t *testing.T) {
	sr := NewStatementReader(strings.NewReader("@base <urn:base:> .\n:a :b :c .\n"))
	defer sr.Close()
	lines, errs := drain(t, sr)
	assert.Empty(t, errs)
	assert.Equal(t, []string{"<urn:base:a> <urn:base:b> <urn:base:c> ."}, lines)
	ns, ok := sr.Prefixes().Lookup("")
	assert.True(t, ok)
	assert.Equal(t, "urn:base:", ns)
}

func TestStatementReaderStrict(t *testing.T) {
	prefixes := OptPrefixes(map[string]string{"ex": "http://e x/"})

	_, errs := readString(t, "ex:a <urn:b> <urn:c> .\n", prefixes, OptStrict(true))
	require.Len(t, errs, 1)
	assert.Equal(t, BadIri, errs[0].Kind)

	lines, errs := readString(t, "ex:a <urn:b> <urn:c> .\n", prefixes)
	assert.Empty(t, errs)
	assert.Len(t, lines, 1)

	_, errs = readString(t, "_:-x <urn:b> <urn:c> .\n", OptStrict(true))
	require.Len(t, errs, 1)
	assert.Equal(t, BadBlankNode, errs[0].Kind)

	_, errs = readString(t, "<http://a b> <urn:b> <urn:c> .\n", OptStrict(true))
	require.Len(t, errs, 1)
	assert.Equal(t, BadSyntax, errs[0].Kind)
}

func TestStatementReaderBlankNodeClash(t *testing.T) {
	lines, errs := readString(t, "[ <urn:p> <urn:o> ] .\n_:genid1 <urn:p> <urn:o> .\n")
	require.Len(t, errs, 1)
	assert.Equal(t, BadBlankNode, errs[0].Kind)
	assert.Equal(t, []string{"_:genid1 <urn:p> <urn:o> ."}, lines)
}

func TestStatementReaderLineLimit(t *testing.T) {
	input := "<urn:a-very-long-subject> <urn:p> <urn:o> .\n<urn:s> <urn:p> <urn:o> .\n"
	sr := NewStatementReader(strings.NewReader(input), OptMaxLineBytes(32))
	defer sr.Close()

	_, err := sr.Next()
	assert.Equal(t, BadSyntax, KindOf(err))
	assert.Equal(t, ErrCodeLineTooLong, Code(err))

	st, err := sr.Next()
	require.NoError(t, err)
	assert.Equal(t, "<urn:s> <urn:p> <urn:o> .", st.String())
}

func TestStatementReaderReentrant(t *testing.T) {
	var sr *StatementReader
	var reentrant error
	canon := CanonicalizerFunc(func(_, lexical string) (string, error) {
		_, reentrant = sr.Next()
		return lexical, nil
	})
	sr = NewStatementReader(strings.NewReader(`<urn:s> <urn:p> "1"^^<urn:dt> .`+"\n"), OptCanonicalizer(canon))
	defer sr.Close()

	st, err := sr.Next()
	require.NoError(t, err)
	assert.Equal(t, `<urn:s> <urn:p> "1"^^<urn:dt> .`, st.String())
	assert.Equal(t, Internal, KindOf(reentrant))
	assert.ErrorIs(t, reentrant, ErrReentrant)
}

func TestStatementReaderReadError(t *testing.T) {
	boom := errors.New("boom")
	sr := NewStatementReader(io.MultiReader(strings.NewReader("<urn:s> <urn:p> <urn:o> .\n"), errReader{boom}))
	defer sr.Close()

	_, err := sr.Next()
	require.NoError(t, err)

	_, err = sr.Next()
	assert.Equal(t, Internal, KindOf(err))
	assert.ErrorIs(t, err, boom)

	_, err = sr.Next()
	assert.Equal(t, io.EOF, err)
}

func TestStatementReaderClose(t *testing.T) {
	sr := NewStatementReader(strings.NewReader("<urn:s> <urn:p> <urn:o> .\n"))
	require.NoError(t, sr.Close())
	require.NoError(t, sr.Close())
	_, err := sr.Next()
	assert.ErrorIs(t, err, ErrClosed)
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
