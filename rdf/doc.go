// Package rdf resolves a Turtle or N-Triples stream into canonical RDF
// statements and writes them back as N-Triples.
//
// The pieces are small and streaming:
//   - StatementReader: pull-style reader; Next returns one resolved Statement,
//     a *ParsingError for a statement it had to skip, or io.EOF.
//   - Encoder: buffered N-Triples writer, one line per statement.
//   - Canonicalizer: maps typed literal values onto canonical lexical form
//     (XSDCanonicalizer, PassThrough).
//
// Terms carry their final textual form. Literals are escaped and, when
// typed, canonicalized during resolution, so two statements are equal
// exactly when their term texts are equal.
//
// Example:
//
//	sr := rdf.NewStatementReader(strings.NewReader(input))
//	defer sr.Close()
//
//	enc := rdf.NewEncoder(os.Stdout)
//	defer enc.Close()
//
//	for {
//	    st, err := sr.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        // a *ParsingError; the reader has already skipped ahead
//	        continue
//	    }
//	    if err := enc.Write(st); err != nil {
//	        // handle error
//	    }
//	}
//
// Reader options can be provided via functional options (OptStrict,
// OptNoParsePrefixes, OptMaxLineBytes, ...) to enforce limits for
// untrusted input.
package rdf
