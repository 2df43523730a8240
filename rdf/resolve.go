package rdf

import (
	"bytes"
	"fmt"

	"github.com/geoknoesis/rdf-dedup/internal/turtle"
)

// resolver turns raw engine tokens into terms.
type resolver struct {
	prefixes        *PrefixTable
	canonicalizer   Canonicalizer
	strict          bool
	noParsePrefixes bool
	// position reports where the current event came from.
	position func() (line, column int)
	scratch  []byte
}

func (r *resolver) errorf(kind ErrorKind, err error, format string, args ...interface{}) *ParsingError {
	perr := &ParsingError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
	if r.position != nil {
		perr.Line, perr.Column = r.position()
	}
	return perr
}

func (r *resolver) base(uri turtle.Node) *ParsingError {
	if r.noParsePrefixes {
		return r.errorf(BadSyntax, nil, "base declarations are disabled")
	}
	r.prefixes.Set("", string(uri.Buf))
	return nil
}

func (r *resolver) prefix(name, uri turtle.Node) *ParsingError {
	if r.noParsePrefixes {
		return r.errorf(BadSyntax, nil, "prefix declarations are disabled")
	}
	r.prefixes.Set(string(name.Buf), string(uri.Buf))
	return nil
}

// statement resolves a statement event. Blank node terms in the result
// borrow the engine's buffer.
func (r *resolver) statement(ev *turtle.Event) (Statement, *ParsingError) {
	var st Statement
	var err *ParsingError
	if !ev.Graph.IsNothing() {
		if st.Graph, err = r.node(ev.Graph); err != nil {
			return Statement{}, err
		}
	}
	if ev.Subject.Type == turtle.NodeLiteral {
		return Statement{}, r.errorf(BadSyntax, nil, "literal subject")
	}
	if st.Subject, err = r.node(ev.Subject); err != nil {
		return Statement{}, err
	}
	if ev.Predicate.Type != turtle.NodeURI && ev.Predicate.Type != turtle.NodeCURIE {
		return Statement{}, r.errorf(BadSyntax, nil, "predicate must be an IRI")
	}
	if st.Predicate, err = r.iriOrCurie(ev.Predicate); err != nil {
		return Statement{}, err
	}
	if ev.Object.Type == turtle.NodeLiteral {
		st.Object, err = r.literal(ev.Object, ev.Datatype, ev.Lang)
	} else {
		st.Object, err = r.node(ev.Object)
	}
	if err != nil {
		return Statement{}, err
	}
	return st, nil
}

func (r *resolver) node(n turtle.Node) (Term, *ParsingError) {
	switch n.Type {
	case turtle.NodeURI, turtle.NodeCURIE:
		return r.iriOrCurie(n)
	case turtle.NodeBlank:
		return r.blank(n)
	case turtle.NodeLiteral:
		return r.literal(n, turtle.Node{}, turtle.Node{})
	default:
		return Term{}, r.errorf(Internal, nil, "unexpected %s node", n.Type)
	}
}

func (r *resolver) iriOrCurie(n turtle.Node) (Term, *ParsingError) {
	var iri string
	switch n.Type {
	case turtle.NodeURI:
		iri = string(n.Buf)
	case turtle.NodeCURIE:
		colon := bytes.IndexByte(n.Buf, ':')
		if colon < 0 {
			return Term{}, r.errorf(BadCurie, nil, "missing colon in %q", n.Buf)
		}
		ns, ok := r.prefixes.lookupBytes(n.Buf[:colon])
		if !ok {
			return Term{}, r.errorf(BadCurie, nil, "undefined prefix %q", n.Buf[:colon])
		}
		iri = ns + string(n.Buf[colon+1:])
	default:
		return Term{}, r.errorf(BadSyntax, nil, "expected IRI, got %s", n.Type)
	}
	if r.strict {
		if err := ValidateIRI(iri); err != nil {
			return Term{}, r.errorf(BadIri, err, "%v", err)
		}
	}
	return NewIRI(iri), nil
}

func (r *resolver) blank(n turtle.Node) (Term, *ParsingError) {
	if r.strict {
		if err := ValidateBlankNodeLabel(n.Buf); err != nil {
			return Term{}, r.errorf(BadBlankNode, err, "%v", err)
		}
	}
	return borrowedTerm(TermBlankNode, n.Buf), nil
}

// literal builds the canonical quoted form. A datatype wins over a
// language tag; xsd:string is written without a suffix.
func (r *resolver) literal(lexical, datatype, lang turtle.Node) (Term, *ParsingError) {
	buf := r.scratch[:0]
	switch {
	case !datatype.IsNothing():
		dt, err := r.iriOrCurie(datatype)
		if err != nil {
			return Term{}, err
		}
		dtIRI := dt.Value()
		if dtIRI == XSDString {
			buf = appendQuoted(buf, lexical.Buf)
			break
		}
		canonical, cerr := r.canonicalizer.Canonicalize(dtIRI, string(lexical.Buf))
		if cerr != nil {
			return Term{}, r.errorf(BadLiteral, cerr, "%v", cerr)
		}
		buf = appendQuoted(buf, []byte(canonical))
		buf = append(buf, "^^<"...)
		buf = append(buf, dtIRI...)
		buf = append(buf, '>')
	case !lang.IsNothing():
		buf = appendQuoted(buf, lexical.Buf)
		buf = append(buf, '@')
		buf = append(buf, lang.Buf...)
	default:
		buf = appendQuoted(buf, lexical.Buf)
	}
	r.scratch = buf
	return NewLiteral(string(buf)), nil
}
