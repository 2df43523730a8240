package rdf

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermDefaultGraph is the empty term standing for the unnamed graph.
	TermDefaultGraph TermKind = iota
	// TermIRI represents an IRI term.
	TermIRI
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
)

func (k TermKind) String() string {
	switch k {
	case TermDefaultGraph:
		return "default graph"
	case TermIRI:
		return "iri"
	case TermBlankNode:
		return "blank node"
	case TermLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Term is a resolved RDF term.
//
// The text of a term depends on its kind: the bare IRI for IRIs, the label
// (without "_:") for blank nodes and the complete quoted N-Triples form for
// literals, already escaped and canonicalized.
//
// A term either owns its text or borrows it from a buffer owned by someone
// else. Borrowed terms are only valid while that buffer is; use Own before
// keeping one.
type Term struct {
	kind     TermKind
	owned    string
	borrowed []byte
	isView   bool
}

// NewIRI returns an owned IRI term.
func NewIRI(iri string) Term { return Term{kind: TermIRI, owned: iri} }

// NewBlankNode returns an owned blank node term.
func NewBlankNode(label string) Term { return Term{kind: TermBlankNode, owned: label} }

// NewLiteral returns an owned literal term from its complete N-Triples form.
func NewLiteral(ntriples string) Term { return Term{kind: TermLiteral, owned: ntriples} }

// borrowedTerm returns a term viewing buf without copying it.
func borrowedTerm(kind TermKind, buf []byte) Term {
	return Term{kind: kind, borrowed: buf, isView: true}
}

// Kind returns the term kind.
func (t Term) Kind() TermKind { return t.kind }

// Borrowed reports whether the term views storage it does not own.
func (t Term) Borrowed() bool { return t.isView }

// IsZero reports whether the term is the empty default-graph term.
func (t Term) IsZero() bool { return t.kind == TermDefaultGraph && t.Len() == 0 }

// Len returns the length of the term text.
func (t Term) Len() int {
	if t.isView {
		return len(t.borrowed)
	}
	return len(t.owned)
}

// Value returns the term text, copying it if the term is borrowed.
func (t Term) Value() string {
	if t.isView {
		return string(t.borrowed)
	}
	return t.owned
}

// AppendValue appends the term text to dst without an intermediate copy.
func (t Term) AppendValue(dst []byte) []byte {
	if t.isView {
		return append(dst, t.borrowed...)
	}
	return append(dst, t.owned...)
}

// Own returns a term that owns its text.
func (t Term) Own() Term {
	if !t.isView {
		return t
	}
	return Term{kind: t.kind, owned: string(t.borrowed)}
}

// AppendNTriples appends the N-Triples rendering of the term to dst.
func (t Term) AppendNTriples(dst []byte) []byte {
	switch t.kind {
	case TermIRI:
		dst = append(dst, '<')
		dst = t.AppendValue(dst)
		return append(dst, '>')
	case TermBlankNode:
		dst = append(dst, '_', ':')
		return t.AppendValue(dst)
	case TermLiteral:
		return t.AppendValue(dst)
	default:
		return dst
	}
}

// String returns the N-Triples rendering of the term.
func (t Term) String() string { return string(t.AppendNTriples(nil)) }

// Statement is a resolved RDF statement. Graph is the zero term when the
// statement is in the default graph.
type Statement struct {
	Graph     Term
	Subject   Term
	Predicate Term
	Object    Term
}

// Own returns a statement whose terms all own their text.
func (s Statement) Own() Statement {
	return Statement{
		Graph:     s.Graph.Own(),
		Subject:   s.Subject.Own(),
		Predicate: s.Predicate.Own(),
		Object:    s.Object.Own(),
	}
}

// Borrowed reports whether any term of the statement is borrowed.
func (s Statement) Borrowed() bool {
	return s.Graph.Borrowed() || s.Subject.Borrowed() || s.Predicate.Borrowed() || s.Object.Borrowed()
}

// String returns the statement as one N-Triples line without the newline.
func (s Statement) String() string {
	return string(appendStatement(nil, s))
}

func appendStatement(dst []byte, s Statement) []byte {
	dst = s.Subject.AppendNTriples(dst)
	dst = append(dst, ' ')
	dst = s.Predicate.AppendNTriples(dst)
	dst = append(dst, ' ')
	dst = s.Object.AppendNTriples(dst)
	return append(dst, ' ', '.')
}
