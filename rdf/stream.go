package rdf

import (
	"io"

	"github.com/gammazero/deque"

	"github.com/geoknoesis/rdf-dedup/internal/turtle"
)

// StatementReader pulls resolved statements out of a Turtle or N-Triples
// stream.
//
// Each call to Next drives the engine one statement group at a time and
// buffers what it produced. Parsing errors are returned as *ParsingError
// and are recoverable: the reader has already skipped to the next statement
// group, so calling Next again makes progress. io.EOF marks the end of the
// stream and is returned on every later call.
//
// A StatementReader is not safe for concurrent use.
type StatementReader struct {
	engine *turtle.Reader
	res    resolver
	queue  *deque.Deque[Statement]

	// lastErr is the error recorded by a callback during the current chunk.
	lastErr *ParsingError
	// pending holds an error from a chunk that also buffered statements.
	pending *ParsingError

	inChunk bool
	done    bool
	closed  bool
}

// NewStatementReader creates a reader over r. The reader does not close r.
func NewStatementReader(r io.Reader, opts ...Option) *StatementReader {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	options = normalizeOptions(options)

	sr := &StatementReader{
		queue: deque.New[Statement](),
		res: resolver{
			prefixes:        NewPrefixTable(options.Prefixes),
			canonicalizer:   options.Canonicalizer,
			strict:          options.Strict,
			noParsePrefixes: options.NoParsePrefixes,
		},
	}
	sr.engine = turtle.NewReader(r, turtle.Handlers{
		Base:      sr.onBase,
		Prefix:    sr.onPrefix,
		Statement: sr.onStatement,
		Error:     sr.onError,
	}, turtle.Options{
		Strict:            options.Strict,
		MaxLineBytes:      options.MaxLineBytes,
		MaxStatementBytes: options.MaxStatementBytes,
	})
	sr.res.position = sr.engine.Position
	return sr
}

// Prefixes returns the prefix table of this session.
func (sr *StatementReader) Prefixes() *PrefixTable { return sr.res.prefixes }

// Next returns the next statement. It returns io.EOF at the end of input
// and a *ParsingError for a statement that could not be parsed or resolved.
func (sr *StatementReader) Next() (Statement, error) {
	switch {
	case sr.closed:
		return Statement{}, ErrClosed
	case sr.inChunk:
		return Statement{}, &ParsingError{Kind: Internal, Message: ErrReentrant.Error(), Err: ErrReentrant}
	}
	if sr.queue.Len() > 0 {
		return sr.queue.PopFront(), nil
	}
	if err := sr.pending; err != nil {
		sr.pending = nil
		return Statement{}, err
	}
	if sr.done {
		return Statement{}, io.EOF
	}

	for {
		sr.lastErr = nil
		sr.inChunk = true
		chunkErr := sr.engine.ReadChunk()
		sr.inChunk = false
		recorded := sr.lastErr
		sr.lastErr = nil

		if chunkErr != nil {
			if recorded == nil {
				// Failure nobody reported: the engine has nothing more to give.
				sr.done = true
				if sr.queue.Len() > 0 {
					return sr.queue.PopFront(), nil
				}
				return Statement{}, io.EOF
			}
			sr.engine.SkipError()
			if sr.queue.Len() > 0 {
				sr.pending = recorded
				return sr.queue.PopFront(), nil
			}
			return Statement{}, recorded
		}

		if sr.queue.Len() > 0 {
			sr.pending = recorded
			return sr.queue.PopFront(), nil
		}
		if recorded != nil {
			return Statement{}, recorded
		}
	}
}

// Close releases the engine. It does not close the underlying reader and is
// safe to call more than once.
func (sr *StatementReader) Close() error {
	if sr.closed {
		return nil
	}
	sr.closed = true
	sr.queue.Clear()
	sr.pending = nil
	return sr.engine.Close()
}

func (sr *StatementReader) onBase(uri turtle.Node) error {
	if err := sr.res.base(uri); err != nil {
		sr.lastErr = err
	}
	return nil
}

func (sr *StatementReader) onPrefix(name, uri turtle.Node) error {
	if err := sr.res.prefix(name, uri); err != nil {
		sr.lastErr = err
	}
	return nil
}

func (sr *StatementReader) onStatement(ev *turtle.Event) error {
	st, err := sr.res.statement(ev)
	if err != nil {
		sr.lastErr = err
		return err
	}
	sr.queue.PushBack(st.Own())
	return nil
}

func (sr *StatementReader) onError(err *turtle.Error) {
	sr.lastErr = fromEngineError(err)
}
