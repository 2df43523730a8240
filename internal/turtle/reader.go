package turtle

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

const (
	DefaultMaxLineBytes      = 1 << 20
	DefaultMaxStatementBytes = 4 << 20
	defaultBufferSize        = 4096

	generatedLabelPrefix = "genid"
)

// Handlers receives parse events. Any handler may be nil.
//
// A non-nil error returned from Base, Prefix or Statement aborts the current
// chunk; ReadChunk then returns that error unchanged.
type Handlers struct {
	Base      func(uri Node) error
	Prefix    func(name, uri Node) error
	Statement func(ev *Event) error
	// Error is called for every failure raised by the engine itself.
	Error func(err *Error)
}

// Options configures the reader.
// Zero limits use defaults; negative limits disable them.
type Options struct {
	// Strict rejects invalid IRI characters, language tags and local name
	// escapes instead of passing them through.
	Strict            bool
	MaxLineBytes      int
	MaxStatementBytes int
}

func normalizeOptions(opts Options) Options {
	if opts.MaxLineBytes == 0 {
		opts.MaxLineBytes = DefaultMaxLineBytes
	}
	if opts.MaxStatementBytes == 0 {
		opts.MaxStatementBytes = DefaultMaxStatementBytes
	}
	return opts
}

type segment struct {
	offset int // offset of the line's text in stmt
	line   int // 1-based source line
}

// Reader is an event-driven Turtle and N-Triples reader.
// Each ReadChunk call consumes one complete statement group from the input
// and dispatches its events synchronously.
type Reader struct {
	src  *bufio.Reader
	h    Handlers
	opts Options

	stmt     []byte
	lineBuf  []byte
	segments []segment
	group    groupScanner
	line     int
	emitPos  int

	blankCounter uint64
	// docGenIDs holds the numbers of document labels shaped like generated ones.
	docGenIDs map[uint64]struct{}

	failed bool
	eof    bool
	closed bool
}

// NewReader creates a reader over r. The reader does not close r.
func NewReader(r io.Reader, h Handlers, opts Options) *Reader {
	return &Reader{
		src:  bufio.NewReaderSize(r, defaultBufferSize),
		h:    h,
		opts: normalizeOptions(opts),
	}
}

// ReadChunk reads and dispatches the next statement group.
//
// It returns nil when the chunk was parsed, io.EOF when the input is
// exhausted, and a non-nil error when the chunk failed. After a failure the
// reader refuses further chunks until SkipError is called.
func (r *Reader) ReadChunk() error {
	switch {
	case r.closed:
		return ErrClosed
	case r.failed:
		return ErrSkipRequired
	case r.eof:
		return io.EOF
	}

	ok, err := r.fill()
	if err != nil {
		r.failed = true
		return err
	}
	if !ok {
		r.eof = true
		return io.EOF
	}

	c := cursor{r: r, buf: r.stmt}
	if err := c.parseChunk(); err != nil {
		r.failed = true
		return err
	}
	return nil
}

// SkipError clears the failure state left by a failed chunk. The remainder
// of the failed statement group has already been discarded, so the next
// chunk starts at the following statement.
func (r *Reader) SkipError() { r.failed = false }

// Position returns the source position of the most recently dispatched
// event. It is only approximate: it points into the statement, not at the
// offending token.
func (r *Reader) Position() (line, column int) {
	return r.position(r.emitPos)
}

// Close releases the reader's buffers. It does not close the source.
func (r *Reader) Close() error {
	r.closed = true
	r.stmt = nil
	r.lineBuf = nil
	r.segments = nil
	return nil
}

// fill accumulates raw lines until a statement group is complete. Lines are
// kept verbatim so long strings spanning lines keep their line breaks.
func (r *Reader) fill() (bool, error) {
	r.stmt = r.stmt[:0]
	r.segments = r.segments[:0]
	r.group.reset()
	for {
		var err error
		r.lineBuf, err = readLine(r.src, r.lineBuf[:0], r.opts.MaxLineBytes)
		if err != nil {
			if err == io.EOF {
				return len(r.stmt) > 0, nil
			}
			if errors.Is(err, ErrLineTooLong) {
				r.line++
				return false, r.fail(&Error{Status: StatusBadSyntax, Line: r.line, Column: 1, Message: err.Error(), Err: err})
			}
			r.eof = true
			return false, r.fail(&Error{Status: StatusInternal, Line: r.line, Message: fmt.Sprintf("read error: %v", err), Err: err})
		}
		r.line++

		if len(r.stmt) == 0 && isBlankLine(r.lineBuf) {
			continue
		}
		r.segments = append(r.segments, segment{offset: len(r.stmt), line: r.line})
		r.stmt = append(r.stmt, r.lineBuf...)

		complete := r.group.complete(r.lineBuf) ||
			(len(r.segments) == 1 && isBareDirective(bytes.TrimSpace(stripComment(r.lineBuf))))
		if r.opts.MaxStatementBytes > 0 && len(r.stmt) > r.opts.MaxStatementBytes {
			line := r.segments[0].line
			if !complete {
				r.skipGroup()
			}
			return false, r.fail(&Error{Status: StatusBadSyntax, Line: line, Column: 1, Message: ErrStatementTooLong.Error(), Err: ErrStatementTooLong})
		}
		if complete {
			return true, nil
		}
	}
}

// skipGroup discards the remaining lines of an oversized statement group
// without buffering them.
func (r *Reader) skipGroup() {
	for {
		var err error
		r.lineBuf, err = readLine(r.src, r.lineBuf[:0], r.opts.MaxLineBytes)
		if err != nil && !errors.Is(err, ErrLineTooLong) {
			return
		}
		r.line++
		if err == nil && r.group.complete(r.lineBuf) {
			return
		}
	}
}

func (r *Reader) fail(err *Error) *Error {
	if r.h.Error != nil {
		r.h.Error(err)
	}
	return err
}

func (r *Reader) position(pos int) (line, column int) {
	if len(r.segments) == 0 {
		return r.line, 0
	}
	seg := r.segments[0]
	for _, s := range r.segments[1:] {
		if s.offset > pos {
			break
		}
		seg = s
	}
	return seg.line, pos - seg.offset + 1
}

// genBlank returns a fresh generated blank node label, skipping numbers the
// document already uses.
func (r *Reader) genBlank() Node {
	for {
		r.blankCounter++
		if _, used := r.docGenIDs[r.blankCounter]; !used {
			break
		}
	}
	label := strconv.AppendUint([]byte(generatedLabelPrefix), r.blankCounter, 10)
	return Node{Type: NodeBlank, Buf: label}
}

// claimLabel records a document label. It reports false when the label
// names a node that was already generated for an anonymous blank node.
func (r *Reader) claimLabel(label []byte) bool {
	n, ok := generatedLabelNumber(label)
	if !ok {
		return true
	}
	if _, seen := r.docGenIDs[n]; seen {
		return true
	}
	if n <= r.blankCounter {
		return false
	}
	if r.docGenIDs == nil {
		r.docGenIDs = make(map[uint64]struct{})
	}
	r.docGenIDs[n] = struct{}{}
	return true
}
