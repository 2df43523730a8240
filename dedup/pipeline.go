// Package dedup removes duplicate statements from an RDF stream, keeping the
// first occurrence of each and preserving input order.
package dedup

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/geoknoesis/rdf-dedup/rdf"
)

// Source yields statements until io.EOF. A *rdf.ParsingError is reported
// and skipped; any other error aborts the run.
type Source interface {
	Next() (rdf.Statement, error)
}

// Sink receives the unique statements.
type Sink interface {
	Write(st rdf.Statement) error
	Flush() error
}

// Options configures a pipeline.
type Options struct {
	// Limit caps the number of statements written. Negative means no cap.
	Limit int64
}

// DefaultOptions returns options without a cap.
func DefaultOptions() Options {
	return Options{Limit: -1}
}

// Stats summarizes a run.
type Stats struct {
	Read       int64 // statements pulled from the source
	Emitted    int64 // statements written to the sink
	Duplicates int64 // statements dropped as already emitted
	Warnings   int64 // recoverable errors reported
}

// Pipeline copies statements from a Source to a Sink, dropping every
// statement whose fingerprint was already written.
type Pipeline struct {
	src      Source
	dst      Sink
	reporter Reporter
	opts     Options
	seen     *Set
	hasher   *Hasher
}

// NewPipeline returns a pipeline. The pipeline owns its dedup set; it does
// not close src or dst.
func NewPipeline(src Source, dst Sink, reporter Reporter, opts Options) *Pipeline {
	return &Pipeline{
		src:      src,
		dst:      dst,
		reporter: reporter,
		opts:     opts,
		seen:     NewSet(),
		hasher:   NewHasher(),
	}
}

// Run pulls statements until the source is exhausted or the cap is reached,
// then flushes the sink. The cap and ctx are checked between statements;
// once the cap is reached the source is not read again.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	p.reporter.Notice("Deduplication started.")

	for {
		if p.opts.Limit >= 0 && stats.Emitted >= p.opts.Limit {
			p.reporter.Notice(fmt.Sprintf("Limit of %d triples reached.", p.opts.Limit))
			break
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		st, err := p.src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *rdf.ParsingError
			if !errors.As(err, &perr) {
				return stats, fmt.Errorf("read statement: %w", err)
			}
			stats.Warnings++
			p.reporter.Warning(perr)
			continue
		}

		stats.Read++
		if !p.seen.Insert(p.hasher.Sum(st)) {
			stats.Duplicates++
			continue
		}
		if err := p.dst.Write(st); err != nil {
			return stats, fmt.Errorf("write statement: %w", err)
		}
		stats.Emitted++
	}

	if err := p.dst.Flush(); err != nil {
		return stats, fmt.Errorf("flush output: %w", err)
	}
	p.reporter.Notice("Shutdown successful.")
	return stats, nil
}
