package rdf

import "github.com/geoknoesis/rdf-dedup/internal/turtle"

const (
	DefaultMaxLineBytes      = turtle.DefaultMaxLineBytes
	DefaultMaxStatementBytes = turtle.DefaultMaxStatementBytes
)

// Option configures a StatementReader.
type Option func(*Options)

// Options configures parsing, term resolution and limits.
// Zero limits use defaults. Use negative values to disable specific limits.
type Options struct {
	// NoParsePrefixes rejects @prefix/@base declarations with BadSyntax.
	NoParsePrefixes bool
	// Strict makes the engine reject malformed IRIs, language tags and
	// escapes, and validates resolved IRIs and blank node labels.
	Strict            bool
	MaxLineBytes      int
	MaxStatementBytes int
	// Canonicalizer maps typed literal values onto canonical form.
	// Nil uses XSDCanonicalizer.
	Canonicalizer Canonicalizer
	// Prefixes seeds the prefix table before parsing starts.
	Prefixes map[string]string
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		MaxLineBytes:      DefaultMaxLineBytes,
		MaxStatementBytes: DefaultMaxStatementBytes,
		Canonicalizer:     XSDCanonicalizer{},
	}
}

func normalizeOptions(opts Options) Options {
	if opts.MaxLineBytes == 0 {
		opts.MaxLineBytes = DefaultMaxLineBytes
	}
	if opts.MaxStatementBytes == 0 {
		opts.MaxStatementBytes = DefaultMaxStatementBytes
	}
	if opts.Canonicalizer == nil {
		opts.Canonicalizer = XSDCanonicalizer{}
	}
	return opts
}

// OptNoParsePrefixes disables prefix and base declarations.
func OptNoParsePrefixes() Option {
	return func(opts *Options) {
		opts.NoParsePrefixes = true
	}
}

// OptStrict enables strict parsing and validation.
func OptStrict(strict bool) Option {
	return func(opts *Options) {
		opts.Strict = strict
	}
}

// OptMaxLineBytes sets the maximum line size limit.
func OptMaxLineBytes(maxBytes int) Option {
	return func(opts *Options) {
		opts.MaxLineBytes = maxBytes
	}
}

// OptMaxStatementBytes sets the maximum statement size limit.
func OptMaxStatementBytes(maxBytes int) Option {
	return func(opts *Options) {
		opts.MaxStatementBytes = maxBytes
	}
}

// OptCanonicalizer sets the literal canonicalizer.
func OptCanonicalizer(c Canonicalizer) Option {
	return func(opts *Options) {
		opts.Canonicalizer = c
	}
}

// OptPrefixes seeds the prefix table. Later declarations in the input
// override seeded bindings.
func OptPrefixes(prefixes map[string]string) Option {
	return func(opts *Options) {
		opts.Prefixes = prefixes
	}
}
