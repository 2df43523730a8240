// Package turtle is an event-driven reader for Turtle and N-Triples.
//
// A Reader consumes its input one statement group at a time. Each call to
// ReadChunk reads lines until a top-level '.' closes the group (or a
// SPARQL-style PREFIX/BASE line ends), then parses the group and invokes the
// Handlers synchronously: Base and Prefix for directives, Statement for every
// triple, Error for every failure the reader raises itself.
//
// Nodes handed to callbacks are raw: prefixed names are not expanded, IRIs
// are not resolved against the base and literal metadata travels in the
// Datatype and Lang fields of the Event. Escapes are already decoded. Node
// buffers alias the reader's statement buffer and are only valid until the
// callback returns.
//
// When a group fails the rest of it is discarded. ReadChunk then refuses to
// continue until SkipError is called, after which parsing resumes with the
// next group.
package turtle
