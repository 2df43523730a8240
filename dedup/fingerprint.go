package dedup

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/geoknoesis/rdf-dedup/rdf"
)

// Fingerprint identifies a statement by its subject, predicate and object.
type Fingerprint uint64

// Hasher computes fingerprints, reusing its buffers between calls.
// A Hasher is not safe for concurrent use.
type Hasher struct {
	digest  *xxhash.Digest
	scratch []byte
}

// NewHasher returns a ready Hasher.
func NewHasher() *Hasher {
	return &Hasher{digest: xxhash.New()}
}

// Sum returns the fingerprint of st. The graph is not part of it, so the
// same triple in two graphs has one fingerprint.
func (h *Hasher) Sum(st rdf.Statement) Fingerprint {
	h.digest.Reset()
	for _, term := range [...]rdf.Term{st.Subject, st.Predicate, st.Object} {
		// kind and length prefix keep adjacent terms from running together
		h.scratch = append(h.scratch[:0], byte(term.Kind()))
		h.scratch = binary.AppendUvarint(h.scratch, uint64(term.Len()))
		h.scratch = term.AppendValue(h.scratch)
		_, _ = h.digest.Write(h.scratch)
	}
	return Fingerprint(h.digest.Sum64())
}
