package dedup

// Set records the fingerprints already emitted. It only grows.
type Set struct {
	seen map[Fingerprint]struct{}
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{seen: make(map[Fingerprint]struct{})}
}

// Insert adds fp and reports whether it was not present before.
func (s *Set) Insert(fp Fingerprint) bool {
	if _, ok := s.seen[fp]; ok {
		return false
	}
	s.seen[fp] = struct{}{}
	return true
}

// Len returns the number of fingerprints in the set.
func (s *Set) Len() int { return len(s.seen) }
