package rdf

// PrefixTable maps prefix labels to namespace IRIs for one parse session.
// The empty label holds the base IRI.
type PrefixTable struct {
	m map[string]string
}

// NewPrefixTable returns a table seeded with a copy of initial.
func NewPrefixTable(initial map[string]string) *PrefixTable {
	t := &PrefixTable{m: make(map[string]string, len(initial))}
	for label, ns := range initial {
		t.m[label] = ns
	}
	return t
}

// Set binds label to namespace, replacing any earlier binding.
func (t *PrefixTable) Set(label, namespace string) { t.m[label] = namespace }

// Lookup returns the namespace bound to label.
func (t *PrefixTable) Lookup(label string) (string, bool) {
	ns, ok := t.m[label]
	return ns, ok
}

// lookupBytes avoids allocating a key for the lookup.
func (t *PrefixTable) lookupBytes(label []byte) (string, bool) {
	ns, ok := t.m[string(label)]
	return ns, ok
}

// Len returns the number of bindings.
func (t *PrefixTable) Len() int { return len(t.m) }

// Map returns a copy of the bindings.
func (t *PrefixTable) Map() map[string]string {
	out := make(map[string]string, len(t.m))
	for label, ns := range t.m {
		out[label] = ns
	}
	return out
}
