package state

import "sort"

// ProcessedSet holds base filenames that completed a successful delivery.
type ProcessedSet map[string]struct{}

func NewProcessedSet(names ...string) ProcessedSet {
	s := make(ProcessedSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

func (s ProcessedSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s ProcessedSet) Add(name string) {
	s[name] = struct{}{}
}

func (s ProcessedSet) Len() int {
	return len(s)
}

// Sorted returns the members in lexicographic order.
func (s ProcessedSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
