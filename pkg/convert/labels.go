package convert

import (
	"fmt"

	"github.com/google/uuid"
)

// Label namespaces. Collisions across namespaces are permitted; a node and a
// person may share a label.
const (
	nsNode   = "node"
	nsPerson = "person"
	nsAPIKey = "apikey"
)

// labelRegistry assigns unique, human-readable labels within independent
// namespaces and keeps the id↔label maps both directions of a conversion
// need. A registry lives for exactly one Serialize or Deserialize call;
// converters allocate a fresh one every time, which is what keeps them safe
// for concurrent use.
type labelRegistry struct {
	used    map[string]map[string]bool // namespace -> reserved labels
	toLabel map[string]string          // namespace+id -> label
	toID    map[string]string          // namespace+label -> id
}

func newLabelRegistry() *labelRegistry {
	return &labelRegistry{
		used:    map[string]map[string]bool{},
		toLabel: map[string]string{},
		toID:    map[string]string{},
	}
}

// ensureUnique reserves and returns a free label in the namespace. The
// candidate itself wins when unused; otherwise numeric suffixes _1.._9 are
// tried, then letter suffixes -a..-z, then a random suffix. The ordering is a
// readability-first policy: the common case yields a clean label, and the
// random fallback guarantees termination.
func (r *labelRegistry) ensureUnique(candidate, namespace string) string {
	if candidate == "" {
		candidate = "untitled"
	}
	ns := r.used[namespace]
	if ns == nil {
		ns = map[string]bool{}
		r.used[namespace] = ns
	}
	if !ns[candidate] {
		ns[candidate] = true
		return candidate
	}
	for i := 1; i <= 9; i++ {
		if l := fmt.Sprintf("%s_%d", candidate, i); !ns[l] {
			ns[l] = true
			return l
		}
	}
	for c := 'a'; c <= 'z'; c++ {
		if l := fmt.Sprintf("%s-%c", candidate, c); !ns[l] {
			ns[l] = true
			return l
		}
	}
	for {
		u := uuid.New()
		l := fmt.Sprintf("%s-%x", candidate, u[:3])
		if !ns[l] {
			ns[l] = true
			return l
		}
	}
}

// assign reserves a unique label for id and records both lookup directions.
func (r *labelRegistry) assign(namespace, id, candidate string) string {
	label := r.ensureUnique(candidate, namespace)
	r.toLabel[namespace+"\x00"+id] = label
	r.toID[namespace+"\x00"+label] = id
	return label
}

// labelOf returns the label previously assigned to id in the namespace.
func (r *labelRegistry) labelOf(namespace, id string) (string, bool) {
	l, ok := r.toLabel[namespace+"\x00"+id]
	return l, ok
}

// idOf resolves a label back to the id it was assigned to.
func (r *labelRegistry) idOf(namespace, label string) (string, bool) {
	id, ok := r.toID[namespace+"\x00"+label]
	return id, ok
}
