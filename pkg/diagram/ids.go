package diagram

import (
	"fmt"

	"github.com/google/uuid"
)

// ID prefixes for generated identifiers.
const (
	PrefixNode   = "node"
	PrefixArrow  = "arrow"
	PrefixPerson = "person"
	PrefixAPIKey = "apikey"
)

// IDSource mints identifiers for newly created diagram entities. Conversions
// take one as input so tests can inject a deterministic source; everything
// else uses [UUIDSource].
type IDSource func(prefix string) string

// UUIDSource returns an IDSource producing ids like "node_1a2b3c4d": the
// prefix, an underscore, and eight lowercase hex digits from a random UUID.
// The alphabet is fixed to [a-z0-9_], which is what lets the handle codec
// pick a delimiter that cannot collide (see handle.go).
func UUIDSource() IDSource {
	return func(prefix string) string {
		u := uuid.New()
		return fmt.Sprintf("%s_%x", prefix, u[:4])
	}
}

// SequentialSource returns an IDSource producing "node_0", "node_1", ... with
// a counter per prefix. Intended for tests and deterministic fixtures.
func SequentialSource() IDSource {
	counts := map[string]int{}
	return func(prefix string) string {
		n := counts[prefix]
		counts[prefix]++
		return fmt.Sprintf("%s_%d", prefix, n)
	}
}
