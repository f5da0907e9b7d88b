package assemble

import "github.com/diaflow/diaflow/pkg/diagram"

// Layout spacing on the editor canvas.
const (
	levelSpacing = 250 // horizontal distance between BFS levels
	indexSpacing = 150 // vertical distance within a level
)

// layoutPositions assigns canvas coordinates by breadth-first traversal.
// Roots are the names without incoming edges; if the graph has none (a pure
// cycle), the first name seeds the traversal. The visited set both prevents
// duplicate placement on diamond shapes and guarantees termination on
// cycles. Names unreachable from any root (members of a detached cycle) are
// appended as an extra level so every node ends up with coordinates.
func layoutPositions(names []string, edges []Edge) map[string]diagram.Vec2 {
	pos := make(map[string]diagram.Vec2, len(names))
	if len(names) == 0 {
		return pos
	}

	hasIncoming := map[string]bool{}
	outgoing := map[string][]string{}
	for _, e := range edges {
		hasIncoming[e.Target] = true
		outgoing[e.Source] = append(outgoing[e.Source], e.Target)
	}

	var roots []string
	for _, n := range names {
		if !hasIncoming[n] {
			roots = append(roots, n)
		}
	}
	if len(roots) == 0 {
		roots = names[:1]
	}

	visited := map[string]bool{}
	level := 0
	frontier := roots
	for len(frontier) > 0 {
		var next []string
		idx := 0
		for _, n := range frontier {
			if visited[n] {
				continue
			}
			visited[n] = true
			pos[n] = diagram.Vec2{X: float64(level * levelSpacing), Y: float64(idx * indexSpacing)}
			idx++
			next = append(next, outgoing[n]...)
		}
		frontier = next
		level++
	}

	idx := 0
	for _, n := range names {
		if !visited[n] {
			pos[n] = diagram.Vec2{X: float64(level * levelSpacing), Y: float64(idx * indexSpacing)}
			idx++
		}
	}
	return pos
}
