package assemble

import (
	"strings"

	"github.com/diaflow/diaflow/pkg/diagram"
)

// nodeContext is everything inference may look at for one name: the
// auxiliary sections plus the structural evidence accumulated from edges.
type nodeContext struct {
	hasPrompt      bool
	hasAgent       bool
	hasData        bool
	conditionedOut bool // at least one outgoing edge carries a condition
}

// inferKind maps a flow name to a node kind. The priority order is fixed:
//
//  1. reserved names ("start", "end", case-insensitive)
//  2. structural evidence: an outgoing conditioned edge makes the node a
//     condition regardless of what it is called or whether it has an agent
//  3. an explicit prompt or agent entry marks an LLM task
//  4. a data entry marks a data source
//  5. substring heuristics on the name
//  6. fallback: LLM task
//
// Structural evidence deliberately outranks the prompt heuristic: a node
// that branches is a condition even when someone attached a prompt to it.
func inferKind(name string, ctx nodeContext) diagram.Kind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "start":
		return diagram.KindStart
	case "end":
		return diagram.KindEndpoint
	}

	if ctx.conditionedOut {
		return diagram.KindCondition
	}
	if ctx.hasPrompt || ctx.hasAgent {
		return diagram.KindPersonJob
	}
	if ctx.hasData {
		return diagram.KindDB
	}

	lower := strings.ToLower(name)
	for _, tok := range []string{"condition", "check", "if"} {
		if strings.Contains(lower, tok) {
			return diagram.KindCondition
		}
	}
	for _, tok := range []string{"data", "file", "load"} {
		if strings.Contains(lower, tok) {
			return diagram.KindDB
		}
	}

	return diagram.KindPersonJob
}
