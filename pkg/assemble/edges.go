package assemble

import (
	"regexp"
	"strings"

	dferr "github.com/diaflow/diaflow/pkg/errors"
)

// Edge is one parsed flow connection. Condition and Variable come from the
// optional annotations of the target grammar and may be empty.
type Edge struct {
	Source    string
	Target    string
	Condition string
	Variable  string
}

// The flow grammar has two surface syntaxes. The mapping form associates a
// source name with one or more target specifications:
//
//	flow:
//	  start: check [ready]
//	  check:
//	    - 'process: "result"'
//	    - 'retry [not ready]'
//
// The list form spells out whole edges:
//
//	flow:
//	  - start -> check [ready]
//	  - check -> process: "result"
//
// Either way each target specification is `name ([condition])? (: "var")?`.
var (
	targetRe = regexp.MustCompile(`^([\w][\w -]*?)\s*(?:\[([^\]]+)\])?\s*(?::\s*"([^"]*)")?$`)
	lineRe   = regexp.MustCompile(`^([\w][\w -]*?)\s*->\s*(.+)$`)
)

// parseTarget parses one target specification against the grammar. A spec
// that does not match (unbalanced brackets, stray quotes) yields a
// GRAMMAR_PARSE error; callers skip the edge and continue.
func parseTarget(source, spec string) (Edge, error) {
	m := targetRe.FindStringSubmatch(strings.TrimSpace(spec))
	if m == nil {
		return Edge{}, dferr.New(dferr.CodeGrammarParse,
			"flow target %q does not match `name [condition]: \"variable\"`", spec)
	}
	return Edge{
		Source:    source,
		Target:    strings.TrimSpace(m[1]),
		Condition: strings.TrimSpace(m[2]),
		Variable:  m[3],
	}, nil
}

// parseLine parses one `source -> target [condition]: "variable"` line.
func parseLine(line string) (Edge, error) {
	m := lineRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Edge{}, dferr.New(dferr.CodeGrammarParse,
			"flow line %q does not match `source -> target`", line)
	}
	return parseTarget(strings.TrimSpace(m[1]), m[2])
}

// parseEdges walks both surface syntaxes of the input in document order.
// Malformed entries are collected as errors and skipped; a single bad line
// never aborts the parse.
func parseEdges(in Input) ([]Edge, []error) {
	var edges []Edge
	var errs []error

	for _, entry := range in.FlowMap {
		for _, spec := range entry.Targets {
			e, err := parseTarget(strings.TrimSpace(entry.Source), spec)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			edges = append(edges, e)
		}
	}
	for _, line := range in.FlowList {
		e, err := parseLine(line)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		edges = append(edges, e)
	}
	return edges, errs
}

// negated reports whether a condition expression selects the false branch.
func negated(condition string) bool {
	c := strings.TrimSpace(strings.ToLower(condition))
	return strings.HasPrefix(c, "not ") || strings.HasPrefix(c, "!")
}

// positive strips the negation prefix off a condition expression.
func positive(condition string) string {
	c := strings.TrimSpace(condition)
	switch {
	case strings.HasPrefix(strings.ToLower(c), "not "):
		return strings.TrimSpace(c[4:])
	case strings.HasPrefix(c, "!"):
		return strings.TrimSpace(c[1:])
	}
	return c
}
