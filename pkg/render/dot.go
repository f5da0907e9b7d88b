package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/diaflow/diaflow/pkg/diagram"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed includes the node kind and data summary in node labels.
	// When false, only the display label is shown.
	Detailed bool
}

// Fill colors per node kind. Start and endpoint bracket the flow visually;
// everything in between stays neutral.
var kindFill = map[diagram.Kind]string{
	diagram.KindStart:     "palegreen",
	diagram.KindEndpoint:  "lightsalmon",
	diagram.KindCondition: "khaki",
	diagram.KindDB:        "lightblue",
	diagram.KindJob:       "lightgrey",
	diagram.KindPersonJob: "white",
}

// ToDOT converts a diagram to Graphviz DOT format. Arrows from condition
// nodes carry their branch as an edge label, and each kind gets its own
// fill color. The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(d *diagram.Diagram, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for i := range d.Nodes {
		n := &d.Nodes[i]
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
		if fill, ok := kindFill[n.Kind]; ok && fill != "white" {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
		}
		if n.Kind == diagram.KindCondition {
			attrs = append(attrs, "shape=diamond", "style=filled")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, a := range d.Arrows {
		src := diagram.NodeOfHandle(a.Source)
		dst := diagram.NodeOfHandle(a.Target)
		if src == "" || dst == "" {
			continue
		}
		if label := edgeLabel(a); label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", src, dst, label)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", src, dst)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *diagram.Node, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}

	parts := []string{string(n.Kind)}
	switch data := n.Data.(type) {
	case *diagram.PersonJobData:
		if data.Prompt != "" {
			parts = append(parts, truncate(data.Prompt, 40))
		}
	case *diagram.ConditionData:
		if data.Expression != "" {
			parts = append(parts, data.Expression)
		}
	case *diagram.DBData:
		if data.Source != "" {
			parts = append(parts, data.Source)
		}
	case *diagram.JobData:
		if data.Language != "" {
			parts = append(parts, data.Language)
		}
	case *diagram.EndpointData:
		if data.FilePath != "" {
			parts = append(parts, data.FilePath)
		}
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func edgeLabel(a diagram.Arrow) string {
	switch {
	case a.Branch != "" && a.Label != "":
		return a.Branch + ": " + a.Label
	case a.Branch != "":
		return a.Branch
	default:
		return a.Label
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
