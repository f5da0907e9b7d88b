// Package render turns diagrams into node-link visualizations.
//
// # Overview
//
// [ToDOT] produces Graphviz DOT source with one box per node, colored by
// kind, and one edge per arrow with condition branches as edge labels.
// [RenderSVG] renders that source to SVG in process via
// [github.com/goccy/go-graphviz].
//
//	dot := render.ToDOT(d, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// The generated DOT can also be saved and processed with external Graphviz
// tools, or customized before rendering.
package render
