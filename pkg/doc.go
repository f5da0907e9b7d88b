// Package pkg provides the core libraries of the diaflow interchange engine.
//
// # Overview
//
// Diaflow converts node-graph workflow diagrams between textual formats and
// reconstructs full graphs from a minimal human-authored notation. The pkg
// directory is organized into five areas:
//
//  1. [diagram] - Graph model (nodes, handles, arrows, persons, api keys),
//     the handle codec and the connectability rules
//  2. [convert] - Format converters (native JSON, light YAML, flow YAML)
//     and the per-conversion label registry
//  3. [assemble] - Graph assembler: flow grammar, type inference, layout
//  4. [render] - DOT/SVG previews via Graphviz
//  5. [errors] - Coded error taxonomy shared by every surface
//
// # Architecture
//
// The typical data flow through diaflow:
//
//	textual source (.json / .light.yaml / .flow.yaml)
//	         ↓
//	    [convert] package (deserialize, flow delegates to [assemble])
//	         ↓
//	    [diagram] model (editor mutates it externally)
//	         ↓
//	    [convert] package (serialize)
//	         ↓
//	    textual output
//
// # Quick Start
//
// Convert a flow document to the native format:
//
//	d, warnings, err := convert.Deserialize("flow", src)
//	if err != nil {
//	    return err
//	}
//	out, err := convert.Serialize("native", d)
//
// Check whether two handles may be connected:
//
//	ok, reason := diagram.ExplainConnectable(src, dst, inbound)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...        # All tests
//	go test ./pkg/convert    # Specific package
//
// [diagram]: https://pkg.go.dev/github.com/diaflow/diaflow/pkg/diagram
// [convert]: https://pkg.go.dev/github.com/diaflow/diaflow/pkg/convert
// [assemble]: https://pkg.go.dev/github.com/diaflow/diaflow/pkg/assemble
// [render]: https://pkg.go.dev/github.com/diaflow/diaflow/pkg/render
// [errors]: https://pkg.go.dev/github.com/diaflow/diaflow/pkg/errors
package pkg
