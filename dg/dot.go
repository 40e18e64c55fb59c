package dg

import (
	"fmt"
	"io"
)

// NodeLabeler renders a node's payload into a DOT label/attribute set.
// Callers supply this because only they know how to stringify T (an
// Instruction, a Value, an SCC, ...); dg itself never inspects T beyond
// equality.
type NodeLabeler[T comparable] func(payload T) (label string, attrs map[string]string)

// WriteDOT renders g as a Graphviz DOT digraph named name to w, one
// node per payload (via label) and one edge per Edge[T], annotated with
// its kind. Mirrors the rendering shape of a DOT sink (spec §6.8): a
// resource failure here (a write error) is returned to the caller to
// recover from, never swallowed.
//
// Complexity: O(V+E).
func (g *DG[T]) WriteDOT(w io.Writer, name string, label NodeLabeler[T]) error {
	if _, err := fmt.Fprintf(w, "digraph %q {\n", name); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, `  node [shape="box"];`); err != nil {
		return err
	}

	ids := make(map[*Node[T]]int, len(g.allNodes))
	for _, n := range g.allNodes {
		ids[n] = n.id
		text, attrs := "", map[string]string(nil)
		if label != nil {
			text, attrs = label(n.payload)
		} else {
			text = fmt.Sprintf("n%d", n.id)
		}
		fillcolor := "#ffffff"
		if g.IsExternal(n.payload) {
			fillcolor = "#e0e0e0"
		}
		if _, err := fmt.Fprintf(w, "  n%d [label=%q,fillcolor=%q,style=filled", n.id, text, fillcolor); err != nil {
			return err
		}
		for k, v := range attrs {
			if _, err := fmt.Fprintf(w, ",%s=%q", k, v); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, "];"); err != nil {
			return err
		}
	}

	for _, e := range g.allEdges {
		style := ""
		if e.LoopCarried {
			style = ",style=bold,color=red"
		}
		if _, err := fmt.Fprintf(w, "  n%d -> n%d [label=%q%s];\n", e.src.id, e.dst.id, e.Kind.String(), style); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}
