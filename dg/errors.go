package dg

import "errors"

// Sentinel errors for graph substrate operations. Every operation that
// can fail returns one of these (wrapped with context via fmt.Errorf),
// never a bare panic and never a silent no-op where the spec calls for
// a failure.
var (
	// ErrNilPayload indicates a nil/zero payload was used as a node key.
	ErrNilPayload = errors.New("dg: nil payload")

	// ErrNodeNotFound indicates an operation referenced a payload with
	// no corresponding node in this graph.
	ErrNodeNotFound = errors.New("dg: node not found")

	// ErrNodeExists indicates AddNode was called for a payload already
	// present (use FetchOrAddNode for idempotent insertion).
	ErrNodeExists = errors.New("dg: node already present")

	// ErrEdgeNotFound indicates RemoveEdge was called with an edge this
	// graph does not own.
	ErrEdgeNotFound = errors.New("dg: edge not found")

	// ErrUnknownEndpoint is an InvariantViolation (spec §7): AddEdge was
	// asked to connect a payload that has no node in this graph yet.
	// Never a silent no-op.
	ErrUnknownEndpoint = errors.New("dg: edge endpoint has no node in this graph")
)

// InvariantError wraps a failure of one of the graph's documented
// invariants (I1-I5). It is always returned, never panicked through;
// callers that want fail-fast behavior can do so themselves.
type InvariantError struct {
	Invariant string // e.g. "I4" (internal ∩ external = ∅)
	Detail    string
}

func (e *InvariantError) Error() string {
	return "dg: invariant " + e.Invariant + " violated: " + e.Detail
}
