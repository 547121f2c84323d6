package models

// WorkerKind identifies a specialized query worker.
type WorkerKind string

const (
	// WorkerPlace is the place-lookup worker (district + around search).
	WorkerPlace WorkerKind = "place_lookup"
	// WorkerRoute is the route-planning worker (district search + driving route).
	WorkerRoute WorkerKind = "route_planner"
)

// Valid returns true if the worker kind is a known value.
func (k WorkerKind) Valid() bool {
	switch k {
	case WorkerPlace, WorkerRoute:
		return true
	default:
		return false
	}
}

// Classification is a single routing decision: which worker to call with
// which worker-scoped rewording of the user query. Immutable once created.
type Classification struct {
	Source WorkerKind `json:"source"`
	Query  string     `json:"query"`
}

// WorkerOutput is the result of one dispatched worker invocation.
type WorkerOutput struct {
	Source WorkerKind `json:"source"`
	Result string     `json:"result"`
}
