package domain

// lifecycleTransitions describes the forward path of a repair. Each status
// may advance one step, and any active status may be cancelled. Completed
// and Cancelled are terminal.
var lifecycleTransitions = map[RepairStatus][]RepairStatus{
	StatusPending:    {StatusDiagnosing, StatusCancelled},
	StatusDiagnosing: {StatusRepairing, StatusCancelled},
	StatusRepairing:  {StatusReady, StatusCancelled},
	StatusReady:      {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether a ticket may move from one status to
// another. With override set, any known status is reachable; this is the
// administrative escape hatch for correcting mistakes, and callers are
// expected to gate it behind the admin role.
func CanTransition(from, to RepairStatus, override bool) bool {
	if _, err := ParseStatus(string(to)); err != nil {
		return false
	}
	if override {
		return true
	}
	for _, allowed := range lifecycleTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
