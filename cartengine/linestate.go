package cartengine

// LineState is the lifecycle position of one line key.
//
//	Unbound -> PendingCreate -> Bound -> PendingUpdate -> Bound
//	                            Bound -> PendingDelete -> Unbound
//
// The Pending states are transient: they always resolve back to Bound or
// Unbound, reverting to the prior stable state on failure.
type LineState int

const (
	StateUnbound LineState = iota
	StatePendingCreate
	StateBound
	StatePendingUpdate
	StatePendingDelete
)

// Pending reports whether a mutation is outstanding for the key.
func (s LineState) Pending() bool {
	switch s {
	case StatePendingCreate, StatePendingUpdate, StatePendingDelete:
		return true
	}
	return false
}

func (s LineState) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StatePendingCreate:
		return "pending_create"
	case StateBound:
		return "bound"
	case StatePendingUpdate:
		return "pending_update"
	case StatePendingDelete:
		return "pending_delete"
	}
	return "unknown"
}
