package interview

// Status is the lifecycle state of an interview. Transitions move
// strictly forward along statusOrder, one step at a time; COMPLETED is
// terminal.
type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusReady      Status = "READY"
	StatusAssigned   Status = "ASSIGNED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// statusOrder is the single total order of the lifecycle.
var statusOrder = []Status{
	StatusDraft,
	StatusReady,
	StatusAssigned,
	StatusInProgress,
	StatusCompleted,
}

// statusRank maps each status to its position in statusOrder.
var statusRank = func() map[Status]int {
	m := make(map[Status]int, len(statusOrder))
	for i, s := range statusOrder {
		m[s] = i
	}
	return m
}()

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the five lifecycle states.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether to is the immediate successor of from.
// Skips, backward moves, self-transitions and anything out of COMPLETED
// are all rejected.
func CanTransition(from, to Status) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank == fromRank+1
}
