package ticket

// allowedTransitions lists, per target status, the statuses a ticket may
// move from. No status may move to pending.
var allowedTransitions = map[Status][]Status{
	StatusInProgress: {StatusPending},
	StatusCompleted:  {StatusPending, StatusInProgress},
	StatusArchived:   {StatusPending, StatusInProgress, StatusCompleted},
}

// Transition decides whether a ticket in status from may move to status to.
// It returns the resulting status and whether anything changed.
//
// Archiving an archived ticket is an idempotent no-op: it returns
// (StatusArchived, false, nil). Every other pair outside the table returns a
// *TransitionError, including moving to the current status.
func Transition(from, to Status) (Status, bool, error) {
	if !to.IsValid() {
		return from, false, invalidValue("status", string(to), ErrInvalidStatus, ValidStatuses())
	}
	if from == StatusArchived && to == StatusArchived {
		return from, false, nil
	}
	if CanTransition(from, to) {
		return to, true, nil
	}
	return from, false, &TransitionError{From: from, To: to}
}

// CanTransition reports whether from → to is a state change the policy allows.
func CanTransition(from, to Status) bool {
	for _, allowed := range allowedTransitions[to] {
		if allowed == from {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from a status, in lifecycle order.
func NextStatuses(from Status) []Status {
	var next []Status
	for _, to := range ValidStatuses() {
		if CanTransition(from, to) {
			next = append(next, to)
		}
	}
	return next
}
