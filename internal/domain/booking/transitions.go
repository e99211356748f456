package booking

// transitionMap lists the allowed status moves. Completed and cancelled are
// terminal: nothing leaves them, not even an admin correction.
var transitionMap = map[string][]string{
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// ValidStatus reports whether s is a known appointment status.
func ValidStatus(s string) bool {
	_, ok := transitionMap[s]
	return ok
}

// IsTerminal reports whether no transition leaves the given status.
func IsTerminal(s string) bool {
	next, ok := transitionMap[s]
	return ok && len(next) == 0
}

// CanTransition reports whether an appointment may move from one status to
// another. Self-transitions are not allowed.
func CanTransition(from, to string) bool {
	for _, next := range transitionMap[from] {
		if next == to {
			return true
		}
	}
	return false
}
