package policy

import "github.com/aokumura/issue-tracker-api/internal/models"

// allowedTransitions is the fixed workflow graph over ticket statuses.
// Initialized once and never mutated.
var allowedTransitions = map[models.TicketStatus][]models.TicketStatus{
	models.StatusTodo:       {models.StatusInProgress},
	models.StatusInProgress: {models.StatusDone},
	models.StatusDone:       {models.StatusInProgress},
}

// IsValidTransition reports whether requested appears in current's allowed
// set. Statuses outside the fixed set are never valid sources or targets.
// The table contains no reflexive transitions; callers must treat
// requested == current as a no-op and not consult the table at all.
func IsValidTransition(current, requested models.TicketStatus) bool {
	for _, next := range allowedTransitions[current] {
		if next == requested {
			return true
		}
	}
	return false
}
