// Package policy is the authorization and workflow engine. Every function
// is a pure decision over snapshots passed in by the caller: no I/O, no
// shared mutable state, no knowledge of HTTP or storage. Callers resolve
// the actor's role and the target entity inside the same transaction as
// the mutation they are about to apply, then translate the returned
// Decision into their own error representation.
package policy

import (
	"errors"
	"fmt"

	"github.com/aokumura/issue-tracker-api/internal/models"
)

// Effect is the outcome kind of a policy decision.
type Effect string

const (
	EffectAllow             Effect = "allow"
	EffectForbidden         Effect = "forbidden"
	EffectNotFound          Effect = "not_found"
	EffectConflict          Effect = "conflict"
	EffectInvalidTransition Effect = "invalid_transition"
)

// Decision is the engine's result value. Denials are deterministic and
// side-effect-free; a rejected call never partially applies a mutation.
type Decision struct {
	Effect Effect
	Reason string

	// Set only for EffectInvalidTransition.
	Current   models.TicketStatus
	Requested models.TicketStatus
}

func Allow() Decision {
	return Decision{Effect: EffectAllow}
}

func Forbidden(reason string) Decision {
	return Decision{Effect: EffectForbidden, Reason: reason}
}

func NotFound(reason string) Decision {
	return Decision{Effect: EffectNotFound, Reason: reason}
}

func Conflict(reason string) Decision {
	return Decision{Effect: EffectConflict, Reason: reason}
}

func InvalidTransition(current, requested models.TicketStatus) Decision {
	return Decision{
		Effect:    EffectInvalidTransition,
		Reason:    fmt.Sprintf("invalid status transition: %s -> %s", current, requested),
		Current:   current,
		Requested: requested,
	}
}

// Allowed reports whether the decision permits the action.
func (d Decision) Allowed() bool {
	return d.Effect == EffectAllow
}

// Err returns nil for an allowing decision and a *DecisionError otherwise,
// so services can pass denials through their error returns.
func (d Decision) Err() error {
	if d.Allowed() {
		return nil
	}
	return &DecisionError{Decision: d}
}

// DecisionError wraps a denying Decision as an error.
type DecisionError struct {
	Decision Decision
}

func (e *DecisionError) Error() string {
	if e.Decision.Reason != "" {
		return e.Decision.Reason
	}
	return string(e.Decision.Effect)
}

// AsDecision extracts a Decision from an error chain.
func AsDecision(err error) (Decision, bool) {
	var de *DecisionError
	if errors.As(err, &de) {
		return de.Decision, true
	}
	return Decision{}, false
}
