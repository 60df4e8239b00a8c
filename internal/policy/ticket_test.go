package policy

import (
	"testing"

	"github.com/aokumura/issue-tracker-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint64) *uint64 { return &v }

func statusPtr(s models.TicketStatus) *models.TicketStatus { return &s }

func TestCanCreateTicket(t *testing.T) {
	assert.True(t, CanCreateTicket(models.RoleAdmin).Allowed())
	assert.True(t, CanCreateTicket(models.RoleDeveloper).Allowed())

	viewer := CanCreateTicket(models.RoleViewer)
	assert.Equal(t, EffectForbidden, viewer.Effect)

	none := CanCreateTicket(RoleNone)
	assert.Equal(t, EffectForbidden, none.Effect)
}

func TestCanViewTickets(t *testing.T) {
	for _, role := range []models.MemberRole{models.RoleAdmin, models.RoleDeveloper, models.RoleViewer} {
		assert.True(t, CanViewTickets(role).Allowed())
	}
	assert.Equal(t, EffectForbidden, CanViewTickets(RoleNone).Effect)
}

func TestCanUpdateTicket_Roles(t *testing.T) {
	ticket := TicketSnapshot{Status: models.StatusTodo, AssignedTo: uintPtr(7)}
	changes := TicketChanges{Title: strPtr("new title")}

	assert.True(t, CanUpdateTicket(models.RoleAdmin, 1, ticket, changes).Allowed())
	assert.Equal(t, EffectForbidden, CanUpdateTicket(models.RoleViewer, 7, ticket, changes).Effect)
	assert.Equal(t, EffectForbidden, CanUpdateTicket(RoleNone, 7, ticket, changes).Effect)
}

func TestCanUpdateTicket_DeveloperAssigneeOnly(t *testing.T) {
	ticket := TicketSnapshot{Status: models.StatusTodo, AssignedTo: uintPtr(7)}
	changes := TicketChanges{Description: strPtr("updated")}

	assert.True(t, CanUpdateTicket(models.RoleDeveloper, 7, ticket, changes).Allowed())

	// Same ticket, different developer
	other := CanUpdateTicket(models.RoleDeveloper, 8, ticket, changes)
	assert.Equal(t, EffectForbidden, other.Effect)

	// Unassigned ticket: no developer may edit
	unassigned := TicketSnapshot{Status: models.StatusTodo}
	assert.Equal(t, EffectForbidden, CanUpdateTicket(models.RoleDeveloper, 7, unassigned, changes).Effect)
}

func TestCanUpdateTicket_ReassignmentAdminOnly(t *testing.T) {
	ticket := TicketSnapshot{Status: models.StatusTodo, AssignedTo: uintPtr(7)}

	// The current assignee reassigning to someone else is still forbidden.
	reassign := TicketChanges{AssignedTo: uintPtr(8)}
	assert.Equal(t, EffectForbidden, CanUpdateTicket(models.RoleDeveloper, 7, ticket, reassign).Effect)

	// Explicit unassign counts as reassignment.
	unassign := TicketChanges{ClearAssignee: true}
	assert.Equal(t, EffectForbidden, CanUpdateTicket(models.RoleDeveloper, 7, ticket, unassign).Effect)

	// Setting the same assignee is not a reassignment.
	same := TicketChanges{AssignedTo: uintPtr(7)}
	assert.True(t, CanUpdateTicket(models.RoleDeveloper, 7, ticket, same).Allowed())

	// Admins may reassign and unassign.
	assert.True(t, CanUpdateTicket(models.RoleAdmin, 1, ticket, reassign).Allowed())
	assert.True(t, CanUpdateTicket(models.RoleAdmin, 1, ticket, unassign).Allowed())
}

func TestCanUpdateTicket_StatusTransitions(t *testing.T) {
	ticket := TicketSnapshot{Status: models.StatusInProgress, AssignedTo: uintPtr(7)}

	ok := CanUpdateTicket(models.RoleDeveloper, 7, ticket, TicketChanges{Status: statusPtr(models.StatusDone)})
	assert.True(t, ok.Allowed())

	// in_progress -> todo is not in the table.
	bad := CanUpdateTicket(models.RoleDeveloper, 7, ticket, TicketChanges{Status: statusPtr(models.StatusTodo)})
	assert.Equal(t, EffectInvalidTransition, bad.Effect)
	assert.Equal(t, models.StatusInProgress, bad.Current)
	assert.Equal(t, models.StatusTodo, bad.Requested)

	// Equal status is a no-op, not a transition.
	noop := CanUpdateTicket(models.RoleDeveloper, 7, ticket, TicketChanges{Status: statusPtr(models.StatusInProgress)})
	assert.True(t, noop.Allowed())

	// Invalid transitions are rejected even for admins.
	adminBad := CanUpdateTicket(models.RoleAdmin, 1, ticket, TicketChanges{Status: statusPtr(models.StatusTodo)})
	assert.Equal(t, EffectInvalidTransition, adminBad.Effect)
}

func TestCanArchiveTicket(t *testing.T) {
	assert.True(t, CanArchiveTicket(models.RoleAdmin).Allowed())
	assert.Equal(t, EffectForbidden, CanArchiveTicket(models.RoleDeveloper).Effect)
	assert.Equal(t, EffectForbidden, CanArchiveTicket(models.RoleViewer).Effect)
	assert.Equal(t, EffectForbidden, CanArchiveTicket(RoleNone).Effect)
}

// Non-members never get Allow from any ticket operation.
func TestTicketPolicy_NonMemberNeverAllowed(t *testing.T) {
	ticket := TicketSnapshot{Status: models.StatusTodo, AssignedTo: uintPtr(1)}

	assert.False(t, CanCreateTicket(RoleNone).Allowed())
	assert.False(t, CanViewTickets(RoleNone).Allowed())
	assert.False(t, CanUpdateTicket(RoleNone, 1, ticket, TicketChanges{}).Allowed())
	assert.False(t, CanArchiveTicket(RoleNone).Allowed())
}

func strPtr(s string) *string { return &s }
