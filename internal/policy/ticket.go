package policy

import "github.com/aokumura/issue-tracker-api/internal/models"

// TicketSnapshot carries the policy-relevant fields of a ticket, read in
// the same transaction as the mutation being authorized.
type TicketSnapshot struct {
	Status     models.TicketStatus
	AssignedTo *uint64
}

// TicketChanges is the requested partial update. Nil pointers mean the
// field is untouched. ClearAssignee unassigns explicitly; it is mutually
// exclusive with AssignedTo.
type TicketChanges struct {
	Title         *string
	Description   *string
	Type          *models.TicketType
	Priority      *models.TicketPriority
	Position      *int
	Status        *models.TicketStatus
	AssignedTo    *uint64
	ClearAssignee bool
}

// reassigns reports whether the changes would alter the assignee.
func (c TicketChanges) reassigns(current *uint64) bool {
	if c.ClearAssignee {
		return current != nil
	}
	if c.AssignedTo == nil {
		return false
	}
	return current == nil || *current != *c.AssignedTo
}

// CanCreateTicket permits developers and admins to create tickets.
func CanCreateTicket(role models.MemberRole) Decision {
	switch role {
	case models.RoleDeveloper, models.RoleAdmin:
		return Allow()
	case models.RoleViewer:
		return Forbidden("viewers cannot create tickets")
	default:
		return Forbidden("not a project member")
	}
}

// CanViewTickets permits any project member to read tickets. Archived
// tickets never reach readers of any role; the repository excludes them
// before this decision applies.
func CanViewTickets(role models.MemberRole) Decision {
	if role == RoleNone {
		return Forbidden("not a project member")
	}
	return Allow()
}

// CanUpdateTicket authorizes a partial update of a ticket:
//
//   - admins may edit any ticket
//   - developers may edit only tickets assigned to them
//   - reassignment is admin-only, even for the current assignee
//   - a status change must follow the workflow graph; an equal status is a
//     no-op and is not checked against the graph
func CanUpdateTicket(role models.MemberRole, actorID uint64, ticket TicketSnapshot, changes TicketChanges) Decision {
	switch role {
	case models.RoleAdmin:
		// fall through to the transition check
	case models.RoleDeveloper:
		if ticket.AssignedTo == nil || *ticket.AssignedTo != actorID {
			return Forbidden("ticket is not assigned to you")
		}
		if changes.reassigns(ticket.AssignedTo) {
			return Forbidden("only admins can reassign tickets")
		}
	case models.RoleViewer:
		return Forbidden("viewers cannot edit tickets")
	default:
		return Forbidden("not a project member")
	}

	if changes.Status != nil && *changes.Status != ticket.Status {
		if !IsValidTransition(ticket.Status, *changes.Status) {
			return InvalidTransition(ticket.Status, *changes.Status)
		}
	}

	return Allow()
}

// CanArchiveTicket permits only admins to archive (soft-delete) a ticket.
func CanArchiveTicket(role models.MemberRole) Decision {
	switch role {
	case models.RoleAdmin:
		return Allow()
	case RoleNone:
		return Forbidden("not a project member")
	default:
		return Forbidden("only admins can archive tickets")
	}
}
