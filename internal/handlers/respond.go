package handlers

import (
	"errors"

	apierrors "github.com/aokumura/issue-tracker-api/internal/errors"
	"github.com/aokumura/issue-tracker-api/internal/logger"
	"github.com/aokumura/issue-tracker-api/internal/policy"
	"github.com/aokumura/issue-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
)

// respondServiceError translates service errors into HTTP responses.
// Policy denials carry their effect through the error chain; everything
// else is matched against the service sentinel errors.
func respondServiceError(c *gin.Context, err error) {
	if decision, ok := policy.AsDecision(err); ok {
		switch decision.Effect {
		case policy.EffectForbidden:
			apierrors.Forbidden(c, decision.Reason)
		case policy.EffectNotFound:
			apierrors.NotFound(c, decision.Reason)
		case policy.EffectConflict:
			apierrors.Conflict(c, decision.Reason)
		case policy.EffectInvalidTransition:
			apierrors.InvalidTransition(c, decision.Reason, gin.H{
				"current":   decision.Current,
				"requested": decision.Requested,
			})
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrTicketNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidProjectName),
		errors.Is(err, services.ErrInvalidMemberRole),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrContentRequired),
		errors.Is(err, services.ErrFilenameRequired),
		errors.Is(err, services.ErrAssigneeNotMember):
		apierrors.BadRequest(c, err.Error())
	default:
		logger.Error().Err(err).Msg("unhandled service error")
		apierrors.InternalError(c, "")
	}
}
