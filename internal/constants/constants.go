package constants

// Session
const (
	SessionCookieName = "tracker_session"
	ContextKeyUserID  = "user_id"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth
const MinPasswordLength = 8

// CommentTombstone replaces the content of a deleted comment. The original
// text is not recoverable through the read path after deletion.
const CommentTombstone = "[comment deleted]"
