package usecase

import "errors"

var (
	// ErrCommentNotFound is returned when no comment has the requested id.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrStockNotFound is returned when a comment targets a stock that does not exist.
	ErrStockNotFound = errors.New("stock not found")

	// ErrForbidden is returned when a user edits or deletes someone else's comment.
	ErrForbidden = errors.New("comment belongs to another user")

	// ErrAuthorNotFound is returned when the authenticated user name has no account.
	ErrAuthorNotFound = errors.New("author not found")
)
