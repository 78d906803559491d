package core

import "errors"

// ErrInvalidInput is the parent of every entity-invariant violation.
// Specific validation errors wrap it so callers can match the whole
// family with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// Not-found and authorization errors surfaced by the service layer.
// The HTTP boundary keeps "absent" and "present but forbidden" distinct.
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrScheduleNotFound    = errors.New("schedule not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrAssetSourceNotFound = errors.New("asset source not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrMembershipNotFound  = errors.New("membership not found")

	ErrAccessDenied = errors.New("access denied")

	ErrEmailTaken    = errors.New("email already registered")
	ErrAlreadyMember = errors.New("user already has a membership in this group")
	ErrGroupFull     = errors.New("group already has the maximum number of members")
)
