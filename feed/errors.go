package feed

import "errors"

var (
	// ErrUnauthenticated means no viewer could be resolved for the request.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNotFound means a referenced post, comment, like or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the viewer does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict means a follow already exists, or an unfollow or unlike
	// has nothing to remove.
	ErrConflict = errors.New("conflict")
	// ErrInvalidArgument covers negative pagination parameters and empty
	// required fields.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInconsistent means stored state broke an invariant, such as a post
	// whose owner has no user record.
	ErrInconsistent = errors.New("inconsistent state")
)
