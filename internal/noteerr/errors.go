// Package noteerr defines the error taxonomy shared by the server and
// the client. Handlers map these sentinels to HTTP statuses; the client
// maps statuses back to the same sentinels.
package noteerr

import "errors"

var (
	// ErrUnauthenticated indicates a missing or invalid identity token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound indicates an absent record, or a note that is
	// deliberately invisible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the caller's role does not permit the
	// operation on a note it can see.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidArgument indicates malformed input: a missing required
	// field, a duplicate collaborator, self-collaboration, a bad role
	// value, or a malformed id.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict is reserved for optimistic-concurrency checks.
	// Nothing raises it in the current flows.
	ErrConflict = errors.New("conflict")

	// ErrInternal indicates an unexpected persistence failure. The
	// underlying cause is logged server-side and never sent to clients.
	ErrInternal = errors.New("internal error")
)

// Kind returns the wire name of the taxonomy kind err belongs to, or
// "internal" if err matches none of the sentinels.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}

// FromKind returns the sentinel for a wire kind name. Unknown kinds
// map to ErrInternal.
func FromKind(kind string) error {
	switch kind {
	case "unauthenticated":
		return ErrUnauthenticated
	case "not_found":
		return ErrNotFound
	case "forbidden":
		return ErrForbidden
	case "invalid_argument":
		return ErrInvalidArgument
	case "conflict":
		return ErrConflict
	default:
		return ErrInternal
	}
}
