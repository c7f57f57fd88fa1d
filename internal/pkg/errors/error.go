package xerrors

import "errors"

// Common reusable application errors
var (
	ErrNotFound   = errors.New("resource not found")
	ErrBadRequest = errors.New("bad request")
)

// domainError carries a caller-facing message while staying matchable
// against one of the sentinel errors above via errors.Is.
type domainError struct {
	msg  string
	kind error
}

func (e *domainError) Error() string { return e.msg }

func (e *domainError) Unwrap() error { return e.kind }

// BadRequest builds an error that handlers map to a 400 response carrying
// exactly the given message.
func BadRequest(msg string) error {
	return &domainError{msg: msg, kind: ErrBadRequest}
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
