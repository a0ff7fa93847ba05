package lifecycle

import "errors"

var (
	ErrIllegalTransition  = errors.New("illegal state transition")
	ErrPreconditionFailed = errors.New("transition precondition failed")
	ErrUnknownAction      = errors.New("unknown workflow action")
)
