package worksession

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrOperationInProgress = errors.New("another operation is in progress for this order")
)
