package billing

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrNotBillable         = errors.New("order is not completed")
	ErrNothingPending      = errors.New("nothing pending to pay")
	ErrAmountMismatch      = errors.New("amount does not match outstanding balance")
	ErrOperationInProgress = errors.New("another payment is in progress for this order")
)
