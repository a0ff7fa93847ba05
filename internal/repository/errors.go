package repository

import "errors"

// Shared error vocabulary for every order-store implementation. Modules
// translate these into user-facing failures.
var (
	ErrNotFound          = errors.New("record not found")
	ErrConflict          = errors.New("conflicting concurrent modification")
	ErrStockInsufficient = errors.New("insufficient part stock")
	ErrDuplicateNumber   = errors.New("order number already exists")
	ErrUnavailable       = errors.New("order store unavailable")
)
