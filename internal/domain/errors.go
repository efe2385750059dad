package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrEmptyCart indicates a checkout or order was attempted with no cart entries.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrUnauthorized indicates the caller presented no usable credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAddressRequired indicates the buyer has no delivery address on file.
	ErrAddressRequired = errors.New("delivery address required")
)
