package header

import "github.com/wireproto/headerline/internal/errorutil"

// Error is a string type that implements the error interface.
type Error = errorutil.Error

// Common errors.
const (
	// ErrInvalidArgument is returned on an invalid header name or a blank
	// parameter name.
	ErrInvalidArgument = errorutil.ErrInvalidArgument
)
