package ports

import "errors"

// ErrInvalidResponse indicates that the remote model returned something
// that could not be parsed into the expected verdict shape. Evaluators
// wrap parse failures with this sentinel before logging so the condition
// stays greppable regardless of the underlying decode error.
var ErrInvalidResponse = errors.New("invalid model response")
