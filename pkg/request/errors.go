package request

import "errors"

// ErrInternalServer is returned to clients when a handler fails unexpectedly.
var ErrInternalServer = errors.New("internal server error")
