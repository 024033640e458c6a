package vnpt

import "errors"

var (
	// ErrEmptyResponse indicates the gateway returned a well-formed body
	// with no usable payload.
	ErrEmptyResponse = errors.New("gateway response contained no payload")

	// ErrMalformedResponse indicates the gateway body did not decode into
	// the expected wire shape.
	ErrMalformedResponse = errors.New("gateway response did not match wire format")
)
