package http

import "errors"

var (
	errInvalidPayload = errors.New("invalid payload")
	errUnsupported    = errors.New("unsupported message type")
)
