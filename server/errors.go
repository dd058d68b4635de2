package server

import "errors"

// ErrInvalidMessageID is returned when a request carries a message id that
// is not a non-negative integer representable without loss.
var ErrInvalidMessageID = errors.New("invalid message id")
