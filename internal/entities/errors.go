package entities

import "errors"

// ErrNotFound signals that a requested record does not exist. It is not a fault.
var ErrNotFound = errors.New("record not found")
