package storage

import "errors"

var (
	ErrNotFound    = errors.New("storage: object not found")
	ErrInvalidCID  = errors.New("storage: invalid cid")
	ErrCIDMismatch = errors.New("storage: stored bytes do not hash to the requested cid")
	ErrImmutable   = errors.New("storage: immutable object rewrite attempted")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
