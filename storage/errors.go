package storage

import "errors"

var (
	ErrNotFound      = errors.New("storage: not found")
	ErrInvalidCID    = errors.New("storage: invalid cid")
	ErrCIDMismatch   = errors.New("storage: cid mismatch")
	ErrImmutable     = errors.New("storage: immutable object mismatch")
	ErrInvalidReveal = errors.New("storage: reveal is not a serialized program")
	ErrCoinNotFound  = errors.New("storage: coin not found")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrCoinNotFound)
}
