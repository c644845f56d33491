package rhmap

import "errors"

var (
	ErrNilKey       = errors.New("rhmap: nil key")
	ErrDuplicateKey = errors.New("rhmap: duplicate key")
	ErrKeyNotFound  = errors.New("rhmap: key not found")

	errEmptySeed = errors.New("rhmap: empty hasher seed")
)
