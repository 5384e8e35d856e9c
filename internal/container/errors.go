package container

import "errors"

var (
	ErrNotFound    = errors.New("container: key not found")
	ErrKeyTooLarge = errors.New("container: key too large")
)
