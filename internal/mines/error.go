package mines

import "errors"

var (
	ErrNotInitialized = errors.New("game needs to be reset before reading the board")
	ErrInvalidState   = errors.New("game needs to be reset before calling step")
	ErrInvalidParams  = errors.New("invalid game parameters")
	ErrOutOfBounds    = errors.New("cell position out of bounds")
)
