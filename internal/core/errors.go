package core

import (
	"errors"
)

// ErrOversizeMessage is returned when a raw message exceeds the
// configured size cap. The cap is enforced before any parsing so the
// heuristic scan cost stays bounded.
var ErrOversizeMessage = errors.New("message exceeds maximum allowed size")
