package ledger

import "errors"

// ErrIndexOutOfRange is returned when a position does not address a stored
// entry.
var ErrIndexOutOfRange = errors.New("ledger: index out of range")
