package corpus

import "errors"

// ErrInvalidOptions is returned when corpus options are out of range
var ErrInvalidOptions = errors.New("invalid corpus options")
