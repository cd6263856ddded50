package walk

import "errors"

// ErrInvalidParams is returned for a path length below 1 or alpha outside [0,1)
var ErrInvalidParams = errors.New("invalid walk parameters")
