package boundary

import "errors"

var ErrInvalidBoundary = errors.New("boundary: invalid boundary")
