package grid

import "errors"

var ErrInvalidGrid = errors.New("grid: invalid grid")
