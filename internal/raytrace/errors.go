package raytrace

import "errors"

var ErrInvalidSource = errors.New("raytrace: invalid source")
