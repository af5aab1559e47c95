package material

import "errors"

var ErrUnknownMaterial = errors.New("material: unknown material")
