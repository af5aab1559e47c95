package ocean

import "errors"

var ErrInvalidProfile = errors.New("ocean: invalid temperature profile")
