package scenario

import "errors"

var ErrUnknownShape = errors.New("scenario: unknown shape")
