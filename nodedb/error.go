package nodedb

import "errors"

var ErrInternal = errors.New("internal error")

var ErrNotFound = errors.New("not found")
