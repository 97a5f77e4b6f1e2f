package store

import (
	apperr "github.com/muralapp/mural-server/internal/errors"
)

// Generic sentinels shared by the storage layer. Record-family sentinels
// with more specific messages live next to their operations.
var (
	ErrNotFound      = apperr.ErrNotFound
	ErrAlreadyExists = apperr.ErrAlreadyExists
)
