package storage

import (
	"errors"
	"fmt"
)

var (
	ErrStorage       = errors.New("storage error")
	ErrInvalidFilter = fmt.Errorf("%w invalid filter", ErrStorage)
	ErrNotFound      = fmt.Errorf("%w not found", ErrStorage)
)
