package errors

import (
	"fmt"
)

var (
	ErrNotFound       = fmt.Errorf("not found")
	ErrDuplicateSlug  = fmt.Errorf("duplicate slug")
	ErrInvalidInput   = fmt.Errorf("invalid input")
	ErrUnauthorized   = fmt.Errorf("unauthorized")
	ErrSaveInProgress = fmt.Errorf("save already in progress")
)
