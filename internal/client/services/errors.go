package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by every validation failure raised before a
	// request is sent.
	ErrInvalidInput = errors.New("invalid input")

	ErrUnsupportedFileType = fmt.Errorf("%w: unsupported file type", ErrInvalidInput)
	ErrFileTooLarge        = fmt.Errorf("%w: file too large", ErrInvalidInput)
)
