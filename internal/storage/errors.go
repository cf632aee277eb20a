package storage

import (
	"errors"

	apperrors "github.com/julianstephens/onboard/internal/errors"
)

var (
	ErrNotInitialized = apperrors.WithHint(errors.New("storage not initialized"), "run 'onboard init' first")
	ErrNotLoaded      = errors.New("storage not loaded")
)
