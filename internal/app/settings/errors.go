package settings

import "errors"

var (
	ErrInvalidKey = errors.New("invalid setting key")
	ErrNoStore    = errors.New("settings store not configured")
)
