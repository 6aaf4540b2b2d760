package domain

import "errors"

// Domain errors
var (
	ErrSourceUnavailable = errors.New("log source unavailable")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrInvalidTimeRange  = errors.New("invalid time range")
	ErrStorageDisabled   = errors.New("storage not enabled")
)
