package repository

import "errors"

var (
	// ErrBackendUnavailable wraps any failure to reach a configuration or snapshot backend.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrSaveFailed wraps a rejected or failed save.
	ErrSaveFailed = errors.New("save failed")
)
