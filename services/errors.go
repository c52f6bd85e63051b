package services

import "errors"

// Common service-level errors
var (
	// Item errors
	ErrItemNotFound = errors.New("item not found")
)
