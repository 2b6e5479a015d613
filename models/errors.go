package models

import "errors"

var (
	// ErrClientNotInitialized is returned when no AI client exists and no API key was supplied.
	ErrClientNotInitialized = errors.New("ai: client not initialized")
	// ErrSafetyBlocked marks a prompt or response rejected by the provider's own safety filter.
	ErrSafetyBlocked = errors.New("ai: blocked by provider safety filter")
)
