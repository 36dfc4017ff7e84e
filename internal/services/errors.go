package services

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailTaken           = errors.New("email already registered")
	ErrNotFound             = errors.New("not found")
	ErrDraftNotFound        = errors.New("draft not found")
	ErrStepIncomplete       = errors.New("step incomplete")
	ErrConsentRequired      = errors.New("consent required")
	ErrStorageUnavailable   = errors.New("storage service is not configured")
	ErrAssistantUnreachable = errors.New("assistant unreachable")
)
