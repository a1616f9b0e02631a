package domain

import "errors"

var (
	ErrFetchFailed        = errors.New("fetch failed")
	ErrNotificationFailed = errors.New("notification failed")
	ErrOwnerNotFound      = errors.New("owner not found")
	ErrSecretNotFound     = errors.New("secret not found")
	ErrSecretReadOnly     = errors.New("secret backend is read-only")
	ErrSecretShadowed     = errors.New("secret is overridden by a read-only backend")
)
