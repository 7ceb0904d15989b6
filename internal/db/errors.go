package db

import "errors"

// Domain-level database error sentinels.
var (
	// Content piece errors
	ErrContentNotFound = errors.New("content piece not found")

	// Creative request errors
	ErrCreativeRequestNotFound = errors.New("creative request not found")

	// Adjustment request errors
	ErrAdjustmentNotFound = errors.New("adjustment request not found")

	// Column errors
	ErrColumnNotFound      = errors.New("column not found")
	ErrSystemColumn        = errors.New("system columns cannot be deleted")
	ErrDuplicateColumn     = errors.New("a column with this id already exists")

	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Agency / client errors
	ErrAgencyNotFound = errors.New("agency not found")
	ErrClientNotFound = errors.New("client not found")
	ErrDuplicateSlug  = errors.New("slug already exists")
)
