package db

import "errors"

// Domain-level database error sentinels.
var (
	// Block errors
	ErrBlockNotFound = errors.New("block not found")
	ErrDuplicateSlug = errors.New("block slug already exists")

	// Page errors
	ErrPageNotFound  = errors.New("page not found")
	ErrDuplicatePath = errors.New("page path or alias already exists")
)
