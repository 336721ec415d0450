package profile

import "errors"

var (
	ErrSectionNotFound = errors.New("profile section not found")
	ErrInvalidYear     = errors.New("invalid year")
)
