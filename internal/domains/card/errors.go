package card

import "errors"

var (
	ErrCardNotFound = errors.New("card not found")
	ErrSlugTaken    = errors.New("slug is already taken")
	ErrInvalidName  = errors.New("card name produces an empty slug")
)
