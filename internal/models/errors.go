package models

import (
	"errors"
)

var (
	// ErrGeneral is returned when the backend cannot provide a more specific error.
	ErrGeneral = errors.New("an error occurred on the server during your request")

	// ErrResourceNotFound is always wrapped with the name of the resource
	// that could not be found, forming a full sentence.
	ErrResourceNotFound = errors.New("there is no")
)
