package services

import "errors"

// Error taxonomy shared by all services. Controllers map these onto HTTP
// status codes; everything not wrapped in one of them is treated as a backend
// failure.
var (
	// ErrInvalidInput marks malformed input detected before any store mutation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden marks an authenticated caller that is not the entity owner.
	ErrForbidden = errors.New("not authorized")
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
