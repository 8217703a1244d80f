package core

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
	// ErrUnavailable señala una falla del storage (no "dato ausente").
	// Los servicios lo propagan como 503 en vez de enmascararlo como 404.
	ErrUnavailable = errors.New("store unavailable")
)
