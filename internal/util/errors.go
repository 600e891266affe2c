package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSupplementNotFound = errors.New("supplement not found")
	ErrResultNotFound     = errors.New("scored result not found")
	ErrSurfaceNotTracked  = errors.New("surface is not being tracked")
	ErrUnknownSortOrder   = errors.New("unknown sort strategy")
)
