package config

import "errors"

var (
	// ErrNilPointer indicates Load was called with a nil target
	ErrNilPointer = errors.New("config.nil_pointer")

	// ErrParsingConfig indicates environment parsing failed
	ErrParsingConfig = errors.New("config.parsing_failed")
)
