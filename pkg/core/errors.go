package core

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace groups the error codes registered by the raytracer
const Codespace = "raytracer"

// Codes start at 2; code 1 is conventionally reserved for internal errors.
var (
	// ErrZeroLength is returned when normalizing a vector of length zero
	ErrZeroLength = errorsmod.Register(Codespace, 2, "zero-length vector")
	// ErrDegenerateRay is returned for rays whose direction is the zero vector
	ErrDegenerateRay = errorsmod.Register(Codespace, 3, "degenerate ray direction")
	// ErrInvalidConfig is returned when camera or render settings are out of range
	ErrInvalidConfig = errorsmod.Register(Codespace, 4, "invalid configuration")
	// ErrUnknownScene is returned when a scene name is not registered
	ErrUnknownScene = errorsmod.Register(Codespace, 5, "unknown scene")
	// ErrMalformedImage is returned when a PPM stream cannot be parsed
	ErrMalformedImage = errorsmod.Register(Codespace, 6, "malformed image")
)
