package cli

import "errors"

// Common CLI errors
var (
	ErrNoSamples       = errors.New("no sample files given")

	// errSilent marks failures whose details were already printed.
	errSilent = errors.New("silent failure")
)
