package server

import "errors"

var (
	// ErrStart indicates that the gateway failed to start.
	ErrStart = errors.New("failed to start gateway")
	// ErrShutdown indicates that graceful shutdown failed.
	ErrShutdown = errors.New("failed to shutdown gateway gracefully")
	// ErrAlreadyRunning is returned by Run on a server that is already serving.
	ErrAlreadyRunning = errors.New("gateway already running")
)
