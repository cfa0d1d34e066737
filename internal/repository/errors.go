// Package repository defines error types shared by the repositories.
// Handlers and services compare against these sentinels with errors.Is
// instead of inspecting driver errors.
package repository

import "errors"

// ErrVillaNotFound is returned when no villa row matches the requested id.
// Handlers should translate this into an HTTP 404 response.
var ErrVillaNotFound = errors.New("villa not found")
