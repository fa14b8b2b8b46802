package citydesk

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates an agent, request, or declaration failed validation.
	ErrValidation = errors.New("validation error")

	// ErrToolNotFound indicates the requested tool does not exist in the registry.
	ErrToolNotFound = errors.New("tool not found")

	// ErrDuplicateTool indicates a registration attempt with a name already taken.
	ErrDuplicateTool = errors.New("duplicate tool name")

	// ErrConfiguration indicates credential resolution could not determine
	// exactly one access mode.
	ErrConfiguration = errors.New("configuration error")
)
