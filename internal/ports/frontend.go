package ports

// Frontend defines the lifecycle of a user-facing surface
type Frontend interface {
	// Start starts serving requests
	Start() error

	// Stop shuts the surface down
	Stop() error
}
