package ports

// Frontend is a serving surface that feeds user input through the
// conversation dispatcher or the analysis engine
type Frontend interface {
	// Start starts serving. It must not block.
	Start() error

	// Stop stops serving and releases resources
	Stop() error

	// Done is closed when the frontend finishes on its own, e.g. an
	// interactive session ending with a farewell
	Done() <-chan struct{}
}
