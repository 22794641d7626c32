package splitter

import "errors"

// ErrInvalidConfiguration is returned when a Chunker is built with a non positive max length.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Options holds the optional settings of a Chunker, it is embedded so the
// settings can be read back from the Chunker.
type Options struct {
	tokenCounter TokenCounter
}

// Option is a function type for configuring chunker Options.
// This follows the functional options pattern for clean and flexible configuration.
type Option func(*Options)

// WithTokenCounter sets the counter used to report chunk sizes in tokens.
// It never changes where chunks are cut.
func WithTokenCounter(counter TokenCounter) Option {
	return func(o *Options) {
		o.tokenCounter = counter
	}
}

// TokenCounter returns the counter chunk sizes are reported with.
func (o Options) TokenCounter() TokenCounter {
	return o.tokenCounter
}
