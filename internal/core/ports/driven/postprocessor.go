package driven

import "context"

// PostProcessor turns normalised text into the texts of retrievable units.
// The chunker is the only built-in processor.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process splits text into ordered pieces. Empty text yields no pieces.
	Process(ctx context.Context, text string) ([]string, error)
}
