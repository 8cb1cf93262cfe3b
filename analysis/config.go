package analysis

import (
	"fmt"

	"github.com/poiesic/phrasetrack/match"
	"github.com/poiesic/phrasetrack/refine"
)

// Config holds the tunables of an analysis. The zero value is not valid;
// start from DefaultConfig.
type Config struct {
	// LengthWindowLow is subtracted from the tracker length to get the
	// shortest approximate hit considered.
	LengthWindowLow int

	// LengthWindowHigh is added to the tracker length to get the longest
	// approximate hit considered.
	LengthWindowHigh int

	// Stage1Threshold is the similarity a raw approximate hit must exceed.
	Stage1Threshold float64

	// Stage2Threshold is the similarity a refined hit must exceed.
	Stage2Threshold float64

	// OptimizationSteps bounds each widening and narrowing direction.
	OptimizationSteps int

	// MinSpanForNarrowing disables narrowing for spans of at most this many tokens.
	MinSpanForNarrowing int

	// PoolSize is the number of trackers refined concurrently.
	// Zero means runtime.NumCPU() / 2, with a minimum of 1.
	PoolSize int
}

// DefaultConfig returns the standard analysis configuration.
func DefaultConfig() Config {
	return Config{
		LengthWindowLow:     0,
		LengthWindowHigh:    2,
		Stage1Threshold:     0.90,
		Stage2Threshold:     0.94,
		OptimizationSteps:   5,
		MinSpanForNarrowing: 3,
	}
}

// Validate checks that every value is in range.
func (c Config) Validate() error {
	if c.LengthWindowLow < 0 || c.LengthWindowHigh < 0 {
		return fmt.Errorf("%w: length window must not be negative (low %d, high %d)", ErrInvalidConfig, c.LengthWindowLow, c.LengthWindowHigh)
	}
	if c.Stage1Threshold < 0 || c.Stage1Threshold > 1 {
		return fmt.Errorf("%w: stage 1 threshold %v outside [0,1]", ErrInvalidConfig, c.Stage1Threshold)
	}
	if c.Stage2Threshold < 0 || c.Stage2Threshold > 1 {
		return fmt.Errorf("%w: stage 2 threshold %v outside [0,1]", ErrInvalidConfig, c.Stage2Threshold)
	}
	if c.OptimizationSteps < 0 {
		return fmt.Errorf("%w: optimization steps must not be negative, got %d", ErrInvalidConfig, c.OptimizationSteps)
	}
	if c.MinSpanForNarrowing < 0 {
		return fmt.Errorf("%w: minimum span for narrowing must not be negative, got %d", ErrInvalidConfig, c.MinSpanForNarrowing)
	}
	if c.PoolSize < 0 {
		return fmt.Errorf("%w: pool size must not be negative, got %d", ErrInvalidConfig, c.PoolSize)
	}
	return nil
}

func (c Config) window() match.Window {
	return match.Window{Low: c.LengthWindowLow, High: c.LengthWindowHigh}
}

func (c Config) refineConfig() refine.Config {
	return refine.Config{
		Stage1Threshold:     c.Stage1Threshold,
		Stage2Threshold:     c.Stage2Threshold,
		Steps:               c.OptimizationSteps,
		MinSpanForNarrowing: c.MinSpanForNarrowing,
	}
}
