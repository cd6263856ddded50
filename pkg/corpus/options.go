package corpus

import (
	"fmt"

	"github.com/dd0wney/cluso-deepwalk/pkg/logging"
	"github.com/dd0wney/cluso-deepwalk/pkg/metrics"
	"github.com/dd0wney/cluso-deepwalk/pkg/walk"
)

// Options configures corpus generation.
type Options struct {
	// NumPaths is the number of passes over the node set; each pass starts
	// one walk at every node.
	NumPaths   int
	PathLength int
	Alpha      float64
	// Workers is the number of partitions walked concurrently per pass.
	Workers int
	Seed    uint64
	// RunID tags every log line of the build; a random UUID when empty.
	RunID string

	Logger  logging.Logger
	Metrics *metrics.Registry
	// OnPass, if set, is called by the coordinator after each pass.
	OnPass func(done, total int)
}

// DefaultOptions returns 10 passes of 40-node walks without restarts on a
// single worker.
func DefaultOptions() Options {
	return Options{
		NumPaths:   10,
		PathLength: 40,
		Workers:    1,
	}
}

// Params returns the walk parameters embedded in o
func (o Options) Params() walk.Params {
	return walk.Params{PathLength: o.PathLength, Alpha: o.Alpha}
}

// Validate checks the pass and worker counts and the walk parameters
func (o Options) Validate() error {
	if o.NumPaths < 1 {
		return fmt.Errorf("%w: num paths %d < 1", ErrInvalidOptions, o.NumPaths)
	}
	if o.Workers < 1 {
		return fmt.Errorf("%w: workers %d < 1", ErrInvalidOptions, o.Workers)
	}
	return o.Params().Validate()
}
