package manager

import (
	"github.com/montanaflynn/stats"
)

// rolloutLatency records the look-ahead window, in timesteps, that each
// CheckRequest rollout was given (ExitResTimestepsForward for the
// requester). The window is recorded before the rollout runs, so a rollout
// that rejects its candidate early still records the full window.
type rolloutLatency struct {
	samples stats.Float64Data
}

func (r *rolloutLatency) record(steps int64) {
	r.samples = append(r.samples, float64(steps))
}

// Summary returns the mean and population standard deviation of every
// recorded rollout length, or (0, 0) if none has been recorded yet.
func (r *rolloutLatency) Summary() (mean, stddev float64) {
	if len(r.samples) == 0 {
		return 0, 0
	}
	mean, _ = r.samples.Mean()
	stddev, _ = r.samples.StandardDeviation()
	return mean, stddev
}
