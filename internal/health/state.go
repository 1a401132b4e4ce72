package health

import (
	"feedcore/internal/models"
)

// State is the health sub-record of a feed. It is a plain value so that
// every threshold boundary can be exercised without a store.
type State struct {
	Status              models.FeedStatus
	ReliabilityScore    int
	ConsecutiveFailures int
	ErrorCount24h       int
	Active              bool
}

// Thresholds controls when accumulated failures escalate a feed.
type Thresholds struct {
	DegradedAfter  int
	ErrorAfter     int
	DisableAfter   int
	MaxErrors24h   int
	RecoveryStep   int
	FailurePenalty int
}

// DefaultThresholds returns the escalation ladder used when nothing is
// configured: degraded after 3 consecutive failures, error after 5,
// disabled after 10 or 25 errors in 24h.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DegradedAfter:  3,
		ErrorAfter:     5,
		DisableAfter:   10,
		MaxErrors24h:   25,
		RecoveryStep:   10,
		FailurePenalty: 15,
	}
}

// NewState is the health record of a freshly registered feed.
func NewState() State {
	return State{
		Status:           models.FeedStatusHealthy,
		ReliabilityScore: 100,
		Active:           true,
	}
}

// Apply folds one fetch outcome into a health state. It is pure: the
// caller persists the result.
//
// Success zeroes the consecutive counter, recovers reliability by a
// bounded step and heals degraded/error status. Failure walks the feed
// down the ladder healthy -> degraded -> error -> disabled; disabling
// also deactivates the feed. A disabled feed stays disabled until an
// explicit reset, regardless of later outcomes.
func Apply(s State, outcome models.Outcome, t Thresholds) State {
	switch outcome {
	case models.OutcomeSuccess:
		s.ConsecutiveFailures = 0
		s.ReliabilityScore = clamp(s.ReliabilityScore + t.RecoveryStep)
		if s.Status == models.FeedStatusDegraded || s.Status == models.FeedStatusError {
			s.Status = models.FeedStatusHealthy
		}

	case models.OutcomeFailure:
		s.ConsecutiveFailures++
		s.ErrorCount24h++
		s.ReliabilityScore = clamp(s.ReliabilityScore - t.FailurePenalty)

		if s.Status == models.FeedStatusDisabled {
			break
		}

		switch {
		case s.ConsecutiveFailures >= t.DisableAfter || s.ErrorCount24h >= t.MaxErrors24h:
			s.Status = models.FeedStatusDisabled
			s.Active = false
		case s.ConsecutiveFailures >= t.ErrorAfter:
			s.Status = models.FeedStatusError
		case s.ConsecutiveFailures >= t.DegradedAfter:
			s.Status = models.FeedStatusDegraded
		}
	}

	return s
}

// Reset restores a single health record to the healthy baseline. The
// reliability score is kept so history is not erased wholesale.
func Reset(s State) State {
	s.Status = models.FeedStatusHealthy
	s.ConsecutiveFailures = 0
	s.ErrorCount24h = 0
	s.Active = true
	return s
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
