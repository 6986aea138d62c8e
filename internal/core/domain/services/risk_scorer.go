package services

import (
	"math"
	"time"
)

// RiskLabel is a coarse classification of a customer's delivery history.
type RiskLabel int

const (
	// RiskUnknown means there is no history to score.
	RiskUnknown RiskLabel = iota

	// RiskSafe: at least 90% of past parcels were delivered.
	RiskSafe

	// RiskModerate: 70-89% of past parcels were delivered.
	RiskModerate

	// RiskHigh: fewer than 70% of past parcels were delivered.
	RiskHigh
)

// String returns the display name of the label.
func (l RiskLabel) String() string {
	switch l {
	case RiskSafe:
		return "Safe"
	case RiskModerate:
		return "Moderate"
	case RiskHigh:
		return "High Risk"
	default:
		return "Unknown"
	}
}

// ParcelOutcome is one historical parcel for a customer: whether it was
// delivered, and when the order was placed.
type ParcelOutcome struct {
	Delivered bool
	Date      time.Time
}

// RiskProfile is the derived delivery-risk summary for a customer. It is
// recomputed on demand from history, never persisted as primary data.
type RiskProfile struct {
	TotalParcels  int
	Delivered     int
	Returned      int
	SuccessRate   int
	LastOrderDate time.Time
	Label         RiskLabel
}

// RiskScorer computes a RiskProfile from historical parcel outcomes. The
// computation is deterministic: a fixed history always yields an identical
// profile.
type RiskScorer struct{}

// NewRiskScorer creates a RiskScorer.
func NewRiskScorer() RiskScorer {
	return RiskScorer{}
}

// ScoreOutcomes scores a sequence of individual parcel outcomes.
// An empty history yields the distinguished RiskUnknown profile.
func (RiskScorer) ScoreOutcomes(history []ParcelOutcome) RiskProfile {
	delivered := 0
	var lastOrder time.Time
	for _, outcome := range history {
		if outcome.Delivered {
			delivered++
		}
		if outcome.Date.After(lastOrder) {
			lastOrder = outcome.Date
		}
	}
	return score(delivered, len(history)-delivered, lastOrder)
}

// ScoreCounts scores an already-aggregated delivered/returned count pair,
// as supplied by a courier-network history feed.
func (RiskScorer) ScoreCounts(delivered, returned int, lastOrderDate time.Time) RiskProfile {
	if delivered < 0 {
		delivered = 0
	}
	if returned < 0 {
		returned = 0
	}
	return score(delivered, returned, lastOrderDate)
}

func score(delivered, returned int, lastOrder time.Time) RiskProfile {
	total := delivered + returned
	if total == 0 {
		return RiskProfile{Label: RiskUnknown}
	}

	// Round half up to the nearest integer percentage.
	rate := int(math.Floor(100*float64(delivered)/float64(total) + 0.5))

	return RiskProfile{
		TotalParcels:  total,
		Delivered:     delivered,
		Returned:      returned,
		SuccessRate:   rate,
		LastOrderDate: lastOrder,
		Label:         labelFor(rate),
	}
}

func labelFor(successRate int) RiskLabel {
	switch {
	case successRate >= 90:
		return RiskSafe
	case successRate >= 70:
		return RiskModerate
	default:
		return RiskHigh
	}
}
