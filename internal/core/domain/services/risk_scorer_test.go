package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskScorer_ScoreCounts(t *testing.T) {
	scorer := services.NewRiskScorer()
	lastOrder := time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		delivered int
		returned  int
		wantRate  int
		wantLabel services.RiskLabel
	}{
		{"nine_of_ten_is_safe", 9, 1, 90, services.RiskSafe},
		{"all_delivered_is_safe", 10, 0, 100, services.RiskSafe},
		{"six_of_ten_is_high_risk", 6, 4, 60, services.RiskHigh},
		{"seven_of_ten_is_moderate", 7, 3, 70, services.RiskModerate},
		{"eighty_nine_stays_moderate", 89, 11, 89, services.RiskModerate},
		{"sixty_nine_is_high_risk", 69, 31, 69, services.RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := scorer.ScoreCounts(tt.delivered, tt.returned, lastOrder)

			assert.Equal(t, tt.wantRate, profile.SuccessRate)
			assert.Equal(t, tt.wantLabel, profile.Label)
			assert.Equal(t, tt.delivered+tt.returned, profile.TotalParcels)
			assert.Equal(t, lastOrder, profile.LastOrderDate)
		})
	}
}

func TestRiskScorer_RoundsHalfUp(t *testing.T) {
	scorer := services.NewRiskScorer()

	// 2/3 = 66.67 -> 67
	assert.Equal(t, 67, scorer.ScoreCounts(2, 1, time.Time{}).SuccessRate)
	// 1/3 = 33.33 -> 33
	assert.Equal(t, 33, scorer.ScoreCounts(1, 2, time.Time{}).SuccessRate)
	// 7/8 = 87.5 -> 88, half rounds up
	assert.Equal(t, 88, scorer.ScoreCounts(7, 1, time.Time{}).SuccessRate)
}

func TestRiskScorer_EmptyHistoryIsUnknown(t *testing.T) {
	scorer := services.NewRiskScorer()

	profile := scorer.ScoreCounts(0, 0, time.Time{})

	assert.Equal(t, services.RiskUnknown, profile.Label)
	assert.Equal(t, 0, profile.TotalParcels)
	assert.Equal(t, 0, profile.SuccessRate)
	assert.Equal(t, "Unknown", profile.Label.String())
}

func TestRiskScorer_ScoreOutcomes(t *testing.T) {
	scorer := services.NewRiskScorer()

	t.Run("aggregates_individual_outcomes", func(t *testing.T) {
		history := []services.ParcelOutcome{
			{Delivered: true, Date: time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)},
			{Delivered: true, Date: time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC)},
			{Delivered: false, Date: time.Date(2023, 10, 2, 0, 0, 0, 0, time.UTC)},
		}

		profile := scorer.ScoreOutcomes(history)

		assert.Equal(t, 3, profile.TotalParcels)
		assert.Equal(t, 2, profile.Delivered)
		assert.Equal(t, 1, profile.Returned)
		assert.Equal(t, 67, profile.SuccessRate)
		assert.Equal(t, services.RiskHigh, profile.Label)
		// lastOrderDate is the max date in the history.
		assert.Equal(t, time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC), profile.LastOrderDate)
	})

	t.Run("empty_history_is_unknown", func(t *testing.T) {
		profile := scorer.ScoreOutcomes(nil)
		assert.Equal(t, services.RiskUnknown, profile.Label)
	})

	t.Run("deterministic", func(t *testing.T) {
		history := []services.ParcelOutcome{
			{Delivered: true, Date: time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)},
			{Delivered: false, Date: time.Date(2023, 10, 2, 0, 0, 0, 0, time.UTC)},
		}

		first := scorer.ScoreOutcomes(history)
		for i := 0; i < 10; i++ {
			require.Equal(t, first, scorer.ScoreOutcomes(history))
		}
	})
}

func TestRiskLabel_String(t *testing.T) {
	assert.Equal(t, "Safe", services.RiskSafe.String())
	assert.Equal(t, "Moderate", services.RiskModerate.String())
	assert.Equal(t, "High Risk", services.RiskHigh.String())
	assert.Equal(t, "Unknown", services.RiskUnknown.String())
}
