package courier_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnassigned(t *testing.T) {
	a := courier.NewUnassigned()

	assert.Equal(t, courier.None, a.Provider())
	assert.Equal(t, courier.NotAssigned, a.Status())
	assert.Empty(t, a.TrackingID())
	assert.False(t, a.IsAssigned())
}

func TestAssignment_Book(t *testing.T) {
	t.Run("books_from_not_assigned", func(t *testing.T) {
		a := courier.NewUnassigned()

		booked, err := a.Book(courier.Pathao, "PTH-1")

		require.NoError(t, err)
		assert.Equal(t, courier.Pathao, booked.Provider())
		assert.Equal(t, courier.Requested, booked.Status())
		assert.Equal(t, "PTH-1", booked.TrackingID())
		assert.True(t, booked.IsAssigned())

		// Value semantics: the original is untouched.
		assert.Equal(t, courier.NotAssigned, a.Status())
	})

	t.Run("rejects_double_booking", func(t *testing.T) {
		a := courier.NewUnassigned()
		booked, err := a.Book(courier.Pathao, "PTH-1")
		require.NoError(t, err)

		_, err = booked.Book(courier.RedX, "RDX-2")
		require.ErrorIs(t, err, courier.ErrAlreadyAssigned)
	})

	t.Run("requires_provider", func(t *testing.T) {
		_, err := courier.NewUnassigned().Book(courier.None, "PTH-1")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("requires_tracking_id", func(t *testing.T) {
		_, err := courier.NewUnassigned().Book(courier.Steadfast, "")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestAssignment_Apply(t *testing.T) {
	booked := func(t *testing.T) courier.Assignment {
		t.Helper()
		a, err := courier.NewUnassigned().Book(courier.Pathao, "PTH-1")
		require.NoError(t, err)
		return a
	}

	t.Run("advances_through_lifecycle", func(t *testing.T) {
		a := booked(t)

		for _, target := range []courier.Status{courier.PickedUp, courier.InTransit, courier.Delivered} {
			next, changed, err := a.Apply(courier.StatusEvent{Target: target})
			require.NoError(t, err)
			assert.True(t, changed)
			a = next
		}
		assert.Equal(t, courier.Delivered, a.Status())
	})

	t.Run("captures_rider_details_when_present", func(t *testing.T) {
		a := booked(t)

		next, changed, err := a.Apply(courier.StatusEvent{
			Target:     courier.PickedUp,
			RiderName:  "Karim Mia",
			RiderPhone: "01900000000",
			RiderNote:  "Deliver after 5 PM.",
		})
		require.NoError(t, err)
		require.True(t, changed)
		assert.Equal(t, "Karim Mia", next.RiderName())
		assert.Equal(t, "01900000000", next.RiderPhone())
		assert.Equal(t, "Deliver after 5 PM.", next.RiderNote())

		// A later event without rider fields keeps the earlier values.
		final, changed, err := next.Apply(courier.StatusEvent{Target: courier.InTransit})
		require.NoError(t, err)
		require.True(t, changed)
		assert.Equal(t, "Karim Mia", final.RiderName())
	})

	t.Run("stale_event_after_delivery_is_noop", func(t *testing.T) {
		a := booked(t)
		a, _, err := a.Apply(courier.StatusEvent{Target: courier.Delivered})
		require.NoError(t, err)

		next, changed, err := a.Apply(courier.StatusEvent{Target: courier.InTransit})
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, courier.Delivered, next.Status())
	})

	t.Run("redelivered_webhook_is_noop", func(t *testing.T) {
		a := booked(t)
		a, _, err := a.Apply(courier.StatusEvent{Target: courier.PickedUp})
		require.NoError(t, err)

		_, changed, err := a.Apply(courier.StatusEvent{Target: courier.PickedUp})
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("event_on_unassigned_order_is_illegal", func(t *testing.T) {
		_, _, err := courier.NewUnassigned().Apply(courier.StatusEvent{Target: courier.PickedUp})
		require.ErrorIs(t, err, courier.ErrIllegalTransition)
	})
}

func TestRestoreAssignment(t *testing.T) {
	t.Run("restores_full_state", func(t *testing.T) {
		a, err := courier.RestoreAssignment(
			courier.RedX, "RDX-112233", courier.Delivered, "Sumon", "01700000000", "")
		require.NoError(t, err)
		assert.Equal(t, courier.RedX, a.Provider())
		assert.Equal(t, courier.Delivered, a.Status())
		assert.Equal(t, "Sumon", a.RiderName())
	})

	t.Run("rejects_assigned_status_without_provider", func(t *testing.T) {
		_, err := courier.RestoreAssignment(courier.None, "", courier.PickedUp, "", "", "")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestProviderFromString(t *testing.T) {
	for raw, want := range map[string]courier.Provider{
		"":          courier.None,
		"None":      courier.None,
		"Pathao":    courier.Pathao,
		"RedX":      courier.RedX,
		"Steadfast": courier.Steadfast,
		"Paperfly":  courier.Paperfly,
		"eCourier":  courier.ECourier,
	} {
		got, err := courier.ProviderFromString(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := courier.ProviderFromString("DHL")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
