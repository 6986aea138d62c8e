package customer_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPhone(t *testing.T, raw string) kernel.Phone {
	t.Helper()
	phone, err := kernel.NewPhone(raw)
	require.NoError(t, err)
	return phone
}

func TestNewCustomer(t *testing.T) {
	t.Run("valid_customer", func(t *testing.T) {
		phone := mustPhone(t, "01711223344")

		c, err := customer.NewCustomer("Rahim Uddin", phone, "House 12, Road 5, Dhanmondi", "Dhaka")

		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.Equal(t, "Rahim Uddin", c.Name())
		assert.Equal(t, "+8801711223344", c.Phone().String())
		assert.Equal(t, "Dhaka", c.City())
		assert.NotEqual(t, c.ID().String(), "00000000-0000-0000-0000-000000000000")
	})

	t.Run("city_may_be_empty", func(t *testing.T) {
		_, err := customer.NewCustomer("Sadia Islam", mustPhone(t, "01811223344"), "Flat 4A, Green Road", "")
		require.NoError(t, err)
	})

	t.Run("name_is_required", func(t *testing.T) {
		_, err := customer.NewCustomer("", mustPhone(t, "01811223344"), "Flat 4A, Green Road", "Dhaka")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("address_is_required", func(t *testing.T) {
		_, err := customer.NewCustomer("Sadia Islam", mustPhone(t, "01811223344"), "", "Dhaka")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("phone_must_be_constructed", func(t *testing.T) {
		var phone kernel.Phone
		_, err := customer.NewCustomer("Sadia Islam", phone, "Flat 4A, Green Road", "Dhaka")
		require.Error(t, err)
	})
}

func TestCustomer_IsSamePerson(t *testing.T) {
	phone := mustPhone(t, "01711223344")

	first, err := customer.NewCustomer("Rahim Uddin", phone, "House 12, Dhanmondi", "Dhaka")
	require.NoError(t, err)
	// Same phone, different name and address across orders.
	second, err := customer.NewCustomer("R. Uddin", phone, "Office, Motijheel", "Dhaka")
	require.NoError(t, err)
	other, err := customer.NewCustomer("Fariha Tasnim", mustPhone(t, "01911223344"), "Muradpur", "Chittagong")
	require.NoError(t, err)

	assert.True(t, first.IsSamePerson(second))
	assert.False(t, first.IsSamePerson(other))
}

func TestCustomer_Validate_ZeroValue(t *testing.T) {
	var c customer.Customer
	require.ErrorIs(t, c.Validate(), customer.ErrCustomerIsNotConstructed)
}
