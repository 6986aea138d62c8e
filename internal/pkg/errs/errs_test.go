package errs_test

import (
	"errors"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderID", "#WC-59201")

		assert.Equal(t, "orderID", err.ParamName)
		assert.Equal(t, "#WC-59201", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: #WC-59201", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("orderID", "#WC-59201", cause)

		assert.Equal(t, "orderID", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: orderID, ID is: #WC-59201 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("phone")

		assert.Equal(t, "phone", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: phone", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("invalid format")
		err := errs.NewValueIsInvalidErrorWithCause("phone", cause)

		assert.Equal(t, "phone", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: phone (cause: invalid format)", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("sanitize function with newlines", func(t *testing.T) {
		cause := errors.New("bad\nvalue")
		err := errs.NewValueIsInvalidErrorWithCause("note", cause)
		assert.Contains(t, err.Error(), "bad value")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("trackingID")

		assert.Equal(t, "trackingID", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is required: trackingID", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("NewValueIsRequiredErrorWithCause", func(t *testing.T) {
		cause := errors.New("missing required field")
		err := errs.NewValueIsRequiredErrorWithCause("trackingID", cause)

		assert.Equal(t, "trackingID", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is required: trackingID (cause: missing required field)", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})
}

func TestAdapterError(t *testing.T) {
	t.Run("NewAdapterError", func(t *testing.T) {
		cause := errors.New("401 Unauthorized")
		err := errs.NewAdapterError("Pathao", "book", cause)

		assert.Equal(t, "Pathao", err.Adapter)
		assert.Equal(t, "book", err.Operation)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"adapter call failed: adapter is: Pathao, operation is: book (cause: 401 Unauthorized)",
			err.Error())
		assert.Equal(t, errs.ErrAdapterFailure, err.Unwrap())
	})
}

func TestSentinelErrors(t *testing.T) {
	t.Run("sentinel errors are defined", func(t *testing.T) {
		require.Error(t, errs.ErrObjectNotFound)
		require.Error(t, errs.ErrValueIsInvalid)
		require.Error(t, errs.ErrValueIsRequired)
		require.Error(t, errs.ErrAdapterFailure)
	})

	t.Run("error messages match expectations", func(t *testing.T) {
		assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
		assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
		assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
		assert.Equal(t, "adapter call failed", errs.ErrAdapterFailure.Error())
	})
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	t.Run("errors.Is works with custom errors", func(t *testing.T) {
		objectNotFoundErr := errs.NewObjectNotFoundError("orderID", "#WC-1")
		require.ErrorIs(t, objectNotFoundErr, errs.ErrObjectNotFound)

		valueInvalidErr := errs.NewValueIsInvalidError("phone")
		require.ErrorIs(t, valueInvalidErr, errs.ErrValueIsInvalid)

		valueRequiredErr := errs.NewValueIsRequiredError("trackingID")
		require.ErrorIs(t, valueRequiredErr, errs.ErrValueIsRequired)

		adapterErr := errs.NewAdapterError("RedX", "track", errors.New("timeout"))
		require.ErrorIs(t, adapterErr, errs.ErrAdapterFailure)
	})
}
