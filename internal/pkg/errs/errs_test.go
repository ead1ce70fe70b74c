package errs_test

import (
	"errors"
	"testing"

	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("deliveryId", "123")

		assert.Equal(t, "deliveryId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("driverId", "123", cause)

		assert.Equal(t, "driverId", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: driverId, ID is: 123 (cause: database connection failed)",
			err.Error())
	})

	t.Run("matches sentinel with errors.Is", func(t *testing.T) {
		var err error = errs.NewObjectNotFoundError("deliveryId", "abc")
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("priority")

		assert.Equal(t, "priority", err.ParamName)
		assert.Equal(t, "value is invalid: priority", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("invalid format")
		err := errs.NewValueIsInvalidErrorWithCause("phone", cause)

		assert.Equal(t, "value is invalid: phone (cause: invalid format)", err.Error())
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("latitude", 150, -90, 90)

		assert.Equal(t, "latitude", err.ParamName)
		assert.Equal(t, 150, err.Value)
		assert.Equal(t, -90, err.Min)
		assert.Equal(t, 90, err.Max)
		assert.Equal(t, "value is out of range: 150 is latitude, min value is -90, max value is 90", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("sanitizes newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("customer name")

		assert.Equal(t, "value is required: customer name", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("NewValueIsRequiredErrorWithCause", func(t *testing.T) {
		cause := errors.New("missing required field")
		err := errs.NewValueIsRequiredErrorWithCause("orderId", cause)

		assert.Equal(t, "value is required: orderId (cause: missing required field)", err.Error())
	})
}

func TestVersionConflictError(t *testing.T) {
	t.Run("NewVersionConflictError", func(t *testing.T) {
		err := errs.NewVersionConflictError("delivery", "abc-123", 4)

		assert.Equal(t, "delivery", err.ParamName)
		assert.Equal(t, "abc-123", err.ID)
		assert.Equal(t, 4, err.Expected)
		assert.Equal(t, "version conflict: delivery abc-123, expected version 4", err.Error())
		assert.Equal(t, errs.ErrVersionConflict, err.Unwrap())
	})

	t.Run("matches sentinel with errors.Is", func(t *testing.T) {
		var err error = errs.NewVersionConflictError("delivery", "abc", 1)
		assert.ErrorIs(t, err, errs.ErrVersionConflict)
	})
}

func TestInvalidTransitionError(t *testing.T) {
	t.Run("names current and attempted state", func(t *testing.T) {
		err := errs.NewInvalidTransitionError("Pending", "Delivered")

		assert.Equal(t, "Pending", err.From)
		assert.Equal(t, "Delivered", err.To)
		assert.Equal(t, "invalid transition: Pending -> Delivered", err.Error())
		assert.Equal(t, errs.ErrInvalidTransition, err.Unwrap())
	})
}

func TestDuplicateDriverError(t *testing.T) {
	t.Run("NewDuplicateDriverError", func(t *testing.T) {
		err := errs.NewDuplicateDriverError("drv-1")

		assert.Equal(t, "driver already registered: drv-1", err.Error())
		assert.ErrorIs(t, err, errs.ErrDuplicateDriver)
	})
}
