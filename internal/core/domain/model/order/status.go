package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the storefront lifecycle state of an order. The
// storefront is the authoritative source: re-syncing mirrors its value, and
// the only status this system sets on its own is Cancelled, when a courier
// reports the parcel returned.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// Pending means the order is placed but not yet being prepared.
	Pending

	// Processing means the order is being prepared for shipment.
	Processing

	// Completed means the storefront considers the order fulfilled.
	Completed

	// Cancelled means the order will not be fulfilled.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "Unknown",
		Pending:       "Pending",
		Processing:    "Processing",
		Completed:     "Completed",
		Cancelled:     "Cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:    "Pending",
		Processing: "Processing",
		Completed:  "Completed",
		Cancelled:  "Cancelled",
	}
}

// StatusFromString parses the display representation of a status.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("order status",
		fmt.Errorf("%q is not a known order status", s))
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("order status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}
