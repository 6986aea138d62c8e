package courier

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Provider identifies a third-party courier network.
type Provider int

const (
	// None means no courier has been chosen for the order.
	None Provider = iota

	// Pathao is the Pathao Courier network.
	Pathao

	// RedX is the RedX delivery network.
	RedX

	// Steadfast is the Steadfast courier service.
	Steadfast

	// Paperfly is the Paperfly nationwide delivery network.
	Paperfly

	// ECourier is the eCourier delivery network.
	ECourier
)

func getProviderStrings() map[Provider]string {
	return map[Provider]string{
		None:      "None",
		Pathao:    "Pathao",
		RedX:      "RedX",
		Steadfast: "Steadfast",
		Paperfly:  "Paperfly",
		ECourier:  "eCourier",
	}
}

// ProviderFromString parses the storefront/API representation of a provider.
// An empty string maps to None, matching records that predate courier
// integration.
func ProviderFromString(s string) (Provider, error) {
	if s == "" {
		return None, nil
	}
	for provider, str := range getProviderStrings() {
		if str == s {
			return provider, nil
		}
	}
	return None, errs.NewValueIsInvalidErrorWithCause("provider",
		fmt.Errorf("%q is not a known courier provider", s))
}

// Validate checks that the Provider is one of the known values.
// None is a valid value: it marks an order without an assignment.
func (p Provider) Validate() error {
	if _, ok := getProviderStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("provider",
			fmt.Errorf("%d is not a valid provider", p))
	}
	return nil
}

// String returns the display name of the provider.
func (p Provider) String() string {
	if str, ok := getProviderStrings()[p]; ok {
		return str
	}
	return "None"
}
