package kernel

import (
	"fmt"
	"regexp"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// ErrPhoneIsNotConstructed indicates that a Phone was not created through NewPhone.
var ErrPhoneIsNotConstructed = errs.NewValueIsRequiredError("Phone must be created via NewPhone")

// canonicalPhonePattern matches a Bangladeshi mobile number in canonical
// form: +880 country code followed by a 10-digit operator number.
var canonicalPhonePattern = regexp.MustCompile(`^\+8801[3-9]\d{8}$`)

// Phone is a value object holding a customer phone number in canonical form.
// Phone is the customer identity key: two orders with the same canonical
// phone belong to the same customer regardless of the name or address on
// the order.
//
// Canonicalization rules:
//   - surrounding whitespace and separator characters (spaces, dashes,
//     parentheses) are removed
//   - a leading "880" or a bare local "01..." form is normalized to the
//     "+880" international form
//
// The zero value is invalid; use NewPhone.
type Phone struct {
	value         string
	isConstructed bool
}

// NewPhone canonicalizes and validates a raw phone number.
// Accepted input forms for the number 01711223344:
//
//	"01711223344", "8801711223344", "+8801711223344", "+880 1711-223344"
//
// Returns a validation error when the canonicalized value is not a valid
// mobile number.
func NewPhone(raw string) (Phone, error) {
	canonical := canonicalize(raw)
	if !canonicalPhonePattern.MatchString(canonical) {
		return Phone{}, errs.NewValueIsInvalidErrorWithCause("phone",
			fmt.Errorf("%q is not a valid mobile number", raw))
	}
	return Phone{value: canonical, isConstructed: true}, nil
}

func canonicalize(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '\t':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	switch {
	case strings.HasPrefix(cleaned, "+880"):
		return cleaned
	case strings.HasPrefix(cleaned, "880"):
		return "+" + cleaned
	case strings.HasPrefix(cleaned, "01"):
		return "+88" + cleaned
	default:
		return cleaned
	}
}

// Validate ensures the Phone was created via NewPhone.
func (p Phone) Validate() error {
	if !p.isConstructed {
		return ErrPhoneIsNotConstructed
	}
	return nil
}

// String returns the canonical phone number.
func (p Phone) String() string {
	return p.value
}

// IsEqual compares two phone numbers by canonical value.
func (p Phone) IsEqual(other Phone) bool {
	return p.value == other.value
}
