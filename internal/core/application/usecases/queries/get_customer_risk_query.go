package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetCustomerRiskQueryIsNotConstructed = errors.New(
	"GetCustomerRiskQuery must be created via NewGetCustomerRiskQuery constructor",
)

// GetCustomerRiskQuery computes the risk profile for one customer phone
// number from their historical parcel outcomes.
//
// Example:
//
//	query, err := NewGetCustomerRiskQuery("01711223344")
//	if err != nil {
//	    return err
//	}
//	profile, err := handler.Handle(ctx, query)
type GetCustomerRiskQuery struct {
	phone kernel.Phone

	guard guard.ConstructorGuard
}

// NewGetCustomerRiskQuery creates a risk query for the given phone number.
// The raw number is canonicalized; local and international forms of the
// same number yield the same profile.
func NewGetCustomerRiskQuery(rawPhone string) (GetCustomerRiskQuery, error) {
	phone, err := kernel.NewPhone(rawPhone)
	if err != nil {
		return GetCustomerRiskQuery{}, err
	}

	return GetCustomerRiskQuery{phone: phone, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetCustomerRiskQueryIsNotConstructed if validation fails.
func (q GetCustomerRiskQuery) Validate() error {
	return q.guard.Validate(ErrGetCustomerRiskQueryIsNotConstructed)
}

// Phone returns the canonicalized phone number to score.
func (q GetCustomerRiskQuery) Phone() kernel.Phone {
	return q.phone
}
