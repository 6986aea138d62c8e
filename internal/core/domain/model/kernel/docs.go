// Package kernel contains shared value objects used across the domain model.
//
// The package currently provides Phone, the canonicalized phone number that
// serves as the customer identity key. Orders from the same phone number are
// treated as the same customer even when the name or address differs between
// orders.
package kernel
