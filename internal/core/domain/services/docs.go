// Package services contains stateless domain services.
//
// RiskScorer classifies a customer's historical likelihood of accepting
// delivery. It is invoked on demand before a courier is assigned, so an
// operator can see that a customer returns most parcels before paying for a
// booking. The scoring function is the stable contract; where the history
// comes from (local aggregation over the order store or a courier-network
// feed) is a port and swappable.
package services
