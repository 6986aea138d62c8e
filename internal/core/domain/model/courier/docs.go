// Package courier models the courier side of an order: the provider network
// the shipment was handed to, the tracking identifier, and the delivery
// status lifecycle.
//
// The status lifecycle is:
//
//	NotAssigned ──> Requested ──> PickedUp ──> InTransit ──┬──> Delivered
//	                    │             │            │       │
//	                    └─────────────┴────────────┴───────┴──> Returned
//
// Delivered and Returned are terminal. A Returned event is accepted from any
// pre-terminal assigned state because courier networks report pickup failures
// and returns at any stage. Courier networks also redeliver webhooks and
// polls may skip intermediate states, so event application is monotonic:
// forward moves are applied, duplicates and backward moves are no-ops.
package courier
