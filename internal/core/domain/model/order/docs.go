// Package order contains the Order aggregate, the single source of truth for
// one purchase transaction imported from the storefront.
//
// The aggregate has two writers with disjoint field ownership. The
// storefront owns date, total, line items, customer details, and the order
// status; those fields are refreshed on every sync through MergeStorefront.
// The courier side owns the embedded assignment; it changes only through
// AssignCourier and ApplyCourierEvent. Merging a re-synced snapshot never
// touches courier fields, and courier events never touch storefront fields,
// with one exception: a Returned event implies the order was cancelled.
//
// Orders are never deleted: cancellation is a status value, not removal.
package order
