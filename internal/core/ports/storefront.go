package ports

import (
	"context"
)

// OrderSnapshot is one raw order record as fetched from the storefront.
// Fields are deliberately untyped strings: parsing and validation happen
// per record during reconciliation, so one malformed record is skipped and
// reported instead of failing the batch.
type OrderSnapshot struct {
	ID              string
	Date            string
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	CustomerCity    string
	TotalAmount     string
	Items           []string
	Status          string
}

// StorefrontClient pulls order batches from the external storefront. The
// adapter decides the fetch window (full or incremental); the reconciliation
// engine treats the result as a set of (id, snapshot) pairs.
type StorefrontClient interface {
	// FetchOrders retrieves the current order batch. An empty batch is not
	// an error; network or auth failures return an AdapterError.
	FetchOrders(ctx context.Context) ([]OrderSnapshot, error)
}
