// Package woocommerce implements the storefront port against the WooCommerce
// REST API (v3). The client pulls paged order batches and flattens them into
// raw snapshots; all parsing and validation happens later, per record, inside
// the reconciliation engine.
package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const (
	adapterName = "WooCommerce"
	ordersPath  = "/wp-json/wc/v3/orders"

	// perPage is the WooCommerce maximum page size.
	perPage = 100

	// maxPages caps a single fetch so a misbehaving store cannot make one
	// sync pass run forever.
	maxPages = 50

	requestTimeout = 30 * time.Second
)

// statusSlugs maps WooCommerce status slugs to the dashboard's storefront
// status names. On-hold orders surface as Pending; refunded and failed
// collapse into Cancelled.
var statusSlugs = map[string]string{
	"pending":    "Pending",
	"on-hold":    "Pending",
	"processing": "Processing",
	"completed":  "Completed",
	"cancelled":  "Cancelled",
	"refunded":   "Cancelled",
	"failed":     "Cancelled",
}

// wooOrder is the wire shape of one WooCommerce order, reduced to the
// fields the dashboard consumes.
type wooOrder struct {
	Number      string `json:"number"`
	DateCreated string `json:"date_created"`
	Status      string `json:"status"`
	Total       string `json:"total"`
	Billing     struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
		Address1  string `json:"address_1"`
		City      string `json:"city"`
	} `json:"billing"`
	LineItems []struct {
		Name string `json:"name"`
	} `json:"line_items"`
}

// Client implements ports.StorefrontClient against a WooCommerce store.
// Credentials are read from the config store on every fetch, so a key
// rotation takes effect on the next sync without a restart.
type Client struct {
	config ports.ConfigStore
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a WooCommerce storefront client.
func NewClient(config ports.ConfigStore, logger *slog.Logger) *Client {
	return &Client{
		config: config,
		http:   &http.Client{Timeout: requestTimeout},
		logger: logger.With("component", "woocommerce"),
	}
}

// FetchOrders retrieves the current order batch, walking the paged listing
// until a short page. Returns an AdapterError on connection, auth, or
// decoding failures.
func (c *Client) FetchOrders(ctx context.Context) ([]ports.OrderSnapshot, error) {
	creds, err := c.config.StoreCredentials(ctx)
	if err != nil {
		return nil, errs.NewAdapterError(adapterName, "load_credentials", err)
	}
	if !creds.IsConnected {
		return nil, errs.NewAdapterError(adapterName, "fetch_orders",
			fmt.Errorf("store %q is not connected", creds.URL))
	}

	snapshots := make([]ports.OrderSnapshot, 0)
	for page := 1; page <= maxPages; page++ {
		batch, err := c.fetchPage(ctx, creds, page)
		if err != nil {
			return nil, err
		}

		for _, wo := range batch {
			snapshots = append(snapshots, toSnapshot(wo))
		}

		if len(batch) < perPage {
			break
		}
	}

	c.logger.InfoContext(ctx, "Fetched storefront orders", "count", len(snapshots))
	return snapshots, nil
}

func (c *Client) fetchPage(ctx context.Context, creds ports.StoreCredentials, page int) ([]wooOrder, error) {
	endpoint, err := url.JoinPath(creds.URL, ordersPath)
	if err != nil {
		return nil, errs.NewAdapterError(adapterName, "build_url", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errs.NewAdapterError(adapterName, "build_request", err)
	}

	query := req.URL.Query()
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("page", strconv.Itoa(page))
	query.Set("orderby", "date")
	query.Set("order", "desc")
	req.URL.RawQuery = query.Encode()
	req.SetBasicAuth(creds.ConsumerKey, creds.ConsumerSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.NewAdapterError(adapterName, "fetch_orders", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.NewAdapterError(adapterName, "fetch_orders",
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	var batch []wooOrder
	if err = json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, errs.NewAdapterError(adapterName, "decode_orders", err)
	}

	return batch, nil
}

// toSnapshot flattens one wire order into a raw snapshot. No validation
// happens here; a snapshot with a bad phone or date is the reconciliation
// engine's per-record problem.
func toSnapshot(wo wooOrder) ports.OrderSnapshot {
	items := make([]string, 0, len(wo.LineItems))
	for _, item := range wo.LineItems {
		items = append(items, item.Name)
	}

	status, ok := statusSlugs[wo.Status]
	if !ok {
		// Unknown slugs pass through raw so the skip report names them.
		status = wo.Status
	}

	date := wo.DateCreated
	if len(date) >= 10 {
		date = date[:10]
	}

	return ports.OrderSnapshot{
		ID:              "#" + wo.Number,
		Date:            date,
		CustomerName:    strings.TrimSpace(wo.Billing.FirstName + " " + wo.Billing.LastName),
		CustomerPhone:   wo.Billing.Phone,
		CustomerAddress: wo.Billing.Address1,
		CustomerCity:    wo.Billing.City,
		TotalAmount:     wo.Total,
		Items:           items,
		Status:          status,
	}
}
