package couriers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const (
	pathaoName        = "Pathao"
	pathaoDefaultBase = "https://api-hermes.pathao.com"
	pathaoTokenPath   = "/aladdin/api/v3/issue-token"
	pathaoOrdersPath  = "/aladdin/api/v3/orders"
)

// pathaoStatuses is Pathao's status vocabulary mapped onto the courier
// lifecycle. Several distinct Pathao states collapse into one lifecycle
// state; the state machine's monotonic rule makes repeats harmless.
var pathaoStatuses = map[string]courier.Status{
	"Pickup_Requested":    courier.Requested,
	"Assigned_for_Pickup": courier.Requested,
	"Picked":              courier.PickedUp,
	"In_Transit":          courier.InTransit,
	"At_the_Sorting_Hub":  courier.InTransit,
	"Delivered":           courier.Delivered,
	"Return":              courier.Returned,
	"Returned":            courier.Returned,
}

// PathaoAdapter implements the courier adapter port against Pathao's
// merchant API. Pathao uses a password-grant OAuth token; the adapter issues
// a fresh token per call rather than caching one, trading a round trip for
// never holding a stale credential.
type PathaoAdapter struct {
	config ports.ConfigStore
	http   *http.Client
	logger *slog.Logger
}

// NewPathaoAdapter creates a Pathao courier adapter.
func NewPathaoAdapter(config ports.ConfigStore, logger *slog.Logger) *PathaoAdapter {
	return &PathaoAdapter{
		config: config,
		http:   &http.Client{Timeout: requestTimeout},
		logger: logger.With("component", "pathao"),
	}
}

// Provider identifies the network this adapter talks to.
func (a *PathaoAdapter) Provider() courier.Provider {
	return courier.Pathao
}

// Book registers the parcel with Pathao and returns the consignment id.
func (a *PathaoAdapter) Book(ctx context.Context, o *order.Order) (string, error) {
	creds, base, err := a.credentials(ctx)
	if err != nil {
		return "", err
	}

	token, err := a.issueToken(ctx, creds, base)
	if err != nil {
		return "", err
	}

	cust := o.Customer()
	payload := map[string]any{
		"store_id":          creds.Fields["store_id"],
		"merchant_order_id": o.ID(),
		"recipient_name":    cust.Name(),
		"recipient_phone":   cust.Phone().String(),
		"recipient_address": cust.Address(),
		"recipient_city":    cust.City(),
		"amount_to_collect": o.TotalAmount(),
		"item_description":  strings.Join(o.LineItems(), ", "),
		"item_quantity":     len(o.LineItems()),
	}

	var response struct {
		Data struct {
			ConsignmentID string `json:"consignment_id"`
		} `json:"data"`
	}
	if err = a.post(ctx, base+pathaoOrdersPath, token, payload, &response, "book"); err != nil {
		return "", err
	}
	if response.Data.ConsignmentID == "" {
		return "", errs.NewAdapterError(pathaoName, "book",
			fmt.Errorf("response carried no consignment id"))
	}

	a.logger.InfoContext(ctx, "Parcel booked",
		"order_id", o.ID(), "consignment_id", response.Data.ConsignmentID)
	return response.Data.ConsignmentID, nil
}

// Track polls Pathao for the current status of a consignment.
func (a *PathaoAdapter) Track(ctx context.Context, trackingID string) (courier.StatusEvent, error) {
	creds, base, err := a.credentials(ctx)
	if err != nil {
		return courier.StatusEvent{}, err
	}

	token, err := a.issueToken(ctx, creds, base)
	if err != nil {
		return courier.StatusEvent{}, err
	}

	endpoint := fmt.Sprintf("%s%s/%s/info", base, pathaoOrdersPath, trackingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return courier.StatusEvent{}, errs.NewAdapterError(pathaoName, "track", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.http.Do(req)
	if err != nil {
		return courier.StatusEvent{}, errs.NewAdapterError(pathaoName, "track", err)
	}
	defer resp.Body.Close()

	var response struct {
		Data struct {
			OrderStatus string `json:"order_status"`
			UpdatedAt   string `json:"updated_at"`
		} `json:"data"`
	}
	if err = decodeResponse(pathaoName, "track", resp, &response); err != nil {
		return courier.StatusEvent{}, err
	}

	return pathaoEvent(trackingID, response.Data.OrderStatus, response.Data.UpdatedAt, "", "")
}

// ParseStatusEvent decodes a Pathao webhook payload.
func (a *PathaoAdapter) ParseStatusEvent(payload []byte) (courier.StatusEvent, error) {
	var hook struct {
		ConsignmentID string `json:"consignment_id"`
		OrderStatus   string `json:"order_status"`
		UpdatedAt     string `json:"updated_at"`
		RiderName     string `json:"rider_name"`
		RiderPhone    string `json:"rider_phone"`
	}
	if err := json.Unmarshal(payload, &hook); err != nil {
		return courier.StatusEvent{}, errs.NewValueIsInvalidErrorWithCause("pathao webhook payload", err)
	}

	return pathaoEvent(hook.ConsignmentID, hook.OrderStatus, hook.UpdatedAt, hook.RiderName, hook.RiderPhone)
}

func pathaoEvent(trackingID, rawStatus, updatedAt, riderName, riderPhone string) (courier.StatusEvent, error) {
	status, err := mapStatus(pathaoName, rawStatus, pathaoStatuses)
	if err != nil {
		return courier.StatusEvent{}, err
	}

	occurred, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		occurred = time.Now()
	}

	return courier.StatusEvent{
		Target:     status,
		TrackingID: trackingID,
		RiderName:  riderName,
		RiderPhone: riderPhone,
		OccurredAt: occurred,
	}, nil
}

func (a *PathaoAdapter) credentials(ctx context.Context) (ports.CourierCredentials, string, error) {
	creds, err := a.config.CourierCredentials(ctx, courier.Pathao)
	if err != nil {
		return ports.CourierCredentials{}, "", errs.NewAdapterError(pathaoName, "load_credentials", err)
	}
	if !creds.Connected {
		return ports.CourierCredentials{}, "", errs.NewAdapterError(pathaoName, "load_credentials",
			fmt.Errorf("provider is not connected"))
	}

	base := creds.Fields["base_url"]
	if base == "" {
		base = pathaoDefaultBase
	}
	return creds, base, nil
}

func (a *PathaoAdapter) issueToken(ctx context.Context, creds ports.CourierCredentials, base string) (string, error) {
	payload := map[string]any{
		"client_id":     creds.Fields["client_id"],
		"client_secret": creds.Fields["client_secret"],
		"username":      creds.Fields["username"],
		"password":      creds.Fields["password"],
		"grant_type":    "password",
	}

	var response struct {
		AccessToken string `json:"access_token"`
	}
	if err := a.post(ctx, base+pathaoTokenPath, "", payload, &response, "issue_token"); err != nil {
		return "", err
	}
	if response.AccessToken == "" {
		return "", errs.NewAdapterError(pathaoName, "issue_token",
			fmt.Errorf("response carried no access token"))
	}
	return response.AccessToken, nil
}

func (a *PathaoAdapter) post(
	ctx context.Context, endpoint, token string, payload any, out any, operation string,
) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errs.NewAdapterError(pathaoName, operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return errs.NewAdapterError(pathaoName, operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return errs.NewAdapterError(pathaoName, operation, err)
	}
	defer resp.Body.Close()

	return decodeResponse(pathaoName, operation, resp, out)
}
