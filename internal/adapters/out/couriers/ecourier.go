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
	ecourierName        = "eCourier"
	ecourierDefaultBase = "https://backoffice.ecourier.com.bd/api"
)

var ecourierStatuses = map[string]courier.Status{
	"Initiated":       courier.Requested,
	"Pickup Assigned": courier.Requested,
	"Picked":          courier.PickedUp,
	"In Transit":      courier.InTransit,
	"Out For Delivery": courier.InTransit,
	"Delivered":       courier.Delivered,
	"Return":          courier.Returned,
	"Returned":        courier.Returned,
}

// ECourierAdapter implements the courier adapter port against eCourier,
// which authenticates with an API-KEY/API-SECRET/USER-ID header triple.
type ECourierAdapter struct {
	config ports.ConfigStore
	http   *http.Client
	logger *slog.Logger
}

// NewECourierAdapter creates an eCourier adapter.
func NewECourierAdapter(config ports.ConfigStore, logger *slog.Logger) *ECourierAdapter {
	return &ECourierAdapter{
		config: config,
		http:   &http.Client{Timeout: requestTimeout},
		logger: logger.With("component", "ecourier"),
	}
}

// Provider identifies the network this adapter talks to.
func (a *ECourierAdapter) Provider() courier.Provider {
	return courier.ECourier
}

// Book registers the parcel with eCourier and returns the tracking id.
func (a *ECourierAdapter) Book(ctx context.Context, o *order.Order) (string, error) {
	creds, base, err := a.credentials(ctx)
	if err != nil {
		return "", err
	}

	cust := o.Customer()
	payload := map[string]any{
		"ep_name":           creds.Fields["pickup_point"],
		"recipient_name":    cust.Name(),
		"recipient_mobile":  cust.Phone().String(),
		"recipient_city":    cust.City(),
		"recipient_address": cust.Address(),
		"package_code":      "#2",
		"product_price":     fmt.Sprintf("%.2f", o.TotalAmount()),
		"payment_method":    "COD",
		"parcel_detail":     strings.Join(o.LineItems(), ", "),
		"number_of_item":    len(o.LineItems()),
	}

	var response struct {
		Success bool   `json:"success"`
		ID      string `json:"ID"`
	}
	if err = a.request(ctx, creds, base+"/order-place", payload, &response, "book"); err != nil {
		return "", err
	}
	if !response.Success || response.ID == "" {
		return "", errs.NewAdapterError(ecourierName, "book",
			fmt.Errorf("booking was not accepted"))
	}

	a.logger.InfoContext(ctx, "Parcel booked", "order_id", o.ID(), "tracking_id", response.ID)
	return response.ID, nil
}

// Track polls eCourier for the current parcel status.
func (a *ECourierAdapter) Track(ctx context.Context, trackingID string) (courier.StatusEvent, error) {
	creds, base, err := a.credentials(ctx)
	if err != nil {
		return courier.StatusEvent{}, err
	}

	payload := map[string]any{"ecr": trackingID}
	var response struct {
		Status string `json:"status"`
		Time   string `json:"time"`
	}
	if err = a.request(ctx, creds, base+"/track", payload, &response, "track"); err != nil {
		return courier.StatusEvent{}, err
	}

	return ecourierEvent(trackingID, response.Status, response.Time, "", "")
}

// ParseStatusEvent decodes an eCourier webhook payload.
func (a *ECourierAdapter) ParseStatusEvent(payload []byte) (courier.StatusEvent, error) {
	var hook struct {
		ECR        string `json:"ecr"`
		Status     string `json:"status"`
		Time       string `json:"time"`
		RiderName  string `json:"rider_name"`
		RiderPhone string `json:"rider_mobile"`
	}
	if err := json.Unmarshal(payload, &hook); err != nil {
		return courier.StatusEvent{}, errs.NewValueIsInvalidErrorWithCause("ecourier webhook payload", err)
	}

	return ecourierEvent(hook.ECR, hook.Status, hook.Time, hook.RiderName, hook.RiderPhone)
}

func ecourierEvent(trackingID, rawStatus, updatedAt, riderName, riderPhone string) (courier.StatusEvent, error) {
	status, err := mapStatus(ecourierName, rawStatus, ecourierStatuses)
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

func (a *ECourierAdapter) credentials(ctx context.Context) (ports.CourierCredentials, string, error) {
	creds, err := a.config.CourierCredentials(ctx, courier.ECourier)
	if err != nil {
		return ports.CourierCredentials{}, "", errs.NewAdapterError(ecourierName, "load_credentials", err)
	}
	if !creds.Connected {
		return ports.CourierCredentials{}, "", errs.NewAdapterError(ecourierName, "load_credentials",
			fmt.Errorf("provider is not connected"))
	}

	base := creds.Fields["base_url"]
	if base == "" {
		base = ecourierDefaultBase
	}
	return creds, base, nil
}

func (a *ECourierAdapter) request(
	ctx context.Context,
	creds ports.CourierCredentials,
	endpoint string,
	payload any,
	out any,
	operation string,
) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return errs.NewAdapterError(ecourierName, operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return errs.NewAdapterError(ecourierName, operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("API-KEY", creds.Fields["api_key"])
	req.Header.Set("API-SECRET", creds.Fields["api_secret"])
	req.Header.Set("USER-ID", creds.Fields["user_id"])

	resp, err := a.http.Do(req)
	if err != nil {
		return errs.NewAdapterError(ecourierName, operation, err)
	}
	defer resp.Body.Close()

	return decodeResponse(ecourierName, operation, resp, out)
}
