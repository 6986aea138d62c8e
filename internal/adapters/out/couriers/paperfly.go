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
	paperflyName        = "Paperfly"
	paperflyDefaultBase = "https://api.paperfly.com.bd"
)

var paperflyStatuses = map[string]courier.Status{
	"Order Placed": courier.Requested,
	"Picked":       courier.PickedUp,
	"In Transit":   courier.InTransit,
	"At Hub":       courier.InTransit,
	"Delivered":    courier.Delivered,
	"Returned":     courier.Returned,
}

// PaperflyAdapter implements the courier adapter port against Paperfly,
// which authenticates with HTTP basic auth.
type PaperflyAdapter struct {
	config ports.ConfigStore
	http   *http.Client
	logger *slog.Logger
}

// NewPaperflyAdapter creates a Paperfly courier adapter.
func NewPaperflyAdapter(config ports.ConfigStore, logger *slog.Logger) *PaperflyAdapter {
	return &PaperflyAdapter{
		config: config,
		http:   &http.Client{Timeout: requestTimeout},
		logger: logger.With("component", "paperfly"),
	}
}

// Provider identifies the network this adapter talks to.
func (a *PaperflyAdapter) Provider() courier.Provider {
	return courier.Paperfly
}

// Book registers the parcel with Paperfly and returns the tracking number.
func (a *PaperflyAdapter) Book(ctx context.Context, o *order.Order) (string, error) {
	creds, base, err := a.credentials(ctx)
	if err != nil {
		return "", err
	}

	cust := o.Customer()
	payload := map[string]any{
		"merOrderRef":      o.ID(),
		"custname":         cust.Name(),
		"custaddress":      cust.Address(),
		"customerThana":    cust.City(),
		"custPhone":        cust.Phone().String(),
		"productSizeWeight": "standard",
		"productBrief":     strings.Join(o.LineItems(), ", "),
		"max_weight":       "1",
		"deliveryOption":   "regular",
		"packagePrice":     fmt.Sprintf("%.2f", o.TotalAmount()),
	}

	var response struct {
		Success struct {
			TrackingNumber string `json:"tracking_number"`
		} `json:"success"`
	}
	if err = a.request(ctx, creds, http.MethodPost, base+"/merchant/api/react/order/new_order.php",
		payload, &response, "book"); err != nil {
		return "", err
	}
	if response.Success.TrackingNumber == "" {
		return "", errs.NewAdapterError(paperflyName, "book",
			fmt.Errorf("response carried no tracking number"))
	}

	a.logger.InfoContext(ctx, "Parcel booked",
		"order_id", o.ID(), "tracking_number", response.Success.TrackingNumber)
	return response.Success.TrackingNumber, nil
}

// Track polls Paperfly for the current parcel state.
func (a *PaperflyAdapter) Track(ctx context.Context, trackingID string) (courier.StatusEvent, error) {
	creds, base, err := a.credentials(ctx)
	if err != nil {
		return courier.StatusEvent{}, err
	}

	payload := map[string]any{"ReferenceNumber": trackingID}
	var response struct {
		TrackingStatus string `json:"TrackingStatus"`
		UpdatedAt      string `json:"UpdatedAt"`
	}
	if err = a.request(ctx, creds, http.MethodPost, base+"/merchant/api/react/order/tracking.php",
		payload, &response, "track"); err != nil {
		return courier.StatusEvent{}, err
	}

	return paperflyEvent(trackingID, response.TrackingStatus, response.UpdatedAt, "", "")
}

// ParseStatusEvent decodes a Paperfly webhook payload.
func (a *PaperflyAdapter) ParseStatusEvent(payload []byte) (courier.StatusEvent, error) {
	var hook struct {
		TrackingNumber string `json:"tracking_number"`
		Status         string `json:"status"`
		UpdatedAt      string `json:"updated_at"`
		RiderName      string `json:"rider_name"`
		RiderPhone     string `json:"rider_phone"`
	}
	if err := json.Unmarshal(payload, &hook); err != nil {
		return courier.StatusEvent{}, errs.NewValueIsInvalidErrorWithCause("paperfly webhook payload", err)
	}

	return paperflyEvent(hook.TrackingNumber, hook.Status, hook.UpdatedAt, hook.RiderName, hook.RiderPhone)
}

func paperflyEvent(trackingID, rawStatus, updatedAt, riderName, riderPhone string) (courier.StatusEvent, error) {
	status, err := mapStatus(paperflyName, rawStatus, paperflyStatuses)
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

func (a *PaperflyAdapter) credentials(ctx context.Context) (ports.CourierCredentials, string, error) {
	creds, err := a.config.CourierCredentials(ctx, courier.Paperfly)
	if err != nil {
		return ports.CourierCredentials{}, "", errs.NewAdapterError(paperflyName, "load_credentials", err)
	}
	if !creds.Connected {
		return ports.CourierCredentials{}, "", errs.NewAdapterError(paperflyName, "load_credentials",
			fmt.Errorf("provider is not connected"))
	}

	base := creds.Fields["base_url"]
	if base == "" {
		base = paperflyDefaultBase
	}
	return creds, base, nil
}

func (a *PaperflyAdapter) request(
	ctx context.Context,
	creds ports.CourierCredentials,
	method, endpoint string,
	payload any,
	out any,
	operation string,
) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return errs.NewAdapterError(paperflyName, operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(raw))
	if err != nil {
		return errs.NewAdapterError(paperflyName, operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(creds.Fields["username"], creds.Fields["password"])

	resp, err := a.http.Do(req)
	if err != nil {
		return errs.NewAdapterError(paperflyName, operation, err)
	}
	defer resp.Body.Close()

	return decodeResponse(paperflyName, operation, resp, out)
}
