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
	steadfastName        = "Steadfast"
	steadfastDefaultBase = "https://portal.packzy.com/api/v1"
)

var steadfastStatuses = map[string]courier.Status{
	"pending":                    courier.Requested,
	"picked_up":                  courier.PickedUp,
	"in_review":                  courier.PickedUp,
	"delivered_approval_pending": courier.InTransit,
	"delivered":                  courier.Delivered,
	"partial_delivered":          courier.Delivered,
	"cancelled":                  courier.Returned,
	"returned":                   courier.Returned,
}

// SteadfastAdapter implements the courier adapter port against Steadfast,
// which authenticates every call with an api-key/secret-key header pair.
type SteadfastAdapter struct {
	config ports.ConfigStore
	http   *http.Client
	logger *slog.Logger
}

// NewSteadfastAdapter creates a Steadfast courier adapter.
func NewSteadfastAdapter(config ports.ConfigStore, logger *slog.Logger) *SteadfastAdapter {
	return &SteadfastAdapter{
		config: config,
		http:   &http.Client{Timeout: requestTimeout},
		logger: logger.With("component", "steadfast"),
	}
}

// Provider identifies the network this adapter talks to.
func (a *SteadfastAdapter) Provider() courier.Provider {
	return courier.Steadfast
}

// Book registers the parcel with Steadfast and returns the consignment id.
func (a *SteadfastAdapter) Book(ctx context.Context, o *order.Order) (string, error) {
	creds, base, err := a.credentials(ctx)
	if err != nil {
		return "", err
	}

	cust := o.Customer()
	payload := map[string]any{
		"invoice":           o.ID(),
		"recipient_name":    cust.Name(),
		"recipient_phone":   cust.Phone().String(),
		"recipient_address": cust.Address(),
		"cod_amount":        o.TotalAmount(),
		"note":              strings.Join(o.LineItems(), ", "),
	}

	var response struct {
		Consignment struct {
			ConsignmentID json.Number `json:"consignment_id"`
		} `json:"consignment"`
	}
	if err = a.request(ctx, creds, http.MethodPost, base+"/create_order", payload, &response, "book"); err != nil {
		return "", err
	}
	if response.Consignment.ConsignmentID == "" {
		return "", errs.NewAdapterError(steadfastName, "book",
			fmt.Errorf("response carried no consignment id"))
	}

	trackingID := response.Consignment.ConsignmentID.String()
	a.logger.InfoContext(ctx, "Parcel booked", "order_id", o.ID(), "consignment_id", trackingID)
	return trackingID, nil
}

// Track polls Steadfast for the delivery status of a consignment.
func (a *SteadfastAdapter) Track(ctx context.Context, trackingID string) (courier.StatusEvent, error) {
	creds, base, err := a.credentials(ctx)
	if err != nil {
		return courier.StatusEvent{}, err
	}

	var response struct {
		DeliveryStatus string `json:"delivery_status"`
	}
	endpoint := fmt.Sprintf("%s/status_by_cid/%s", base, trackingID)
	if err = a.request(ctx, creds, http.MethodGet, endpoint, nil, &response, "track"); err != nil {
		return courier.StatusEvent{}, err
	}

	return steadfastEvent(trackingID, response.DeliveryStatus, "", "", "")
}

// ParseStatusEvent decodes a Steadfast webhook payload.
func (a *SteadfastAdapter) ParseStatusEvent(payload []byte) (courier.StatusEvent, error) {
	var hook struct {
		ConsignmentID json.Number `json:"consignment_id"`
		Status        string      `json:"status"`
		UpdatedAt     string      `json:"updated_at"`
		RiderName     string      `json:"rider_name"`
		RiderPhone    string      `json:"rider_phone"`
	}
	if err := json.Unmarshal(payload, &hook); err != nil {
		return courier.StatusEvent{}, errs.NewValueIsInvalidErrorWithCause("steadfast webhook payload", err)
	}

	return steadfastEvent(hook.ConsignmentID.String(), hook.Status, hook.UpdatedAt, hook.RiderName, hook.RiderPhone)
}

func steadfastEvent(trackingID, rawStatus, updatedAt, riderName, riderPhone string) (courier.StatusEvent, error) {
	status, err := mapStatus(steadfastName, rawStatus, steadfastStatuses)
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

func (a *SteadfastAdapter) credentials(ctx context.Context) (ports.CourierCredentials, string, error) {
	creds, err := a.config.CourierCredentials(ctx, courier.Steadfast)
	if err != nil {
		return ports.CourierCredentials{}, "", errs.NewAdapterError(steadfastName, "load_credentials", err)
	}
	if !creds.Connected {
		return ports.CourierCredentials{}, "", errs.NewAdapterError(steadfastName, "load_credentials",
			fmt.Errorf("provider is not connected"))
	}

	base := creds.Fields["base_url"]
	if base == "" {
		base = steadfastDefaultBase
	}
	return creds, base, nil
}

func (a *SteadfastAdapter) request(
	ctx context.Context,
	creds ports.CourierCredentials,
	method, endpoint string,
	payload any,
	out any,
	operation string,
) error {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return errs.NewAdapterError(steadfastName, operation, err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errs.NewAdapterError(steadfastName, operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", creds.Fields["api_key"])
	req.Header.Set("Secret-Key", creds.Fields["secret_key"])

	resp, err := a.http.Do(req)
	if err != nil {
		return errs.NewAdapterError(steadfastName, operation, err)
	}
	defer resp.Body.Close()

	return decodeResponse(steadfastName, operation, resp, out)
}
