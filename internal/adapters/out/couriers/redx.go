package couriers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const (
	redxName        = "RedX"
	redxDefaultBase = "https://openapi.redx.com.bd"
	redxParcelPath  = "/v1.0.0-beta/parcel"
)

var redxStatuses = map[string]courier.Status{
	"pickup-pending":       courier.Requested,
	"pickup-completed":     courier.PickedUp,
	"delivery-in-progress": courier.InTransit,
	"delivered":            courier.Delivered,
	"returned":             courier.Returned,
	"return-in-progress":   courier.Returned,
}

// RedXAdapter implements the courier adapter port against RedX's open API,
// which authenticates with a long-lived access token.
type RedXAdapter struct {
	config ports.ConfigStore
	http   *http.Client
	logger *slog.Logger
}

// NewRedXAdapter creates a RedX courier adapter.
func NewRedXAdapter(config ports.ConfigStore, logger *slog.Logger) *RedXAdapter {
	return &RedXAdapter{
		config: config,
		http:   &http.Client{Timeout: requestTimeout},
		logger: logger.With("component", "redx"),
	}
}

// Provider identifies the network this adapter talks to.
func (a *RedXAdapter) Provider() courier.Provider {
	return courier.RedX
}

// Book registers the parcel with RedX and returns the tracking id.
func (a *RedXAdapter) Book(ctx context.Context, o *order.Order) (string, error) {
	creds, base, err := a.credentials(ctx)
	if err != nil {
		return "", err
	}

	cust := o.Customer()
	payload := map[string]any{
		"customer_name":    cust.Name(),
		"customer_phone":   cust.Phone().String(),
		"delivery_area":    cust.City(),
		"customer_address": cust.Address(),
		"merchant_invoice_id": o.ID(),
		"cash_collection_amount": o.TotalAmount(),
		"parcel_weight":    500,
		"value":            o.TotalAmount(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errs.NewAdapterError(redxName, "book", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, base+redxParcelPath, bytes.NewReader(body))
	if err != nil {
		return "", errs.NewAdapterError(redxName, "book", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("API-ACCESS-TOKEN", "Bearer "+creds.Fields["access_token"])

	resp, err := a.http.Do(req)
	if err != nil {
		return "", errs.NewAdapterError(redxName, "book", err)
	}
	defer resp.Body.Close()

	var response struct {
		TrackingID string `json:"tracking_id"`
	}
	if err = decodeResponse(redxName, "book", resp, &response); err != nil {
		return "", err
	}
	if response.TrackingID == "" {
		return "", errs.NewAdapterError(redxName, "book",
			fmt.Errorf("response carried no tracking id"))
	}

	a.logger.InfoContext(ctx, "Parcel booked", "order_id", o.ID(), "tracking_id", response.TrackingID)
	return response.TrackingID, nil
}

// Track polls RedX for the latest tracking entry of a parcel.
func (a *RedXAdapter) Track(ctx context.Context, trackingID string) (courier.StatusEvent, error) {
	creds, base, err := a.credentials(ctx)
	if err != nil {
		return courier.StatusEvent{}, err
	}

	endpoint := fmt.Sprintf("%s%s/track/%s", base, redxParcelPath, trackingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return courier.StatusEvent{}, errs.NewAdapterError(redxName, "track", err)
	}
	req.Header.Set("API-ACCESS-TOKEN", "Bearer "+creds.Fields["access_token"])

	resp, err := a.http.Do(req)
	if err != nil {
		return courier.StatusEvent{}, errs.NewAdapterError(redxName, "track", err)
	}
	defer resp.Body.Close()

	var response struct {
		Tracking []struct {
			MessageEn string `json:"message_en"`
			Status    string `json:"status"`
			Time      string `json:"time"`
		} `json:"tracking"`
	}
	if err = decodeResponse(redxName, "track", resp, &response); err != nil {
		return courier.StatusEvent{}, err
	}
	if len(response.Tracking) == 0 {
		return courier.StatusEvent{}, errs.NewAdapterError(redxName, "track",
			fmt.Errorf("no tracking entries for %s", trackingID))
	}

	latest := response.Tracking[len(response.Tracking)-1]
	return redxEvent(trackingID, latest.Status, latest.Time, "", "")
}

// ParseStatusEvent decodes a RedX webhook payload.
func (a *RedXAdapter) ParseStatusEvent(payload []byte) (courier.StatusEvent, error) {
	var hook struct {
		TrackingID string `json:"tracking_id"`
		Status     string `json:"status"`
		UpdatedAt  string `json:"updated_at"`
		RiderName  string `json:"rider_name"`
		RiderPhone string `json:"rider_phone"`
	}
	if err := json.Unmarshal(payload, &hook); err != nil {
		return courier.StatusEvent{}, errs.NewValueIsInvalidErrorWithCause("redx webhook payload", err)
	}

	return redxEvent(hook.TrackingID, hook.Status, hook.UpdatedAt, hook.RiderName, hook.RiderPhone)
}

func redxEvent(trackingID, rawStatus, updatedAt, riderName, riderPhone string) (courier.StatusEvent, error) {
	status, err := mapStatus(redxName, rawStatus, redxStatuses)
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

func (a *RedXAdapter) credentials(ctx context.Context) (ports.CourierCredentials, string, error) {
	creds, err := a.config.CourierCredentials(ctx, courier.RedX)
	if err != nil {
		return ports.CourierCredentials{}, "", errs.NewAdapterError(redxName, "load_credentials", err)
	}
	if !creds.Connected {
		return ports.CourierCredentials{}, "", errs.NewAdapterError(redxName, "load_credentials",
			fmt.Errorf("provider is not connected"))
	}

	base := creds.Fields["base_url"]
	if base == "" {
		base = redxDefaultBase
	}
	return creds, base, nil
}
