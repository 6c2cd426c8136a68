package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// CalcomClient implements CalendarService against the Cal.com v1 REST API.
type CalcomClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewCalcomClient builds a client with a bounded request timeout. All calls
// also honour the caller's context deadline.
func NewCalcomClient(baseURL, apiKey string, logger *zap.Logger) *CalcomClient {
	return &CalcomClient{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Logger:     logger,
	}
}

type slotsResponse struct {
	Slots map[string][]struct {
		Time time.Time `json:"time"`
	} `json:"slots"`
}

// GetAvailableSlots returns the start times of the provider's free slots in
// the window, sorted as the service returns them. An empty result is success.
func (c *CalcomClient) GetAvailableSlots(ctx context.Context, query SlotQuery) ([]time.Time, error) {
	q := url.Values{}
	q.Set("apiKey", c.APIKey)
	q.Set("eventTypeId", fmt.Sprintf("%d", query.EventTypeID))
	q.Set("startTime", query.StartTime.Format(time.RFC3339))
	q.Set("endTime", query.EndTime.Format(time.RFC3339))
	q.Set("timeZone", query.TimeZone)

	endpoint := fmt.Sprintf("%s/slots?%s", c.BaseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build slots request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("slots request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("slots request returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed slotsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode slots response: %w", err)
	}

	var slots []time.Time
	for _, daySlots := range parsed.Slots {
		for _, s := range daySlots {
			slots = append(slots, s.Time)
		}
	}
	return slots, nil
}

type createBookingPayload struct {
	EventTypeID int               `json:"eventTypeId"`
	Start       string            `json:"start"`
	End         string            `json:"end"`
	Responses   Attendee          `json:"responses"`
	TimeZone    string            `json:"timeZone"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// CreateBooking creates the external calendar booking and returns its ids.
func (c *CalcomClient) CreateBooking(ctx context.Context, req CreateBookingRequest) (*ExternalBooking, error) {
	payload := createBookingPayload{
		EventTypeID: req.EventTypeID,
		Start:       req.Start.Format(time.RFC3339),
		End:         req.End.Format(time.RFC3339),
		Responses:   req.Attendee,
		TimeZone:    req.Attendee.TimeZone,
		Metadata:    req.Metadata,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal booking payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bookings?apiKey=%s", c.BaseURL, url.QueryEscape(c.APIKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build booking request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("booking request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("booking request returned %d: %s", resp.StatusCode, string(respBody))
	}

	var booking ExternalBooking
	if err := json.NewDecoder(resp.Body).Decode(&booking); err != nil {
		return nil, fmt.Errorf("failed to decode booking response: %w", err)
	}
	if booking.UID == "" {
		return nil, fmt.Errorf("booking response missing uid")
	}
	return &booking, nil
}

// CancelBooking cancels an external booking by uid.
func (c *CalcomClient) CancelBooking(ctx context.Context, uid, reason string) error {
	payload, err := json.Marshal(map[string]string{"cancellationReason": reason})
	if err != nil {
		return fmt.Errorf("failed to marshal cancel payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bookings/%s/cancel?apiKey=%s", c.BaseURL, url.PathEscape(uid), url.QueryEscape(c.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build cancel request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("cancel request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("cancel request returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
