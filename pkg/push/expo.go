package push

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// ExpoTransport sends push messages through the Expo push HTTP API.
type ExpoTransport struct {
	endpoint string
	client   *http.Client
}

// NewExpoTransport creates an Expo transport targeting the given endpoint.
func NewExpoTransport(endpoint string) *ExpoTransport {
	return &ExpoTransport{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type expoPushRequest struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

type expoPushResponse struct {
	Data json.RawMessage `json:"data"`
}

type expoPushTicket struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Send performs one Expo push request. It returns true only when the response
// carries an explicit per-message "ok" status, either as a single ticket object
// or as the first element of a ticket list.
func (t *ExpoTransport) Send(ctx context.Context, token string, notification NotificationData) bool {
	payload, err := json.Marshal(expoPushRequest{
		To:    token,
		Title: notification.Title,
		Body:  notification.Body,
		Data:  notification.Data,
	})
	if err != nil {
		log.Printf("[Push] Failed to encode Expo push request: %v", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		log.Printf("[Push] Failed to build Expo push request: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		log.Printf("[Push] Expo push request failed: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[Push] Expo push request failed with status %d", resp.StatusCode)
		return false
	}

	var result expoPushResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("[Push] Failed to decode Expo push response: %v", err)
		return false
	}

	// The Expo API answers with either a single ticket or a ticket per message.
	var ticket expoPushTicket
	if err := json.Unmarshal(result.Data, &ticket); err == nil {
		if ticket.Status == "ok" {
			return true
		}
		log.Printf("[Push] Expo push returned status %q: %s", ticket.Status, ticket.Message)
		return false
	}

	var tickets []expoPushTicket
	if err := json.Unmarshal(result.Data, &tickets); err == nil {
		if len(tickets) > 0 && tickets[0].Status == "ok" {
			return true
		}
		if len(tickets) > 0 {
			log.Printf("[Push] Expo push returned status %q: %s", tickets[0].Status, tickets[0].Message)
		} else {
			log.Printf("[Push] Expo push returned an empty ticket list")
		}
		return false
	}

	log.Printf("[Push] Unexpected Expo push response shape: %s", string(result.Data))
	return false
}
