package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const messagePrefix = "New review added: "

type Deliverer interface {
	Deliver(ctx context.Context, bookTitle, reviewText string) error
}

type webhookPayload struct {
	BookTitle string `json:"book_title"`
	Message   string `json:"message"`
}

type Webhook struct {
	URL    string
	Client *http.Client
}

func NewWebhook(url string, timeout time.Duration) *Webhook {
	return &Webhook{URL: url, Client: &http.Client{Timeout: timeout}}
}

func (w *Webhook) Deliver(ctx context.Context, bookTitle, reviewText string) error {
	body, err := json.Marshal(webhookPayload{BookTitle: bookTitle, Message: messagePrefix + reviewText})
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrWebhookDelivery, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookDelivery, err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookDelivery, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrWebhookDelivery, resp.StatusCode)
	}
	return nil
}
