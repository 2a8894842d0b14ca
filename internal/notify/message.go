// Package notify carries new-review notifications from request handlers to the
// external webhook through a durable queue.
package notify

import (
	"errors"
	"strings"
)

const separator = "|"

var (
	ErrMalformedMessage = errors.New("malformed notification message")
	ErrEnqueueFailed    = errors.New("failed to enqueue notification")
	ErrWebhookDelivery  = errors.New("webhook delivery failed")
	ErrQueueClosed      = errors.New("queue closed")
)

type Notification struct {
	BookUID    string
	BookTitle  string
	ReviewText string
}

// Encode renders the wire body "book_title|review_text". The separator is not
// escaped, so a title or text containing it will not decode.
func Encode(n Notification) string {
	return n.BookTitle + separator + n.ReviewText
}

func Decode(body []byte) (Notification, error) {
	parts := strings.Split(string(body), separator)
	if len(parts) != 2 {
		return Notification{}, ErrMalformedMessage
	}
	return Notification{BookTitle: parts[0], ReviewText: parts[1]}, nil
}
