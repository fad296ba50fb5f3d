// Package notifications defines the structured send-request contract used
// by engagement flows adjacent to the demo-day state machines.
package notifications

import "context"

// SendRequest describes one templated notification delivery.
type SendRequest struct {
	TemplateID string
	Recipients []string
	Payload    map[string]string
}

// Sender delivers structured notifications. Implementations must not block
// or fail the triggering operation.
type Sender interface {
	Send(ctx context.Context, request SendRequest) error
}

// NopSender discards all send requests.
type NopSender struct{}

// Send implements Sender.
func (NopSender) Send(context.Context, SendRequest) error { return nil }
