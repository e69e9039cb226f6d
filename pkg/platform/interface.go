// Package platform defines the channel capabilities the dispatcher works
// against and the ordered registry of known channels.
package platform

import (
	"context"
	"strings"

	"github.com/kart-io/pling/pkg/transport"
)

// Kind names a channel. It doubles as the variant tag in serialized
// notifier documents.
type Kind string

const (
	Command  Kind = "Command"
	Desktop  Kind = "Desktop"
	Email    Kind = "Email"
	Matrix   Kind = "Matrix"
	Slack    Kind = "Slack"
	Telegram Kind = "Telegram"
	Webhook  Kind = "Webhook"
)

func (k Kind) String() string { return string(k) }

// Name is the lower-case form used in logs, metrics and error platforms.
func (k Kind) Name() string { return strings.ToLower(string(k)) }

// Channel is one configured notification backend.
type Channel interface {
	Kind() Kind
	// Validate checks explicitly supplied configuration.
	Validate() error
}

// HTTPChannel builds a request for the transport. It performs no I/O itself,
// so the same channel works with blocking and awaitable transports.
type HTTPChannel interface {
	Channel
	BuildRequest(text string) (*transport.Request, error)
}

// LocalChannel delivers without an HTTP transport (process, SMTP relay,
// desktop). Delivery always runs on the caller's goroutine.
type LocalChannel interface {
	Channel
	Deliver(ctx context.Context, text string) error
}
