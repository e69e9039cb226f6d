// Package notifier is the closed set of configured channels and the
// dispatcher that sends text through them.
package notifier

import (
	"context"

	"github.com/kart-io/pling/pkg/environ"
	"github.com/kart-io/pling/pkg/logger"
	"github.com/kart-io/pling/pkg/platform"
	"github.com/kart-io/pling/pkg/platforms/command"
	"github.com/kart-io/pling/pkg/platforms/desktop"
	"github.com/kart-io/pling/pkg/platforms/email"
	"github.com/kart-io/pling/pkg/platforms/matrix"
	"github.com/kart-io/pling/pkg/platforms/slack"
	"github.com/kart-io/pling/pkg/platforms/telegram"
	"github.com/kart-io/pling/pkg/platforms/webhook"
	"github.com/kart-io/pling/pkg/transport"
)

// Notifier holds exactly one channel configuration.
type Notifier struct {
	channel platform.Channel
}

// New wraps ch.
func New(ch platform.Channel) Notifier {
	return Notifier{channel: ch}
}

// Kind returns the variant tag, or "" for the zero Notifier.
func (n Notifier) Kind() platform.Kind {
	if n.channel == nil {
		return ""
	}
	return n.channel.Kind()
}

// Channel returns the wrapped configuration.
func (n Notifier) Channel() platform.Channel { return n.channel }

func (n Notifier) String() string { return n.Kind().String() }

// Command returns the Command configuration if n is a Command.
func (n Notifier) Command() (*command.Command, bool) {
	c, ok := n.channel.(*command.Command)
	return c, ok
}

// Desktop returns the Desktop configuration if n is a Desktop.
func (n Notifier) Desktop() (*desktop.Desktop, bool) {
	d, ok := n.channel.(*desktop.Desktop)
	return d, ok
}

// Email returns the Email configuration if n is an Email.
func (n Notifier) Email() (*email.Email, bool) {
	e, ok := n.channel.(*email.Email)
	return e, ok
}

// Matrix returns the Matrix configuration if n is a Matrix.
func (n Notifier) Matrix() (*matrix.Matrix, bool) {
	m, ok := n.channel.(*matrix.Matrix)
	return m, ok
}

// Slack returns the Slack configuration if n is a Slack.
func (n Notifier) Slack() (*slack.Slack, bool) {
	s, ok := n.channel.(*slack.Slack)
	return s, ok
}

// Telegram returns the Telegram configuration if n is a Telegram.
func (n Notifier) Telegram() (*telegram.Telegram, bool) {
	t, ok := n.channel.(*telegram.Telegram)
	return t, ok
}

// Webhook returns the Webhook configuration if n is a Webhook.
func (n Notifier) Webhook() (*webhook.Webhook, bool) {
	w, ok := n.channel.(*webhook.Webhook)
	return w, ok
}

// NewRegistry returns a registry with every built-in channel in discovery
// order: Command, Desktop, Email, Matrix, Slack, Telegram, Webhook.
func NewRegistry(l logger.Logger) *platform.Registry {
	return platform.NewRegistry(l).MustRegister(
		command.Entry(),
		desktop.Entry(),
		email.Entry(),
		matrix.Entry(),
		slack.Entry(),
		telegram.Entry(),
		webhook.Entry(),
	)
}

var defaultRegistry = NewRegistry(nil)

// DefaultRegistry is the registry used by Discover and document decoding.
func DefaultRegistry() *platform.Registry { return defaultRegistry }

// Discover returns every channel fully configured in env, in registry order.
func Discover(env environ.Env) []Notifier {
	return DiscoverWith(defaultRegistry, env)
}

// DiscoverWith is Discover over a custom registry.
func DiscoverWith(r *platform.Registry, env environ.Env) []Notifier {
	channels := r.Discover(env)
	out := make([]Notifier, len(channels))
	for i, ch := range channels {
		out[i] = New(ch)
	}
	return out
}

// FromEnv discovers channels from the process environment.
func FromEnv() []Notifier {
	return Discover(environ.FromOS())
}

// SendBlocking sends through the default dispatcher.
func (n Notifier) SendBlocking(ctx context.Context, text string) error {
	return Default().SendBlocking(ctx, n, text)
}

// SendAsync sends through the default dispatcher.
func (n Notifier) SendAsync(ctx context.Context, text string) *transport.Handle {
	return Default().SendAsync(ctx, n, text)
}
