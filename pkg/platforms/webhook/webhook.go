// Package webhook posts the raw message text to an arbitrary URL.
package webhook

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/kart-io/pling/pkg/environ"
	"github.com/kart-io/pling/pkg/platform"
	"github.com/kart-io/pling/pkg/transport"
)

// Webhook is a generic HTTP endpoint.
type Webhook struct {
	URL platform.URL `json:"url" yaml:"url"`
}

// New creates a Webhook channel for u.
func New(u platform.URL) *Webhook {
	return &Webhook{URL: u}
}

type webhookEnv struct {
	URL string `env:"WEBHOOK_URL,required"`
}

// FromEnv reads WEBHOOK_URL. A missing or invalid URL leaves the channel
// unconfigured.
func FromEnv(env environ.Env) (*Webhook, bool) {
	var e webhookEnv
	if err := environ.Decode(env, &e); err != nil {
		return nil, false
	}
	u, err := platform.ParseURL(e.URL)
	if err != nil {
		return nil, false
	}
	return New(u), true
}

// Entry registers the channel.
func Entry() platform.Entry {
	return platform.Entry{
		Kind: platform.Webhook,
		Discover: func(env environ.Env) (platform.Channel, bool) {
			w, ok := FromEnv(env)
			return w, ok
		},
		New: func() platform.Channel { return &Webhook{} },
	}
}

func (w *Webhook) Kind() platform.Kind { return platform.Webhook }

func (w *Webhook) Validate() error {
	return validation.ValidateStruct(w,
		validation.Field(&w.URL, validation.By(platform.ValidURL)),
	)
}

// BuildRequest sends text as the body with no wrapping or escaping.
func (w *Webhook) BuildRequest(text string) (*transport.Request, error) {
	return &transport.Request{
		Method:      http.MethodPost,
		URL:         w.URL.String(),
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte(text),
	}, nil
}
