// Package slack posts messages to a Slack incoming webhook.
package slack

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/kart-io/pling/pkg/environ"
	"github.com/kart-io/pling/pkg/platform"
	"github.com/kart-io/pling/pkg/transport"
)

// Slack holds the incoming webhook URL.
type Slack struct {
	Webhook platform.URL `json:"webhook" yaml:"webhook"`
}

// New creates a Slack channel for webhook.
func New(webhook platform.URL) *Slack {
	return &Slack{Webhook: webhook}
}

// FromEnv reads SLACK_HOOK, falling back to SLACK_WEBHOOK. A missing or
// invalid URL leaves the channel unconfigured.
func FromEnv(env environ.Env) (*Slack, bool) {
	raw, ok := env.First("SLACK_HOOK", "SLACK_WEBHOOK")
	if !ok {
		return nil, false
	}
	hook, err := platform.ParseURL(raw)
	if err != nil {
		return nil, false
	}
	return New(hook), true
}

// Entry registers the channel.
func Entry() platform.Entry {
	return platform.Entry{
		Kind: platform.Slack,
		Discover: func(env environ.Env) (platform.Channel, bool) {
			s, ok := FromEnv(env)
			return s, ok
		},
		New: func() platform.Channel { return &Slack{} },
	}
}

func (s *Slack) Kind() platform.Kind { return platform.Slack }

func (s *Slack) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Webhook, validation.By(platform.ValidURL)),
	)
}

// Payload returns the JSON body for text.
func Payload(text string) []byte {
	return []byte(`{"text":"` + platform.EscapeQuotes(text) + `"}`)
}

func (s *Slack) BuildRequest(text string) (*transport.Request, error) {
	return &transport.Request{
		Method:      http.MethodPost,
		URL:         s.Webhook.String(),
		ContentType: "application/json",
		Body:        Payload(text),
	}, nil
}
