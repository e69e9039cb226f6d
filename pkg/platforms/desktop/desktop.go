// Package desktop shows notifications through the operating system's
// notification service.
package desktop

import (
	"context"

	"github.com/gen2brain/beeep"

	"github.com/kart-io/pling/pkg/environ"
	"github.com/kart-io/pling/pkg/errors"
	"github.com/kart-io/pling/pkg/platform"
)

// Desktop shows a popup with an optional summary line.
type Desktop struct {
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// show is replaced in tests.
var show = func(summary, body string) error {
	return beeep.Notify(summary, body, "")
}

// New creates a Desktop channel.
func New(summary string) *Desktop {
	return &Desktop{Summary: summary}
}

// FromEnv configures the channel when PLING_DESKTOP_ENABLED or
// PLING_DESKTOP_SUMMARY is present.
func FromEnv(env environ.Env) (*Desktop, bool) {
	summary, hasSummary := env.Lookup("PLING_DESKTOP_SUMMARY")
	if !env.Has("PLING_DESKTOP_ENABLED") && !hasSummary {
		return nil, false
	}
	return New(summary), true
}

// Entry registers the channel.
func Entry() platform.Entry {
	return platform.Entry{
		Kind: platform.Desktop,
		Discover: func(env environ.Env) (platform.Channel, bool) {
			d, ok := FromEnv(env)
			return d, ok
		},
		New: func() platform.Channel { return &Desktop{} },
	}
}

func (d *Desktop) Kind() platform.Kind { return platform.Desktop }

// Validate always succeeds; every field is optional.
func (d *Desktop) Validate() error { return nil }

// Deliver displays text.
func (d *Desktop) Deliver(_ context.Context, text string) error {
	if err := show(d.Summary, text); err != nil {
		return errors.Wrap(err, errors.ErrMessageSendFailed, "failed to display notification").
			WithPlatform("desktop")
	}
	return nil
}
