package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/pling/pkg/environ"
	"github.com/kart-io/pling/pkg/platform"
	"github.com/kart-io/pling/pkg/platforms/command"
	"github.com/kart-io/pling/pkg/platforms/telegram"
)

func kinds(ns []Notifier) []platform.Kind {
	out := make([]platform.Kind, len(ns))
	for i, n := range ns {
		out[i] = n.Kind()
	}
	return out
}

func TestDiscover_Order(t *testing.T) {
	got := Discover(environ.Env{
		"WEBHOOK_URL":           "https://example.com/hook",
		"SLACK_HOOK":            "https://hooks.slack.com/x",
		"PLING_COMMAND_PROGRAM": "true",
	})
	assert.Equal(t, []platform.Kind{platform.Command, platform.Slack, platform.Webhook}, kinds(got))
}

func TestDiscover_All(t *testing.T) {
	got := Discover(environ.Env{
		"PLING_COMMAND_PROGRAM": "true",
		"PLING_DESKTOP_ENABLED": "",
		"EMAIL_SERVER":          "smtp.example.com",
		"EMAIL_USERNAME":        "u",
		"EMAIL_PASSWORD":        "p",
		"EMAIL_FROM":            "a@example.com",
		"EMAIL_TO":              "b@example.com",
		"EMAIL_SUBJECT":         "s",
		"MATRIX_HOMESERVER":     "https://matrix.org",
		"MATRIX_ROOM_ID":        "!r:matrix.org",
		"MATRIX_ACCESS_TOKEN":   "t",
		"SLACK_WEBHOOK":         "https://hooks.slack.com/x",
		"TELEGRAM_BOT_TOKEN":    "123:ABC",
		"TELEGRAM_TARGET_CHAT":  "1234",
		"WEBHOOK_URL":           "https://example.com/hook",
	})
	assert.Equal(t, []platform.Kind{
		platform.Command,
		platform.Desktop,
		platform.Email,
		platform.Matrix,
		platform.Slack,
		platform.Telegram,
		platform.Webhook,
	}, kinds(got))
}

func TestDiscover_MatrixAllOrNothing(t *testing.T) {
	got := Discover(environ.Env{
		"MATRIX_HOMESERVER": "https://matrix.org",
		"MATRIX_ROOM_ID":    "!r:matrix.org",
	})
	assert.Empty(t, got)
}

func TestDiscover_InvalidURLExcluded(t *testing.T) {
	got := Discover(environ.Env{
		"SLACK_HOOK":  "::not-a-url",
		"WEBHOOK_URL": "https://example.com",
	})
	assert.Equal(t, []platform.Kind{platform.Webhook}, kinds(got))
}

func TestNotifier_Accessors(t *testing.T) {
	n := New(command.New("true"))
	assert.Equal(t, platform.Command, n.Kind())
	assert.Equal(t, "Command", n.String())

	c, ok := n.Command()
	require.True(t, ok)
	assert.Equal(t, "true", c.Program)

	_, ok = n.Telegram()
	assert.False(t, ok)

	n = New(telegram.New("t", telegram.ChatID(1)))
	_, ok = n.Telegram()
	assert.True(t, ok)

	assert.Equal(t, platform.Kind(""), Notifier{}.Kind())
}

func TestDefaultRegistry(t *testing.T) {
	assert.Equal(t, []platform.Kind{
		platform.Command,
		platform.Desktop,
		platform.Email,
		platform.Matrix,
		platform.Slack,
		platform.Telegram,
		platform.Webhook,
	}, DefaultRegistry().Kinds())
}
