// Package telegram sends messages through the Telegram Bot API sendMessage
// method.
package telegram

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/kart-io/pling/pkg/environ"
	"github.com/kart-io/pling/pkg/errors"
	"github.com/kart-io/pling/pkg/platform"
	"github.com/kart-io/pling/pkg/transport"
)

// DefaultAPIURL is the public Bot API server.
const DefaultAPIURL = "https://api.telegram.org"

// Telegram is a bot posting to one chat.
type Telegram struct {
	BotToken              string     `json:"bot_token" yaml:"bot_token"`
	TargetChat            TargetChat `json:"target_chat" yaml:"target_chat"`
	DisableWebPagePreview bool       `json:"disable_web_page_preview,omitempty" yaml:"disable_web_page_preview,omitempty"`
	DisableNotification   bool       `json:"disable_notification,omitempty" yaml:"disable_notification,omitempty"`
	ParseMode             *ParseMode `json:"parse_mode,omitempty" yaml:"parse_mode,omitempty"`

	// APIURL points at a self-hosted Bot API server. Empty means DefaultAPIURL.
	APIURL string `json:"api_url,omitempty" yaml:"api_url,omitempty"`
}

// SendOptions are per-message overrides. The booleans are OR'd with the
// configured flags; ParseMode replaces the configured mode when set.
type SendOptions struct {
	ParseMode             *ParseMode
	DisableWebPagePreview bool
	DisableNotification   bool
}

// New creates a Telegram channel with all optional settings off.
func New(botToken string, targetChat TargetChat) *Telegram {
	return &Telegram{BotToken: botToken, TargetChat: targetChat}
}

type telegramEnv struct {
	BotToken   string `env:"TELEGRAM_BOT_TOKEN,required"`
	TargetChat string `env:"TELEGRAM_TARGET_CHAT,required"`
}

// FromEnv reads TELEGRAM_BOT_TOKEN and TELEGRAM_TARGET_CHAT, both required.
// TELEGRAM_DISABLE_WEB_PAGE_PREVIEW and TELEGRAM_DISABLE_NOTIFICATION are
// enabled by presence alone.
func FromEnv(env environ.Env) (*Telegram, bool) {
	var e telegramEnv
	if err := environ.Decode(env, &e); err != nil {
		return nil, false
	}
	t := New(e.BotToken, ParseTargetChat(e.TargetChat))
	t.DisableWebPagePreview = env.Has("TELEGRAM_DISABLE_WEB_PAGE_PREVIEW")
	t.DisableNotification = env.Has("TELEGRAM_DISABLE_NOTIFICATION")
	return t, true
}

// Entry registers the channel.
func Entry() platform.Entry {
	return platform.Entry{
		Kind: platform.Telegram,
		Discover: func(env environ.Env) (platform.Channel, bool) {
			t, ok := FromEnv(env)
			return t, ok
		},
		New: func() platform.Channel { return &Telegram{} },
	}
}

func (t *Telegram) Kind() platform.Kind { return platform.Telegram }

// Validate checks an explicitly supplied configuration. BotToken and
// TargetChat are both required.
func (t *Telegram) Validate() error {
	err := validation.ValidateStruct(t,
		validation.Field(&t.BotToken, validation.Required),
		validation.Field(&t.APIURL, validation.By(optionalURL)),
	)
	if err != nil {
		return err
	}
	if t.TargetChat.IsZero() {
		return errors.NewValidationError(errors.ErrInvalidTargetChat, "target_chat", "target_chat is required")
	}
	return nil
}

func optionalURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	_, err := platform.ParseURL(s)
	return err
}

// URL returns the sendMessage endpoint for the bot.
func (t *Telegram) URL() string {
	base := t.APIURL
	if base == "" {
		base = DefaultAPIURL
	}
	return strings.TrimSuffix(base, "/") + "/bot" + t.BotToken + "/sendMessage"
}

// Form builds the sendMessage form. Optional fields are omitted unless set.
func (t *Telegram) Form(text string, opts SendOptions) url.Values {
	form := url.Values{}
	form.Set("chat_id", t.TargetChat.String())
	form.Set("text", text)

	if opts.DisableWebPagePreview || t.DisableWebPagePreview {
		form.Set("disable_web_page_preview", "true")
	}
	if opts.DisableNotification || t.DisableNotification {
		form.Set("disable_notification", "true")
	}

	mode := t.ParseMode
	if opts.ParseMode != nil {
		mode = opts.ParseMode
	}
	if mode != nil {
		form.Set("parse_mode", mode.String())
	}
	return form
}

// BuildRequest builds the request with the configured options only.
func (t *Telegram) BuildRequest(text string) (*transport.Request, error) {
	return t.BuildRequestWith(text, SendOptions{})
}

// BuildRequestWith builds the request applying per-message options.
func (t *Telegram) BuildRequestWith(text string, opts SendOptions) (*transport.Request, error) {
	return &transport.Request{
		Method:      http.MethodPost,
		URL:         t.URL(),
		ContentType: "application/x-www-form-urlencoded",
		Body:        []byte(t.Form(text, opts).Encode()),
	}, nil
}

// Send delivers text through a blocking client with per-message options.
func (t *Telegram) Send(ctx context.Context, client transport.Client, text string, opts SendOptions) error {
	req, err := t.BuildRequestWith(text, opts)
	if err != nil {
		return err
	}
	return client.Do(ctx, req)
}

// SendAsync is Send on the awaitable transport.
func (t *Telegram) SendAsync(ctx context.Context, async *transport.Async, text string, opts SendOptions) *transport.Handle {
	req, err := t.BuildRequestWith(text, opts)
	if err != nil {
		return transport.Resolved(err)
	}
	return async.Submit(ctx, req)
}
