package telegram

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/pling/pkg/environ"
	"github.com/kart-io/pling/pkg/errors"
	"github.com/kart-io/pling/pkg/platform"
	"github.com/kart-io/pling/pkg/transport"
)

func TestURL(t *testing.T) {
	tg := New("123:ABC", ChatID(1234))
	assert.Equal(t, "https://api.telegram.org/bot123:ABC/sendMessage", tg.URL())

	tg.APIURL = "http://localhost:8081/"
	assert.Equal(t, "http://localhost:8081/bot123:ABC/sendMessage", tg.URL())
}

func TestForm(t *testing.T) {
	tests := []struct {
		name string
		tg   *Telegram
		opts SendOptions
		want url.Values
	}{
		{
			name: "minimal",
			tg:   New("123:ABC", ChatID(1234)),
			want: url.Values{"chat_id": {"1234"}, "text": {"hi"}},
		},
		{
			name: "web page preview from config",
			tg:   &Telegram{BotToken: "t", TargetChat: ChatID(1234), DisableWebPagePreview: true},
			want: url.Values{"chat_id": {"1234"}, "text": {"hi"}, "disable_web_page_preview": {"true"}},
		},
		{
			name: "notification from call",
			tg:   New("t", Username("@chan")),
			opts: SendOptions{DisableNotification: true},
			want: url.Values{"chat_id": {"@chan"}, "text": {"hi"}, "disable_notification": {"true"}},
		},
		{
			name: "configured parse mode",
			tg:   &Telegram{BotToken: "t", TargetChat: ChatID(1), ParseMode: Markdown.Ptr()},
			want: url.Values{"chat_id": {"1"}, "text": {"hi"}, "parse_mode": {"Markdown"}},
		},
		{
			name: "call parse mode overrides",
			tg:   &Telegram{BotToken: "t", TargetChat: ChatID(1), ParseMode: Markdown.Ptr()},
			opts: SendOptions{ParseMode: HTML.Ptr()},
			want: url.Values{"chat_id": {"1"}, "text": {"hi"}, "parse_mode": {"HTML"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tg.Form("hi", tt.opts))
		})
	}
}

func TestBuildRequest(t *testing.T) {
	tg := &Telegram{BotToken: "123:ABC", TargetChat: ChatID(1234), DisableWebPagePreview: true}

	req, err := tg.BuildRequest("hello & goodbye")
	require.NoError(t, err)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "https://api.telegram.org/bot123:ABC/sendMessage", req.URL)
	assert.Equal(t, "application/x-www-form-urlencoded", req.ContentType)

	form, err := url.ParseQuery(string(req.Body))
	require.NoError(t, err)
	assert.Equal(t, "1234", form.Get("chat_id"))
	assert.Equal(t, "hello & goodbye", form.Get("text"))
	assert.Equal(t, "true", form.Get("disable_web_page_preview"))
	assert.NotContains(t, form, "disable_notification")
	assert.NotContains(t, form, "parse_mode")
}

func TestFromEnv(t *testing.T) {
	tg, ok := FromEnv(environ.Env{
		"TELEGRAM_BOT_TOKEN":                "123:ABC",
		"TELEGRAM_TARGET_CHAT":              "@chan",
		"TELEGRAM_DISABLE_WEB_PAGE_PREVIEW": "",
	})
	require.True(t, ok)
	assert.Equal(t, "123:ABC", tg.BotToken)
	assert.Equal(t, Username("@chan"), tg.TargetChat)
	assert.True(t, tg.DisableWebPagePreview)
	assert.False(t, tg.DisableNotification)
	assert.Nil(t, tg.ParseMode)

	tg, ok = FromEnv(environ.Env{"TELEGRAM_BOT_TOKEN": "x", "TELEGRAM_TARGET_CHAT": "-100"})
	require.True(t, ok)
	assert.Equal(t, ChatID(-100), tg.TargetChat)

	_, ok = FromEnv(environ.Env{"TELEGRAM_BOT_TOKEN": "x"})
	assert.False(t, ok)
	_, ok = FromEnv(environ.Env{"TELEGRAM_TARGET_CHAT": "1"})
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, New("t", Username("")).Validate())
	assert.Error(t, New("", ChatID(1)).Validate())

	tg := New("t", ChatID(1))
	tg.APIURL = "not a url"
	assert.Error(t, tg.Validate())

	err := (&Telegram{BotToken: "t"}).Validate()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidTargetChat))
	assert.NoError(t, New("t", ChatID(0)).Validate())
}

func TestEntry(t *testing.T) {
	e := Entry()
	assert.Equal(t, platform.Telegram, e.Kind)
	assert.Equal(t, platform.Telegram, e.New().Kind())

	_, ok := e.Discover(environ.Env{})
	assert.False(t, ok)

	var _ platform.HTTPChannel = (*Telegram)(nil)
}

func TestSend(t *testing.T) {
	var got *transport.Request
	client := transport.ClientFunc(func(_ context.Context, req *transport.Request) error {
		got = req
		return nil
	})

	tg := New("123:ABC", ChatID(1))
	require.NoError(t, tg.Send(context.Background(), client, "hi", SendOptions{ParseMode: MarkdownV2.Ptr(), DisableNotification: true}))
	require.NotNil(t, got)

	form, err := url.ParseQuery(string(got.Body))
	require.NoError(t, err)
	assert.Equal(t, "MarkdownV2", form.Get("parse_mode"))
	assert.Equal(t, "true", form.Get("disable_notification"))
	assert.False(t, tg.DisableNotification)

	h := tg.SendAsync(context.Background(), transport.NewAsync(client), "hi", SendOptions{})
	assert.NoError(t, h.Wait(context.Background()))
}
