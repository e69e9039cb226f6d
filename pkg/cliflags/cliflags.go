// Package cliflags adds notification flags to a urfave/cli application.
// Every flag can also be set through its NOTIFICATION_* environment
// variable.
package cliflags

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kart-io/pling/pkg/errors"
	"github.com/kart-io/pling/pkg/notifier"
	"github.com/kart-io/pling/pkg/platform"
	"github.com/kart-io/pling/pkg/platforms/matrix"
	"github.com/kart-io/pling/pkg/platforms/slack"
	"github.com/kart-io/pling/pkg/platforms/telegram"
	"github.com/kart-io/pling/pkg/platforms/webhook"
)

const category = "Notification Options"

const (
	FlagMatrixHomeserver              = "notification-matrix-homeserver"
	FlagMatrixRoomID                  = "notification-matrix-room-id"
	FlagMatrixAccessToken             = "notification-matrix-access-token"
	FlagSlackWebhook                  = "notification-slack-webhook"
	FlagTelegramBotToken              = "notification-telegram-bot-token"
	FlagTelegramTargetChat            = "notification-telegram-target-chat"
	FlagTelegramDisableWebPagePreview = "notification-telegram-disable-web-page-preview"
	FlagTelegramSilent                = "notification-telegram-silent"
	FlagWebhook                       = "notification-webhook"
)

// requires maps a flag to the flag it cannot be used without.
var requires = [][2]string{
	{FlagMatrixHomeserver, FlagMatrixRoomID},
	{FlagMatrixRoomID, FlagMatrixAccessToken},
	{FlagMatrixAccessToken, FlagMatrixHomeserver},
	{FlagTelegramBotToken, FlagTelegramTargetChat},
	{FlagTelegramTargetChat, FlagTelegramBotToken},
	{FlagTelegramDisableWebPagePreview, FlagTelegramBotToken},
	{FlagTelegramSilent, FlagTelegramBotToken},
}

// Flags returns the notification flags.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     FlagMatrixHomeserver,
			Usage:    "Matrix homeserver `URL`",
			EnvVars:  []string{"NOTIFICATION_MATRIX_HOMESERVER"},
			Category: category,
		},
		&cli.StringFlag{
			Name:     FlagMatrixRoomID,
			Usage:    "Matrix `ROOM_ID` to post into",
			EnvVars:  []string{"NOTIFICATION_MATRIX_ROOM_ID"},
			Category: category,
		},
		&cli.StringFlag{
			Name:     FlagMatrixAccessToken,
			Usage:    "Matrix `ACCESS_TOKEN`",
			EnvVars:  []string{"NOTIFICATION_MATRIX_ACCESS_TOKEN"},
			Category: category,
		},
		&cli.StringFlag{
			Name:     FlagSlackWebhook,
			Usage:    "Slack Incoming Webhook `URL`",
			EnvVars:  []string{"NOTIFICATION_SLACK_WEBHOOK"},
			Category: category,
		},
		&cli.StringFlag{
			Name:     FlagTelegramBotToken,
			Usage:    "Bot Token from @BotFather in Telegram",
			EnvVars:  []string{"NOTIFICATION_TELEGRAM_BOT_TOKEN"},
			Category: category,
		},
		&cli.StringFlag{
			Name:     FlagTelegramTargetChat,
			Usage:    "Chat/User `ID/USERNAME`; the bot must be a member of the chat",
			EnvVars:  []string{"NOTIFICATION_TELEGRAM_TARGET_CHAT"},
			Category: category,
		},
		&cli.BoolFlag{
			Name:     FlagTelegramDisableWebPagePreview,
			Usage:    "Disable link previews in Telegram messages",
			EnvVars:  []string{"NOTIFICATION_TELEGRAM_DISABLE_WEB_PAGE_PREVIEW"},
			Category: category,
		},
		&cli.BoolFlag{
			Name:     FlagTelegramSilent,
			Usage:    "Send the Telegram message silently",
			EnvVars:  []string{"NOTIFICATION_TELEGRAM_SILENT"},
			Category: category,
		},
		&cli.StringFlag{
			Name:     FlagWebhook,
			Usage:    "POST the notification text to `URL`",
			EnvVars:  []string{"NOTIFICATION_WEBHOOK"},
			Category: category,
		},
	}
}

// Args holds the channels configured on the command line.
type Args struct {
	Matrix   *matrix.Matrix
	Slack    *slack.Slack
	Telegram *telegram.Telegram
	Webhook  *webhook.Webhook
}

// FromContext reads the flags from c, checking that dependent flags are
// given together.
func FromContext(c *cli.Context) (*Args, error) {
	for _, r := range requires {
		if c.IsSet(r[0]) && !c.IsSet(r[1]) {
			return nil, errors.NewValidationError(errors.ErrValidationFailed, r[0],
				fmt.Sprintf("--%s requires --%s", r[0], r[1]))
		}
	}

	args := &Args{}

	if c.IsSet(FlagMatrixHomeserver) {
		hs, err := parseURL(c, FlagMatrixHomeserver)
		if err != nil {
			return nil, err
		}
		args.Matrix = matrix.New(hs, c.String(FlagMatrixRoomID), c.String(FlagMatrixAccessToken))
	}

	if c.IsSet(FlagSlackWebhook) {
		hook, err := parseURL(c, FlagSlackWebhook)
		if err != nil {
			return nil, err
		}
		args.Slack = slack.New(hook)
	}

	if c.IsSet(FlagTelegramBotToken) {
		tg := telegram.New(c.String(FlagTelegramBotToken), telegram.ParseTargetChat(c.String(FlagTelegramTargetChat)))
		tg.DisableWebPagePreview = c.Bool(FlagTelegramDisableWebPagePreview)
		tg.DisableNotification = c.Bool(FlagTelegramSilent)
		args.Telegram = tg
	}

	if c.IsSet(FlagWebhook) {
		u, err := parseURL(c, FlagWebhook)
		if err != nil {
			return nil, err
		}
		args.Webhook = webhook.New(u)
	}

	return args, nil
}

func parseURL(c *cli.Context, flag string) (platform.URL, error) {
	u, err := platform.ParseURL(c.String(flag))
	if err != nil {
		return platform.URL{}, errors.Wrap(err, errors.ErrInvalidFormat, "invalid --"+flag).
			WithContext("field", flag)
	}
	return u, nil
}

// Notifiers returns the configured channels in Matrix, Slack, Telegram,
// Webhook order.
func (a *Args) Notifiers() []notifier.Notifier {
	var out []notifier.Notifier
	if a.Matrix != nil {
		out = append(out, notifier.New(a.Matrix))
	}
	if a.Slack != nil {
		out = append(out, notifier.New(a.Slack))
	}
	if a.Telegram != nil {
		out = append(out, notifier.New(a.Telegram))
	}
	if a.Webhook != nil {
		out = append(out, notifier.New(a.Webhook))
	}
	return out
}

// Send sends text to every configured channel and reports each failure as
// "failed to send <channel> notification".
func (a *Args) Send(ctx context.Context, d *notifier.Dispatcher, text string, mode notifier.Mode) error {
	return d.SendAll(ctx, a.Notifiers(), text, mode)
}
