// Package email delivers notifications through an authenticated SMTP relay
// using go-mail.
package email

import (
	"context"
	"net/mail"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	gomail "github.com/wneessen/go-mail"

	"github.com/kart-io/pling/pkg/environ"
	"github.com/kart-io/pling/pkg/errors"
	"github.com/kart-io/pling/pkg/platform"
)

// Email is an SMTP relay plus fixed envelope and subject.
type Email struct {
	Server string `json:"server" yaml:"server"`
	// Port overrides the relay default (implicit TLS on 465) when non-zero.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`

	From    string `json:"from" yaml:"from"`
	To      string `json:"to" yaml:"to"`
	Subject string `json:"subject" yaml:"subject"`
}

// Dialer sends built messages. *gomail.Client satisfies it.
type Dialer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// newDialer is replaced in tests.
var newDialer = func(e *Email) (Dialer, error) {
	return gomail.NewClient(e.Server, e.clientOptions()...)
}

type emailEnv struct {
	Server   string `env:"EMAIL_SERVER,required"`
	Port     string `env:"EMAIL_PORT"`
	Username string `env:"EMAIL_USERNAME,required"`
	Password string `env:"EMAIL_PASSWORD,required"`
	From     string `env:"EMAIL_FROM,required"`
	To       string `env:"EMAIL_TO,required"`
	Subject  string `env:"EMAIL_SUBJECT,required"`
}

// FromEnv reads the EMAIL_* variables. Everything except EMAIL_PORT is
// required; an unparsable port is ignored.
func FromEnv(env environ.Env) (*Email, bool) {
	var e emailEnv
	if err := environ.Decode(env, &e); err != nil {
		return nil, false
	}
	email := &Email{
		Server:   e.Server,
		Username: e.Username,
		Password: e.Password,
		From:     e.From,
		To:       e.To,
		Subject:  e.Subject,
	}
	if port, err := strconv.ParseUint(e.Port, 10, 16); err == nil {
		email.Port = int(port)
	}
	return email, true
}

// Entry registers the channel.
func Entry() platform.Entry {
	return platform.Entry{
		Kind: platform.Email,
		Discover: func(env environ.Env) (platform.Channel, bool) {
			e, ok := FromEnv(env)
			return e, ok
		},
		New: func() platform.Channel { return &Email{} },
	}
}

func (e *Email) Kind() platform.Kind { return platform.Email }

func (e *Email) Validate() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.Server, validation.Required),
		validation.Field(&e.Port, validation.Min(0), validation.Max(65535)),
		validation.Field(&e.Username, validation.Required),
		validation.Field(&e.Password, validation.Required),
		validation.Field(&e.From, validation.Required, validation.By(mailbox)),
		validation.Field(&e.To, validation.Required, validation.By(mailbox)),
		validation.Field(&e.Subject, validation.Required),
	)
}

func mailbox(value interface{}) error {
	s, _ := value.(string)
	_, err := mail.ParseAddress(s)
	return err
}

func (e *Email) clientOptions() []gomail.Option {
	port := e.Port
	if port == 0 {
		port = gomail.DefaultPortSSL
	}
	return []gomail.Option{
		gomail.WithSSL(),
		gomail.WithPort(port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(e.Username),
		gomail.WithPassword(e.Password),
	}
}

// BuildMessage creates the plain text message for text.
func (e *Email) BuildMessage(text string) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(e.From); err != nil {
		return nil, errors.Wrap(err, errors.ErrMessageEncoding, "failed to set From address").WithPlatform("email")
	}
	if err := m.To(e.To); err != nil {
		return nil, errors.Wrap(err, errors.ErrMessageEncoding, "failed to set To address").WithPlatform("email")
	}
	m.Subject(e.Subject)
	m.SetBodyString(gomail.TypeTextPlain, text)
	return m, nil
}

// Deliver builds the message, connects to the relay and sends it.
func (e *Email) Deliver(ctx context.Context, text string) error {
	m, err := e.BuildMessage(text)
	if err != nil {
		return err
	}

	client, err := newDialer(e)
	if err != nil {
		return errors.Wrap(err, errors.ErrInvalidConfig, "failed to create mail client").WithPlatform("email")
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return errors.Wrap(err, errors.ErrMessageSendFailed, "failed to send email").WithPlatform("email")
	}
	return nil
}
