// Package matrix sends m.text messages to a Matrix room through the
// client-server API.
package matrix

import (
	"net/http"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/kart-io/pling/pkg/environ"
	"github.com/kart-io/pling/pkg/errors"
	"github.com/kart-io/pling/pkg/platform"
	"github.com/kart-io/pling/pkg/transport"
)

// Matrix addresses one room on a homeserver.
type Matrix struct {
	Homeserver  platform.URL `json:"homeserver" yaml:"homeserver"`
	RoomID      string       `json:"room_id" yaml:"room_id"`
	AccessToken string       `json:"access_token" yaml:"access_token"`
}

// New creates a Matrix channel.
func New(homeserver platform.URL, roomID, accessToken string) *Matrix {
	return &Matrix{Homeserver: homeserver, RoomID: roomID, AccessToken: accessToken}
}

type matrixEnv struct {
	Homeserver  string `env:"MATRIX_HOMESERVER,required"`
	RoomID      string `env:"MATRIX_ROOM_ID,required"`
	AccessToken string `env:"MATRIX_ACCESS_TOKEN,required"`
}

// FromEnv reads MATRIX_HOMESERVER, MATRIX_ROOM_ID and MATRIX_ACCESS_TOKEN.
// All three must be present and the homeserver must be a valid URL.
func FromEnv(env environ.Env) (*Matrix, bool) {
	var e matrixEnv
	if err := environ.Decode(env, &e); err != nil {
		return nil, false
	}
	hs, err := platform.ParseURL(e.Homeserver)
	if err != nil {
		return nil, false
	}
	return New(hs, e.RoomID, e.AccessToken), true
}

// Entry registers the channel.
func Entry() platform.Entry {
	return platform.Entry{
		Kind: platform.Matrix,
		Discover: func(env environ.Env) (platform.Channel, bool) {
			m, ok := FromEnv(env)
			return m, ok
		},
		New: func() platform.Channel { return &Matrix{} },
	}
}

func (m *Matrix) Kind() platform.Kind { return platform.Matrix }

func (m *Matrix) Validate() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.Homeserver, validation.By(platform.ValidURL)),
		validation.Field(&m.RoomID, validation.Required),
		validation.Field(&m.AccessToken, validation.Required),
	)
}

// URL resolves the send endpoint against the homeserver. The room id and
// token are inserted as written, without escaping.
func (m *Matrix) URL() (string, error) {
	ref, err := url.Parse("/_matrix/client/r0/rooms/" + m.RoomID +
		"/send/m.room.message?access_token=" + m.AccessToken)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInvalidFormat, "invalid room id or access token").
			WithPlatform("matrix")
	}
	return m.Homeserver.ResolveReference(ref).String(), nil
}

// Payload returns the m.room.message body for text.
func Payload(text string) []byte {
	return []byte(`{"msgtype":"m.text","body":"` + platform.EscapeQuotes(text) + `"}`)
}

func (m *Matrix) BuildRequest(text string) (*transport.Request, error) {
	u, err := m.URL()
	if err != nil {
		return nil, err
	}
	return &transport.Request{
		Method:      http.MethodPost,
		URL:         u,
		ContentType: "application/json",
		Body:        Payload(text),
	}, nil
}
