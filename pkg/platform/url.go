package platform

import (
	"fmt"
	"net/url"

	"github.com/kart-io/pling/pkg/errors"
)

// URL is an absolute URL that encodes as its string form.
type URL struct {
	url.URL
}

// ParseURL parses s and requires a scheme and host.
func ParseURL(s string) (URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return URL{}, errors.Wrap(err, errors.ErrInvalidFormat, "invalid url")
	}
	if u.Scheme == "" || u.Host == "" {
		return URL{}, errors.New(errors.ErrInvalidFormat, fmt.Sprintf("invalid url %q: scheme and host are required", s))
	}
	return URL{URL: *u}, nil
}

// MustParseURL is like ParseURL but panics on error.
func MustParseURL(s string) URL {
	u, err := ParseURL(s)
	if err != nil {
		panic(err)
	}
	return u
}

func (u URL) String() string {
	return u.URL.String()
}

// IsZero reports whether u was never set.
func (u URL) IsZero() bool {
	return u.Scheme == "" && u.Host == "" && u.Path == "" && u.Opaque == ""
}

// MarshalText implements encoding.TextMarshaler.
func (u URL) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *URL) UnmarshalText(text []byte) error {
	parsed, err := ParseURL(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// ValidURL is a validation rule function for URL fields.
func ValidURL(value interface{}) error {
	var u URL
	switch v := value.(type) {
	case URL:
		u = v
	case *URL:
		if v == nil {
			return fmt.Errorf("must be a valid URL")
		}
		u = *v
	default:
		return fmt.Errorf("must be a valid URL")
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be an absolute URL")
	}
	return nil
}
