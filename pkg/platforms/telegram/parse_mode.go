package telegram

import (
	"fmt"
	"strings"

	"github.com/kart-io/pling/pkg/errors"
)

// ParseMode selects how Telegram renders the message text.
type ParseMode int

const (
	HTML ParseMode = iota + 1
	// Deprecated: use MarkdownV2.
	Markdown
	MarkdownV2
)

// ParseParseMode matches html, markdown or markdownv2 case-insensitively.
func ParseParseMode(s string) (ParseMode, error) {
	switch strings.ToLower(s) {
	case "html":
		return HTML, nil
	case "markdown":
		return Markdown, nil
	case "markdownv2":
		return MarkdownV2, nil
	}
	return 0, errors.New(errors.ErrUnknownParseMode, fmt.Sprintf("unknown parse mode %q", s)).
		WithPlatform("telegram")
}

// String returns the value Telegram expects in the parse_mode field.
func (m ParseMode) String() string {
	switch m {
	case HTML:
		return "HTML"
	case Markdown:
		return "Markdown"
	case MarkdownV2:
		return "MarkdownV2"
	}
	return fmt.Sprintf("ParseMode(%d)", int(m))
}

// Ptr returns a pointer to m, for use in Telegram.ParseMode.
func (m ParseMode) Ptr() *ParseMode {
	return &m
}

// MarshalText implements encoding.TextMarshaler.
func (m ParseMode) MarshalText() ([]byte, error) {
	switch m {
	case HTML, Markdown, MarkdownV2:
		return []byte(m.String()), nil
	}
	return nil, errors.New(errors.ErrUnknownParseMode, m.String())
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ParseMode) UnmarshalText(text []byte) error {
	parsed, err := ParseParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
