package telegram

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// TargetChat is either a numeric chat id or a channel username such as
// "@channelusername". The zero value is unset.
type TargetChat struct {
	id       int64
	username string
	named    bool
	set      bool
}

// ChatID returns a numeric target.
func ChatID(id int64) TargetChat {
	return TargetChat{id: id, set: true}
}

// Username returns a username target. The name is kept verbatim, with or
// without a leading '@'.
func Username(name string) TargetChat {
	return TargetChat{username: name, named: true, set: true}
}

// ParseTargetChat never fails: anything that parses as a signed 64-bit
// integer is an id, everything else is a username.
func ParseTargetChat(s string) TargetChat {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ChatID(id)
	}
	return Username(s)
}

// IsZero reports whether no target was given.
func (t TargetChat) IsZero() bool { return !t.set }

// ID returns the numeric id and true for id targets.
func (t TargetChat) ID() (int64, bool) {
	return t.id, t.set && !t.named
}

// Username returns the username and true for username targets.
func (t TargetChat) Username() (string, bool) {
	return t.username, t.named
}

// String returns the chat_id form value.
func (t TargetChat) String() string {
	if t.named {
		return t.username
	}
	return strconv.FormatInt(t.id, 10)
}

// MarshalJSON encodes ids as numbers and usernames as strings.
func (t TargetChat) MarshalJSON() ([]byte, error) {
	if t.named {
		return json.Marshal(t.username)
	}
	return json.Marshal(t.id)
}

// UnmarshalJSON accepts a number or a string. Strings are kept as usernames.
func (t *TargetChat) UnmarshalJSON(b []byte) error {
	var id int64
	if err := json.Unmarshal(b, &id); err == nil {
		*t = ChatID(id)
		return nil
	}
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return fmt.Errorf("target_chat must be an integer or a string: %w", err)
	}
	*t = Username(name)
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (t TargetChat) MarshalYAML() (interface{}, error) {
	if t.named {
		return t.username, nil
	}
	return t.id, nil
}

// UnmarshalYAML decodes plain integers as ids and any other scalar as a
// username.
func (t *TargetChat) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: target_chat must be a scalar", node.Line)
	}
	if node.ShortTag() == "!!int" {
		var id int64
		if err := node.Decode(&id); err != nil {
			return err
		}
		*t = ChatID(id)
		return nil
	}
	*t = Username(node.Value)
	return nil
}
