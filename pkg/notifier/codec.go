package notifier

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kart-io/pling/pkg/errors"
	"github.com/kart-io/pling/pkg/platform"
)

// MarshalJSON encodes n as a single-key object named after its kind.
func (n Notifier) MarshalJSON() ([]byte, error) {
	if n.channel == nil {
		return nil, errors.New(errors.ErrInvalidConfig, "cannot encode an empty notifier")
	}
	return json.Marshal(map[string]platform.Channel{string(n.Kind()): n.channel})
}

// UnmarshalJSON decodes a single-key object such as {"Slack": {...}}.
func (n *Notifier) UnmarshalJSON(b []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(b, &doc); err != nil {
		return errors.Wrap(err, errors.ErrInvalidFormat, "notifier must be an object")
	}
	if len(doc) != 1 {
		return errors.New(errors.ErrInvalidFormat, fmt.Sprintf("notifier must have exactly one key, got %d", len(doc)))
	}
	for key, raw := range doc {
		ch, err := newChannel(key)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, ch); err != nil {
			return errors.Wrap(err, errors.ErrInvalidFormat, "invalid "+key+" configuration").
				WithPlatform(ch.Kind().Name())
		}
		return n.set(ch)
	}
	return nil
}

// MarshalYAML encodes n as a single-key mapping.
func (n Notifier) MarshalYAML() (interface{}, error) {
	if n.channel == nil {
		return nil, errors.New(errors.ErrInvalidConfig, "cannot encode an empty notifier")
	}
	return map[string]platform.Channel{string(n.Kind()): n.channel}, nil
}

// UnmarshalYAML decodes a single-key mapping such as "Telegram: {...}".
func (n *Notifier) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return errors.New(errors.ErrInvalidFormat,
			fmt.Sprintf("line %d: notifier must be a mapping with exactly one key", node.Line))
	}
	key, value := node.Content[0].Value, node.Content[1]
	ch, err := newChannel(key)
	if err != nil {
		return err
	}
	if err := value.Decode(ch); err != nil {
		return errors.Wrap(err, errors.ErrInvalidFormat, "invalid "+key+" configuration").
			WithPlatform(ch.Kind().Name())
	}
	return n.set(ch)
}

func newChannel(key string) (platform.Channel, error) {
	entry, ok := DefaultRegistry().Lookup(platform.Kind(key))
	if !ok {
		return nil, errors.New(errors.ErrPlatformNotFound, fmt.Sprintf("unknown notifier %q", key))
	}
	return entry.New(), nil
}

func (n *Notifier) set(ch platform.Channel) error {
	if err := ch.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrValidationFailed, "invalid "+ch.Kind().String()+" configuration").
			WithPlatform(ch.Kind().Name())
	}
	n.channel = ch
	return nil
}
