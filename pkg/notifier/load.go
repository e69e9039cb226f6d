package notifier

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kart-io/pling/pkg/errors"
)

// ParseYAML decodes a list of notifiers:
//
//	- Telegram:
//	    bot_token: 123:ABC
//	    target_chat: 1234
func ParseYAML(data []byte) ([]Notifier, error) {
	var out []Notifier
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, wrapLoad(err)
	}
	return out, nil
}

// ParseJSON decodes a JSON array of single-key objects.
func ParseJSON(data []byte) ([]Notifier, error) {
	var out []Notifier
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, wrapLoad(err)
	}
	return out, nil
}

// LoadFile reads path as JSON when it has a .json extension and as YAML
// otherwise.
func LoadFile(path string) ([]Notifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoadFailed, "failed to read notifier file").
			WithContext("path", path)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

// MarshalYAML encodes notifiers as a YAML document.
func MarshalYAML(notifiers []Notifier) ([]byte, error) {
	return yaml.Marshal(notifiers)
}

func wrapLoad(err error) error {
	if _, ok := errors.CodeOf(err); ok {
		return err
	}
	return errors.Wrap(err, errors.ErrConfigLoadFailed, "failed to decode notifiers")
}
