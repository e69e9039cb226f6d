// Package environ holds an explicit snapshot of environment variables.
// Channel discovery reads from an Env rather than the process environment so
// it can be driven from tests and from configuration files alike.
package environ

import (
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
)

// Env maps variable names to values. A present key with an empty value is
// still present.
type Env map[string]string

// FromOS snapshots the process environment.
func FromOS() Env {
	vars := os.Environ()
	e := make(Env, len(vars))
	for _, kv := range vars {
		k, v, _ := strings.Cut(kv, "=")
		if k == "" {
			continue
		}
		e[k] = v
	}
	return e
}

// Lookup returns the value of key and whether it was present.
func (e Env) Lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

// Has reports whether key is present.
func (e Env) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// First returns the value of the first present key.
func (e Env) First(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := e[k]; ok {
			return v, true
		}
	}
	return "", false
}

// Decode populates the struct pointed to by v from e using `env` struct tags.
// Only e is consulted, never the process environment.
func Decode(e Env, v any) error {
	m := map[string]string(e)
	if m == nil {
		m = map[string]string{}
	}
	return env.Parse(v, env.Options{Environment: m})
}
