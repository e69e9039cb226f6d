// Package command runs a local program for each notification, passing the
// message text as its last argument.
package command

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/kart-io/pling/pkg/environ"
	"github.com/kart-io/pling/pkg/errors"
	"github.com/kart-io/pling/pkg/platform"
)

// Command is a program plus fixed leading arguments.
type Command struct {
	Program   string   `json:"program" yaml:"program"`
	Arguments []string `json:"arguments,omitempty" yaml:"arguments,omitempty"`
}

// New creates a Command channel.
func New(program string, arguments ...string) *Command {
	return &Command{Program: program, Arguments: arguments}
}

type commandEnv struct {
	Program string `env:"PLING_COMMAND_PROGRAM,required"`
	Args    string `env:"PLING_COMMAND_ARGS"`
}

// FromEnv reads PLING_COMMAND_PROGRAM and the optional space separated
// PLING_COMMAND_ARGS. Empty fields in the argument list are dropped.
func FromEnv(env environ.Env) (*Command, bool) {
	var e commandEnv
	if err := environ.Decode(env, &e); err != nil {
		return nil, false
	}
	return New(e.Program, splitArgs(e.Args)...), true
}

func splitArgs(s string) []string {
	var args []string
	for _, a := range strings.Split(s, " ") {
		if a != "" {
			args = append(args, a)
		}
	}
	return args
}

// Entry registers the channel.
func Entry() platform.Entry {
	return platform.Entry{
		Kind: platform.Command,
		Discover: func(env environ.Env) (platform.Channel, bool) {
			c, ok := FromEnv(env)
			return c, ok
		},
		New: func() platform.Channel { return &Command{} },
	}
}

func (c *Command) Kind() platform.Kind { return platform.Command }

func (c *Command) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Program, validation.Required),
	)
}

// Args returns the full argument list for text.
func (c *Command) Args(text string) []string {
	args := make([]string, 0, len(c.Arguments)+1)
	args = append(args, c.Arguments...)
	return append(args, text)
}

// Deliver runs the program and waits for it to exit.
func (c *Command) Deliver(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, c.Program, c.Args(text)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return errors.New(errors.ErrNonSuccessExit, "command exited unsuccessfully").
			WithPlatform("command").
			WithDetails(strings.TrimSpace(stderr.String())).
			WithContext("exit_code", exitErr.ExitCode()).
			WithCause(err)
	}
	return errors.Wrap(err, errors.ErrProcessSpawn, fmt.Sprintf("failed to start %s", c.Program)).
		WithPlatform("command")
}
