package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/kart-io/pling/pkg/environ"
)

type recorder struct {
	mu     sync.Mutex
	bodies []string
}

func (r *recorder) server(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		b, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.bodies = append(r.bodies, string(b))
		r.mu.Unlock()
		if req.URL.Path == "/fail" {
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testApp(env environ.Env) *cli.App {
	app := newApp(env)
	app.ExitErrHandler = func(*cli.Context, error) {}
	app.Writer = io.Discard
	app.ErrWriter = io.Discard
	return app
}

func TestRun_EnvDiscovery(t *testing.T) {
	rec := &recorder{}
	srv := rec.server(t)

	env := environ.Env{"WEBHOOK_URL": srv.URL + "/ok", "PLING_LOG_LEVEL": "silent"}
	err := testApp(env).Run([]string{"pling", "--text", "build finished"})
	require.NoError(t, err)
	assert.Equal(t, []string{"build finished"}, rec.bodies)
}

func TestRun_NoEnv(t *testing.T) {
	rec := &recorder{}
	srv := rec.server(t)

	env := environ.Env{"WEBHOOK_URL": srv.URL + "/ok", "PLING_LOG_LEVEL": "silent"}
	err := testApp(env).Run([]string{"pling", "--no-env"})
	require.Error(t, err)

	exit, ok := err.(cli.ExitCoder)
	require.True(t, ok)
	assert.Equal(t, 2, exit.ExitCode())
	assert.Empty(t, rec.bodies)
}

func TestRun_FlagsAndConfigFile(t *testing.T) {
	rec := &recorder{}
	srv := rec.server(t)

	path := filepath.Join(t.TempDir(), "channels.yaml")
	doc := "- Webhook:\n    url: " + srv.URL + "/file\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	env := environ.Env{"PLING_LOG_LEVEL": "silent"}
	err := testApp(env).Run([]string{
		"pling",
		"--config", path,
		"--notification-webhook", srv.URL + "/flag",
		"--async",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello world", "Hello world"}, rec.bodies)
}

func TestRun_SendFailure(t *testing.T) {
	rec := &recorder{}
	srv := rec.server(t)

	env := environ.Env{"SLACK_HOOK": srv.URL + "/fail", "PLING_LOG_LEVEL": "silent"}
	err := testApp(env).Run([]string{"pling"})
	require.Error(t, err)

	exit, ok := err.(cli.ExitCoder)
	require.True(t, ok)
	assert.Equal(t, 1, exit.ExitCode())
	assert.Contains(t, err.Error(), "failed to send Slack notification")
	assert.Len(t, rec.bodies, 1)
}

func TestRun_InvalidConfig(t *testing.T) {
	env := environ.Env{"PLING_LOG_LEVEL": "loud"}
	err := testApp(env).Run([]string{"pling", "--no-env"})
	require.Error(t, err)
}
