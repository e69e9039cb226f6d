package desktop

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/pling/pkg/environ"
	"github.com/kart-io/pling/pkg/errors"
	"github.com/kart-io/pling/pkg/platform"
)

func stubShow(t *testing.T, err error) *[][2]string {
	t.Helper()
	var calls [][2]string
	orig := show
	show = func(summary, body string) error {
		calls = append(calls, [2]string{summary, body})
		return err
	}
	t.Cleanup(func() { show = orig })
	return &calls
}

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name   string
		env    environ.Env
		want   *Desktop
		wantOK bool
	}{
		{"nothing set", environ.Env{}, nil, false},
		{"enabled flag", environ.Env{"PLING_DESKTOP_ENABLED": ""}, &Desktop{}, true},
		{"summary only", environ.Env{"PLING_DESKTOP_SUMMARY": "CI"}, &Desktop{Summary: "CI"}, true},
		{"both", environ.Env{"PLING_DESKTOP_ENABLED": "1", "PLING_DESKTOP_SUMMARY": "CI"}, &Desktop{Summary: "CI"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromEnv(tt.env)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeliver(t *testing.T) {
	calls := stubShow(t, nil)

	require.NoError(t, New("Build").Deliver(context.Background(), "done"))
	assert.Equal(t, [][2]string{{"Build", "done"}}, *calls)
}

func TestDeliver_Failure(t *testing.T) {
	stubShow(t, stderrors.New("no notification daemon"))

	err := New("").Deliver(context.Background(), "done")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrMessageSendFailed))
	assert.Equal(t, "desktop", errors.PlatformOf(err))
}

func TestEntry(t *testing.T) {
	assert.Equal(t, platform.Desktop, Entry().Kind)
	assert.NoError(t, (&Desktop{}).Validate())
	var _ platform.LocalChannel = (*Desktop)(nil)
}
