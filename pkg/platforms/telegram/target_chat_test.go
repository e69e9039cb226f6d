package telegram

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseTargetChat(t *testing.T) {
	tests := []struct {
		in   string
		want TargetChat
	}{
		{"12345", ChatID(12345)},
		{"-1001234567890", ChatID(-1001234567890)},
		{"0", ChatID(0)},
		{"@HelloWorld", Username("@HelloWorld")},
		{"HelloWorld", Username("HelloWorld")},
		{"", Username("")},
		{"12a", Username("12a")},
		{"99999999999999999999", Username("99999999999999999999")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseTargetChat(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
			assert.Equal(t, got, ParseTargetChat(got.String()))
		})
	}
}

func TestTargetChat_Accessors(t *testing.T) {
	id, ok := ChatID(-42).ID()
	assert.True(t, ok)
	assert.Equal(t, int64(-42), id)
	_, ok = ChatID(-42).Username()
	assert.False(t, ok)

	name, ok := Username("@chan").Username()
	assert.True(t, ok)
	assert.Equal(t, "@chan", name)
	_, ok = Username("@chan").ID()
	assert.False(t, ok)
}

func TestTargetChat_JSON(t *testing.T) {
	b, err := json.Marshal(ChatID(1234))
	require.NoError(t, err)
	assert.Equal(t, `1234`, string(b))

	b, err = json.Marshal(Username("@chan"))
	require.NoError(t, err)
	assert.Equal(t, `"@chan"`, string(b))

	var tc TargetChat
	require.NoError(t, json.Unmarshal([]byte(`-5`), &tc))
	assert.Equal(t, ChatID(-5), tc)

	require.NoError(t, json.Unmarshal([]byte(`"@chan"`), &tc))
	assert.Equal(t, Username("@chan"), tc)

	assert.Error(t, json.Unmarshal([]byte(`true`), &tc))
}

func TestTargetChat_YAML(t *testing.T) {
	var doc struct {
		A TargetChat `yaml:"a"`
		B TargetChat `yaml:"b"`
		C TargetChat `yaml:"c"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: 1234\nb: '@chan'\nc: \"77\"\n"), &doc))
	assert.Equal(t, ChatID(1234), doc.A)
	assert.Equal(t, Username("@chan"), doc.B)
	assert.Equal(t, Username("77"), doc.C)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), "a: 1234")
	assert.Contains(t, string(out), "@chan")

	var back struct {
		A TargetChat `yaml:"a"`
		B TargetChat `yaml:"b"`
		C TargetChat `yaml:"c"`
	}
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, doc, back)
}
