package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateReturnsSameInstance(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry(&buf)

	first := r.GetOrCreate("main", WithLevel(logrus.InfoLevel))
	second := r.GetOrCreate("main", WithLevel(logrus.ErrorLevel), WithJSON())

	assert.Same(t, first, second)
	// The second option set was discarded: info lines still pass, as text.
	second.Log("hello")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "logger=main")
}

func TestGetOrCreateDistinctNames(t *testing.T) {
	r := NewRegistry(&bytes.Buffer{})
	a := r.GetOrCreate("a")
	b := r.GetOrCreate("b")

	assert.NotSame(t, a, b)
	assert.Equal(t, "a", a.Name())
	assert.Equal(t, []string{"a", "b"}, r.Names())
}

func TestLogOptions(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		check func(t *testing.T, out string)
	}{
		{
			name: "json output carries logger field",
			opts: []Option{WithJSON()},
			check: func(t *testing.T, out string) {
				var line map[string]any
				require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &line))
				assert.Equal(t, "enrolled", line["msg"])
				assert.Equal(t, "sms", line[FieldLogger])
			},
		},
		{
			name: "level above info drops log lines",
			opts: []Option{WithLevel(logrus.WarnLevel)},
			check: func(t *testing.T, out string) {
				assert.Empty(t, out)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := NewRegistry(&buf)
			r.GetOrCreate("sms", tt.opts...).Log("enrolled")
			tt.check(t, buf.String())
		})
	}
}

func TestWithOutputOverridesRegistryWriter(t *testing.T) {
	var shared, own bytes.Buffer
	r := NewRegistry(&shared)
	r.GetOrCreate("email", WithOutput(&own)).Log("sent")

	assert.Empty(t, shared.String())
	assert.Contains(t, own.String(), "msg=sent")
}

func TestRegistryDefaults(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry(&buf, WithLevel(logrus.DebugLevel))
	r.GetOrCreate("uow").Entry().Debug("flushing")
	assert.Contains(t, buf.String(), "level=debug")
}

func TestDiscard(t *testing.T) {
	l := Discard("quiet")
	assert.Equal(t, "quiet", l.Name())
	assert.NotPanics(t, func() { l.Log("nothing") })
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, lvl)

	lvl, err = ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
