package notify

import (
	"bytes"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func TestCenterExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewCenter(3*time.Second, WithClock(clock.now))

	c.Notify(SeveritySuccess, "Task added!")
	clock.t = clock.t.Add(2 * time.Second)
	c.Notify(SeverityInfo, "Task deleted")

	active := c.Active(clock.t)
	require.Len(t, active, 2)
	assert.Equal(t, "Task added!", active[0].Message)
	assert.Equal(t, SeverityInfo, active[1].Severity)
	assert.NotEqual(t, active[0].ID, active[1].ID)

	clock.t = clock.t.Add(1500 * time.Millisecond)
	active = c.Active(clock.t)
	require.Len(t, active, 1)
	assert.Equal(t, "Task deleted", active[0].Message)

	assert.Equal(t, 1, c.Prune(clock.t))
	assert.Equal(t, 1, c.Len())

	clock.t = clock.t.Add(time.Hour)
	assert.Equal(t, 1, c.Prune(clock.t))
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Active(clock.t))
}

func TestCenterDefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewCenter(0).Timeout())
	assert.Equal(t, time.Second, NewCenter(time.Second).Timeout())
}

func TestCenterIDsSortInOrder(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewCenter(time.Minute, WithClock(clock.now))
	for i := 0; i < 50; i++ {
		c.Notify(SeverityInfo, "Task deleted")
	}

	active := c.Active(clock.t)
	require.Len(t, active, 50)
	for i := 1; i < len(active); i++ {
		assert.Less(t, active[i-1].ID, active[i].ID, "IDs from the same millisecond must increase")
	}
}

func TestMulti(t *testing.T) {
	a := NewCenter(time.Minute)
	b := NewCenter(time.Minute)
	Multi{a, nil, b, Discard}.Notify(SeverityNeutral, "Tasks reordered")
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
}

func TestLogNotifierLevels(t *testing.T) {
	tests := []struct {
		severity  Severity
		wantLevel string
		wantField string
	}{
		{SeveritySuccess, "INFO", ""},
		{SeverityInfo, "INFO", ""},
		{SeverityWarning, "WARN", ""},
		{SeverityNeutral, "INFO", "severity=neutral"},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			var buf bytes.Buffer
			logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
			NewLogNotifier(logger).Notify(tt.severity, "message")

			out := buf.String()
			assert.Contains(t, out, tt.wantLevel)
			assert.Contains(t, out, "message")
			if tt.wantField != "" {
				assert.Contains(t, out, tt.wantField)
			}
		})
	}
}

func TestLogNotifierNil(t *testing.T) {
	var n *LogNotifier
	assert.NotPanics(t, func() { n.Notify(SeverityInfo, "x") })
	assert.NotPanics(t, func() { (&LogNotifier{}).Notify(SeverityInfo, "x") })
}
