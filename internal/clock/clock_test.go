package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFakeAdvanceFiresInDeadlineOrder(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFake(start)

	var fired []string
	c.AfterFunc(300*time.Millisecond, func() { fired = append(fired, "late") })
	c.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "early") })
	c.AfterFunc(time.Second, func() { fired = append(fired, "never") })

	c.Advance(500 * time.Millisecond)

	require.Equal(t, []string{"early", "late"}, fired)
	require.Equal(t, start.Add(500*time.Millisecond), c.Now())
	require.Equal(t, 1, c.Pending())
}

func TestFakeStopPreventsCallback(t *testing.T) {
	t.Parallel()

	c := NewFake(time.Unix(0, 0))
	called := false
	timer := c.AfterFunc(time.Second, func() { called = true })

	require.True(t, timer.Stop())
	require.False(t, timer.Stop())

	c.Advance(2 * time.Second)
	require.False(t, called)
	require.Zero(t, c.Pending())
}

func TestFakeCallbackCanScheduleMore(t *testing.T) {
	t.Parallel()

	c := NewFake(time.Unix(0, 0))
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			c.AfterFunc(time.Second, tick)
		}
	}
	c.AfterFunc(time.Second, tick)

	c.Advance(10 * time.Second)
	require.Equal(t, 3, count)
}

func TestRealClockAfterFunc(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	Real().AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("real timer did not fire")
	}
}
