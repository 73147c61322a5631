package progress

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/crosshair/internal/clock"
)

func newController(t *testing.T) (*Controller, *clock.Fake) {
	t.Helper()
	fake := clock.NewFake(time.Unix(0, 0))
	return New(Options{Clock: fake}), fake
}

func TestControllerClamps(t *testing.T) {
	t.Parallel()

	c, _ := newController(t)

	c.Start()
	assert.Equal(t, State{Running: true}, c.State())

	c.Set(150)
	assert.Equal(t, 100.0, c.State().Percent)

	c.Reset()
	c.Decrement()
	assert.Equal(t, 0.0, c.State().Percent)

	c.Set(-5)
	assert.Equal(t, 0.0, c.State().Percent)

	c.Set(math.NaN())
	assert.Equal(t, 0.0, c.State().Percent)
}

func TestControllerSteps(t *testing.T) {
	t.Parallel()

	c, _ := newController(t)
	c.Start()

	c.Increment()
	assert.Equal(t, 10.0, c.State().Percent)

	c.Increment(25)
	assert.Equal(t, 35.0, c.State().Percent)

	c.Decrement(5)
	assert.Equal(t, 30.0, c.State().Percent)

	c.Increment(1000)
	assert.Equal(t, 100.0, c.State().Percent)

	custom := New(Options{Step: 3, Clock: clock.NewFake(time.Unix(0, 0))})
	custom.Increment()
	assert.Equal(t, 3.0, custom.State().Percent)
}

func TestControllerStopKeepsPercent(t *testing.T) {
	t.Parallel()

	c, _ := newController(t)
	c.Start()
	c.Set(42)
	c.Stop()

	assert.Equal(t, State{Percent: 42}, c.State())
}

func TestControllerCompleteAutoResets(t *testing.T) {
	t.Parallel()

	c, fake := newController(t)
	c.Start()
	c.Set(60)
	c.Complete()

	assert.Equal(t, State{Percent: 100, Completed: true}, c.State())
	require.Equal(t, 1, fake.Pending())

	fake.Advance(DefaultResetDelay - time.Millisecond)
	assert.Equal(t, 100.0, c.State().Percent)

	fake.Advance(time.Millisecond)
	assert.Equal(t, State{}, c.State())
	assert.Zero(t, fake.Pending())
}

func TestControllerSingleAutoReset(t *testing.T) {
	t.Parallel()

	c, fake := newController(t)
	c.Complete()
	fake.Advance(300 * time.Millisecond)
	c.Complete()

	assert.Equal(t, 1, fake.Pending())

	// the first completion's deadline passes without resetting
	fake.Advance(200 * time.Millisecond)
	assert.Equal(t, 100.0, c.State().Percent)

	fake.Advance(200 * time.Millisecond)
	assert.Equal(t, 0.0, c.State().Percent)
}

func TestControllerOperationsCancelAutoReset(t *testing.T) {
	t.Parallel()

	ops := map[string]func(c *Controller){
		"start":     func(c *Controller) { c.Start() },
		"stop":      func(c *Controller) { c.Stop() },
		"set":       func(c *Controller) { c.Set(70) },
		"increment": func(c *Controller) { c.Increment() },
		"decrement": func(c *Controller) { c.Decrement() },
		"reset":     func(c *Controller) { c.Reset() },
	}

	for name, op := range ops {
		name, op := name, op
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c, fake := newController(t)
			c.Complete()
			op(c)
			want := c.State()

			assert.Zero(t, fake.Pending())
			assert.False(t, want.Completed)

			fake.Advance(time.Second)
			assert.Equal(t, want, c.State())
		})
	}
}

func TestControllerSubscribe(t *testing.T) {
	t.Parallel()

	c, fake := newController(t)
	var seen []float64
	unsubscribe := c.Subscribe(func(s State) { seen = append(seen, s.Percent) })

	c.Start()
	c.Increment()
	c.Complete()
	fake.Advance(DefaultResetDelay)
	unsubscribe()
	c.Set(50)

	assert.Equal(t, []float64{0, 10, 100, 0}, seen)
}

func TestControllerListenerMayDriveController(t *testing.T) {
	t.Parallel()

	c, fake := newController(t)
	restarted := false
	c.Subscribe(func(s State) {
		if !restarted && s == (State{}) {
			restarted = true
			c.Set(50)
		}
	})
	var seen []State
	c.Subscribe(func(s State) { seen = append(seen, s) })

	c.Complete()
	fake.Advance(DefaultResetDelay)

	require.True(t, restarted)
	require.NotEmpty(t, seen)
	assert.Equal(t, State{Percent: 50}, c.State())
	assert.Equal(t, c.State(), seen[len(seen)-1], "the reset must not be delivered after the newer state")
}

func TestControllerConcurrentListenersSeeOrderedStates(t *testing.T) {
	t.Parallel()

	c, _ := newController(t)
	var (
		mu   sync.Mutex
		seen []float64
	)
	c.Subscribe(func(s State) {
		mu.Lock()
		seen = append(seen, s.Percent)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Increment(1)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	for i := 1; i < len(seen); i++ {
		assert.Greater(t, seen[i], seen[i-1])
	}
	assert.Equal(t, c.State().Percent, seen[len(seen)-1])
	assert.Equal(t, 40.0, c.State().Percent)
}
