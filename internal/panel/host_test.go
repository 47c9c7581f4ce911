package panel

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPanel struct {
	base
	refreshes atomic.Int64
}

func newCountingPanel(name string, interval time.Duration) *countingPanel {
	return &countingPanel{base: newBase(name, interval)}
}

func (p *countingPanel) Refresh(ctx context.Context) error {
	n := p.refreshes.Add(1)
	p.setFragment("<div>tick</div>", uint64(n))
	return nil
}

func TestHostMountStartsPolling(t *testing.T) {
	host := NewHost(nil, nil)
	p := newCountingPanel("ticker", 10*time.Millisecond)
	host.Register(p)
	host.Start(context.Background())
	defer host.Shutdown()

	require.NoError(t, host.Mount("ticker"))

	require.Eventually(t, func() bool {
		return p.refreshes.Load() >= 3
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, StatePolling, host.PanelState("ticker"))

	frag, err := host.Fragment("ticker")
	require.NoError(t, err)
	assert.Equal(t, "<div>tick</div>", frag.HTML)
}

func TestHostUnmountStopsFetching(t *testing.T) {
	host := NewHost(nil, nil)
	p := newCountingPanel("ticker", 5*time.Millisecond)
	host.Register(p)
	host.Start(context.Background())
	defer host.Shutdown()

	require.NoError(t, host.Mount("ticker"))
	require.Eventually(t, func() bool {
		return p.refreshes.Load() >= 1
	}, time.Second, time.Millisecond)

	require.NoError(t, host.Unmount("ticker"))
	assert.Equal(t, StateUnmounted, host.PanelState("ticker"))

	settled := p.refreshes.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, p.refreshes.Load(), "no fetches after teardown")
}

func TestHostRemountIsRefreshNotReinit(t *testing.T) {
	host := NewHost(nil, nil)
	p := newCountingPanel("ticker", time.Hour)
	host.Register(p)
	host.Start(context.Background())
	defer host.Shutdown()

	require.NoError(t, host.Mount("ticker"))
	require.Eventually(t, func() bool {
		return p.refreshes.Load() == 1
	}, time.Second, time.Millisecond)

	// Mounting an already-mounted panel kicks an immediate refresh on
	// the existing loop instead of spawning a second one.
	require.NoError(t, host.Mount("ticker"))
	require.Eventually(t, func() bool {
		return p.refreshes.Load() == 2
	}, time.Second, time.Millisecond)
	assert.Equal(t, StatePolling, host.PanelState("ticker"))
}

func TestHostKickUnknownPanel(t *testing.T) {
	host := NewHost(nil, nil)
	host.Start(context.Background())
	defer host.Shutdown()

	assert.Error(t, host.Kick("nope"))
	assert.Error(t, host.Mount("nope"))
	_, err := host.Fragment("nope")
	assert.Error(t, err)
}

type failingPanel struct {
	base
}

func (p *failingPanel) Refresh(ctx context.Context) error {
	return context.DeadlineExceeded
}

func TestHostFragmentBeforeFirstRender(t *testing.T) {
	host := NewHost(nil, nil)
	p := &failingPanel{base: newBase("broken", time.Hour)}
	host.Register(p)
	host.Start(context.Background())
	defer host.Shutdown()

	_, err := host.Fragment("broken")
	assert.Error(t, err, "unmounted panels serve no fragment")

	require.NoError(t, host.Mount("broken"))
	require.Eventually(t, func() bool {
		return host.PanelState("broken") == StatePolling
	}, time.Second, time.Millisecond)

	_, err = host.Fragment("broken")
	assert.Error(t, err, "no fragment until the first successful render")
}

func TestSequencerDropsStaleCycle(t *testing.T) {
	var s Sequencer
	first := s.Next()
	second := s.Next()

	assert.False(t, s.Latest(first), "an older cycle must not apply")
	assert.True(t, s.Latest(second))
}
