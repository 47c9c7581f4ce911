package panel

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/orgportal-gateway/pkg/errors"
)

// State is the lifecycle position of a mounted panel.
type State string

const (
	StateUnmounted State = "unmounted"
	StateMounting  State = "mounting"
	StatePolling   State = "polling"
	StateIdle      State = "idle"
)

type mount struct {
	cancel context.CancelFunc
	kick   chan struct{}
	done   chan struct{}
	state  State
}

// Host owns panel lifecycles. The legacy client discovered panel
// mounts by probing DOM mutations; here the SPA shell declares them
// through Mount and Unmount, and the host runs one poll goroutine
// per mounted panel.
type Host struct {
	logger   *zap.Logger
	observer Observer

	mu      sync.Mutex
	baseCtx context.Context
	panels  map[string]Panel
	mounts  map[string]*mount
}

// NewHost builds an empty host. The observer is optional.
func NewHost(observer Observer, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{
		logger:   logger,
		observer: observer,
		baseCtx:  context.Background(),
		panels:   make(map[string]Panel),
		mounts:   make(map[string]*mount),
	}
}

// Register makes a panel mountable.
func (h *Host) Register(p Panel) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.panels[p.Name()] = p
}

// Start binds the host to its lifetime context. Mounted loops stop
// when it is cancelled.
func (h *Host) Start(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.baseCtx = ctx
}

// Mount starts the poll loop for a panel. Mounting an already
// mounted panel never re-runs one-time setup; it forces an immediate
// refresh instead, matching route re-entry semantics.
func (h *Host) Mount(name string) error {
	h.mu.Lock()
	p, ok := h.panels[name]
	if !ok {
		h.mu.Unlock()
		return appErrors.Clone(appErrors.ErrPanelUnknown, "unknown panel: "+name)
	}
	if m, mounted := h.mounts[name]; mounted {
		h.mu.Unlock()
		kick(m)
		return nil
	}

	ctx, cancel := context.WithCancel(h.baseCtx)
	m := &mount{
		cancel: cancel,
		kick:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		state:  StateMounting,
	}
	h.mounts[name] = m
	h.mu.Unlock()

	h.logger.Info("panel mounted", zap.String("panel", name))
	go h.loop(ctx, p, m)
	return nil
}

// Unmount stops a panel's poll loop and waits for it to exit. No
// further upstream fetches happen afterwards.
func (h *Host) Unmount(name string) error {
	h.mu.Lock()
	m, ok := h.mounts[name]
	if !ok {
		h.mu.Unlock()
		return appErrors.Clone(appErrors.ErrPanelUnmounted, "panel is not mounted: "+name)
	}
	delete(h.mounts, name)
	h.mu.Unlock()

	m.cancel()
	<-m.done
	h.logger.Info("panel unmounted", zap.String("panel", name))
	return nil
}

// Kick forces an immediate refresh, bypassing the poll interval.
// Dispatched actions use it so the UI reflects mutations without
// waiting for the next tick.
func (h *Host) Kick(name string) error {
	h.mu.Lock()
	m, ok := h.mounts[name]
	h.mu.Unlock()
	if !ok {
		return appErrors.Clone(appErrors.ErrPanelUnmounted, "panel is not mounted: "+name)
	}
	kick(m)
	return nil
}

// Fragment returns the panel's last rendered fragment.
func (h *Host) Fragment(name string) (Fragment, error) {
	h.mu.Lock()
	p, ok := h.panels[name]
	_, mounted := h.mounts[name]
	h.mu.Unlock()
	if !ok {
		return Fragment{}, appErrors.Clone(appErrors.ErrPanelUnknown, "unknown panel: "+name)
	}
	if !mounted {
		return Fragment{}, appErrors.Clone(appErrors.ErrPanelUnmounted, "panel is not mounted: "+name)
	}
	fragment, ready := p.Fragment()
	if !ready {
		return Fragment{}, appErrors.Clone(appErrors.ErrNotFound, "panel has not rendered yet")
	}
	return fragment, nil
}

// SetPage moves a paginated panel to the requested page and
// re-renders inline, so the fragment served next already reflects
// the new page.
func (h *Host) SetPage(ctx context.Context, name string, page int) error {
	h.mu.Lock()
	p, ok := h.panels[name]
	_, mounted := h.mounts[name]
	h.mu.Unlock()
	if !ok {
		return appErrors.Clone(appErrors.ErrPanelUnknown, "unknown panel: "+name)
	}
	pager, ok := p.(Pager)
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, "panel is not paginated: "+name)
	}
	if !mounted {
		return appErrors.Clone(appErrors.ErrPanelUnmounted, "panel is not mounted: "+name)
	}
	pager.SetPage(page)
	return h.refresh(ctx, p)
}

// SetViewMode switches a panel's presentation mode and re-renders
// inline.
func (h *Host) SetViewMode(ctx context.Context, name, mode string) error {
	h.mu.Lock()
	p, ok := h.panels[name]
	_, mounted := h.mounts[name]
	h.mu.Unlock()
	if !ok {
		return appErrors.Clone(appErrors.ErrPanelUnknown, "unknown panel: "+name)
	}
	switcher, ok := p.(ModeSwitcher)
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, "panel has no view modes: "+name)
	}
	if !mounted {
		return appErrors.Clone(appErrors.ErrPanelUnmounted, "panel is not mounted: "+name)
	}
	switcher.SetViewMode(mode)
	return h.refresh(ctx, p)
}

// PanelState reports the lifecycle state of a panel.
func (h *Host) PanelState(name string) State {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.mounts[name]; ok {
		return m.state
	}
	if _, ok := h.panels[name]; ok {
		return StateUnmounted
	}
	return StateUnmounted
}

// Shutdown cancels every mounted panel and waits for the loops.
func (h *Host) Shutdown() {
	h.mu.Lock()
	mounts := make([]*mount, 0, len(h.mounts))
	for name, m := range h.mounts {
		mounts = append(mounts, m)
		delete(h.mounts, name)
	}
	h.mu.Unlock()

	for _, m := range mounts {
		m.cancel()
		<-m.done
	}
}

func (h *Host) loop(ctx context.Context, p Panel, m *mount) {
	defer close(m.done)

	h.refresh(ctx, p)
	h.setState(m, StatePolling)

	ticker := time.NewTicker(p.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.setState(m, StateIdle)
			return
		case <-m.kick:
			h.refresh(ctx, p)
		case <-ticker.C:
			h.refresh(ctx, p)
		}
	}
}

func (h *Host) refresh(ctx context.Context, p Panel) error {
	start := time.Now()
	err := p.Refresh(ctx)
	if h.observer != nil {
		h.observer.ObservePollTick(p.Name(), time.Since(start), err)
	}
	if err != nil && ctx.Err() == nil {
		// A failed cycle leaves the previous fragment in place; the
		// next tick is the retry.
		h.logger.Warn("panel refresh failed", zap.String("panel", p.Name()), zap.Error(err))
	}
	return err
}

func (h *Host) setState(m *mount, s State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m.state = s
}

func kick(m *mount) {
	select {
	case m.kick <- struct{}{}:
	default:
	}
}
