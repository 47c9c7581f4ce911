// Package panel runs the poll-diff-render loop for every routed
// portal section. A panel fetches its records from the legacy
// endpoints, gates rendering on a snapshot diff, and keeps the last
// rendered fragment for the HTTP layer to serve.
package panel

import (
	"context"
	"sync"
	"time"
)

// Fragment is the last rendered output of a panel.
type Fragment struct {
	HTML       string    `json:"html"`
	Seq        uint64    `json:"seq"`
	RenderedAt time.Time `json:"rendered_at"`
}

// Panel is one routed portal section.
type Panel interface {
	Name() string
	Interval() time.Duration

	// Refresh performs one fetch-diff-render cycle. Implementations
	// drop their result when a newer cycle was issued meanwhile.
	Refresh(ctx context.Context) error

	// Fragment returns the last rendered fragment; ok is false until
	// the first successful render.
	Fragment() (Fragment, bool)
}

// Pager is implemented by panels with paginated fragments.
type Pager interface {
	SetPage(page int)
}

// ModeSwitcher is implemented by panels with a table/cards toggle.
type ModeSwitcher interface {
	SetViewMode(mode string)
}

// Observer receives reconciliation telemetry.
type Observer interface {
	ObservePollTick(panel string, duration time.Duration, err error)
	ObserveSnapshot(panel string, changed bool)
	ObserveRender(panel string, duration time.Duration)
	ObserveStaleDrop(panel string)
}

// Sequencer orders overlapping refresh cycles. Every cycle takes a
// monotonically increasing number before fetching; only the latest
// issued cycle may apply its result, so a slow in-flight poll can
// never overwrite the outcome of a fresher user-triggered refresh.
type Sequencer struct {
	mu     sync.Mutex
	issued uint64
}

// Next issues the sequence number for a new cycle.
func (s *Sequencer) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Latest reports whether seq is still the most recently issued cycle.
func (s *Sequencer) Latest(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.issued
}

// base carries the state every concrete panel shares.
type base struct {
	name     string
	interval time.Duration
	seq      Sequencer

	mu       sync.Mutex
	fragment Fragment
	ready    bool
}

func newBase(name string, interval time.Duration) base {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return base{name: name, interval: interval}
}

// Name implements Panel.
func (b *base) Name() string { return b.name }

// Interval implements Panel.
func (b *base) Interval() time.Duration { return b.interval }

// Fragment implements Panel.
func (b *base) Fragment() (Fragment, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fragment, b.ready
}

func (b *base) setFragment(html string, seq uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fragment = Fragment{HTML: html, Seq: seq, RenderedAt: time.Now().UTC()}
	b.ready = true
}
