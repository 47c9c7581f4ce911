package panel

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/noah-isme/orgportal-gateway/internal/acadyear"
	"github.com/noah-isme/orgportal-gateway/internal/models"
	"github.com/noah-isme/orgportal-gateway/internal/render"
	"github.com/noah-isme/orgportal-gateway/internal/snapshot"
)

type eventSource interface {
	ListStudentEvents(ctx context.Context, query url.Values) ([]models.Event, error)
}

// Events is the member panel listing scoped events with their
// credit/debit ledgers.
type Events struct {
	base
	source   eventSource
	scope    scopeSource
	tracker  *snapshot.Tracker
	view     *render.ViewState
	observer Observer
}

// NewEvents builds the panel.
func NewEvents(source eventSource, scope scopeSource, interval time.Duration, perPage int, observer Observer) *Events {
	return &Events{
		base:     newBase("events", interval),
		source:   source,
		scope:    scope,
		tracker:  snapshot.NewTracker(),
		view:     render.NewViewState(perPage),
		observer: observer,
	}
}

// SetPage implements Pager.
func (p *Events) SetPage(page int) {
	p.view.SetPage(page)
	p.tracker.Reset(p.name)
}

// Refresh implements Panel.
func (p *Events) Refresh(ctx context.Context) error {
	seq := p.seq.Next()
	scope := p.scope.Current()

	events, err := p.source.ListStudentEvents(ctx, scope.Query())
	if err != nil {
		return fmt.Errorf("fetch events: %w", err)
	}

	if !p.seq.Latest(seq) {
		if p.observer != nil {
			p.observer.ObserveStaleDrop(p.name)
		}
		return nil
	}

	p.view.Rescope(scope.Query().Encode())

	payload := struct {
		Events []models.Event `json:"events"`
		Scope  acadyear.Scope `json:"scope"`
		Page   int            `json:"page"`
	}{events, scope, p.view.Page()}

	changed, err := p.tracker.Changed(p.name, payload)
	if err != nil {
		return err
	}
	if p.observer != nil {
		p.observer.ObserveSnapshot(p.name, changed)
	}
	if !changed {
		return nil
	}

	pagination, from, to := p.view.Paginate(len(events))
	start := time.Now()
	html, err := render.Events(events[from:to], pagination)
	if err != nil {
		return err
	}
	if p.observer != nil {
		p.observer.ObserveRender(p.name, time.Since(start))
	}
	p.setFragment(html, seq)
	return nil
}
