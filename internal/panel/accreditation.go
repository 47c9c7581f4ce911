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

type orgSource interface {
	ListAccreditationOrganizations(ctx context.Context, query url.Values) ([]models.Organization, error)
}

type scopeSource interface {
	Current() acadyear.Scope
}

// Accreditation is the admin panel listing organizations with their
// document checklists, scoped to the selected academic year.
type Accreditation struct {
	base
	source   orgSource
	scope    scopeSource
	tracker  *snapshot.Tracker
	view     *render.ViewState
	observer Observer
}

// NewAccreditation builds the panel over the org endpoints and the
// shared academic-year scope.
func NewAccreditation(source orgSource, scope scopeSource, interval time.Duration, perPage int, observer Observer) *Accreditation {
	view := render.NewViewState(perPage)
	// The review checklist lives on the cards; the table is the
	// compact opt-in.
	view.SetMode(render.ModeCards)
	return &Accreditation{
		base:     newBase("accreditation", interval),
		source:   source,
		scope:    scope,
		tracker:  snapshot.NewTracker(),
		view:     view,
		observer: observer,
	}
}

// SetPage implements Pager.
func (p *Accreditation) SetPage(page int) {
	p.view.SetPage(page)
	p.tracker.Reset(p.name)
}

// SetViewMode implements ModeSwitcher. The admin screen toggles
// between the card checklist and a compact table.
func (p *Accreditation) SetViewMode(mode string) {
	p.view.SetMode(mode)
	p.tracker.Reset(p.name)
}

// Refresh implements Panel.
func (p *Accreditation) Refresh(ctx context.Context) error {
	seq := p.seq.Next()
	scope := p.scope.Current()

	orgs, err := p.source.ListAccreditationOrganizations(ctx, scope.Query())
	if err != nil {
		return fmt.Errorf("fetch organizations: %w", err)
	}

	if !p.seq.Latest(seq) {
		if p.observer != nil {
			p.observer.ObserveStaleDrop(p.name)
		}
		return nil
	}

	// A scope switch invalidates the previous snapshot and pagination.
	p.view.Rescope(scope.Query().Encode())

	payload := struct {
		Orgs  []models.Organization `json:"orgs"`
		Scope acadyear.Scope        `json:"scope"`
		Page  int                   `json:"page"`
	}{orgs, scope, p.view.Page()}

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

	pagination, from, to := p.view.Paginate(len(orgs))
	start := time.Now()
	html, err := render.Accreditation(orgs[from:to], p.view.Mode(), pagination)
	if err != nil {
		return err
	}
	if p.observer != nil {
		p.observer.ObserveRender(p.name, time.Since(start))
	}
	p.setFragment(html, seq)
	return nil
}
