package panel

import (
	"context"
	"fmt"
	"time"

	"github.com/noah-isme/orgportal-gateway/internal/models"
	"github.com/noah-isme/orgportal-gateway/internal/render"
	"github.com/noah-isme/orgportal-gateway/internal/snapshot"
	"github.com/noah-isme/orgportal-gateway/internal/upstream"
)

type yearLister interface {
	ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error)
	ActiveAcademicYear(ctx context.Context) (*upstream.ActiveYear, error)
}

// AcademicYears is the admin panel listing school-year ranges with
// activate/switch controls and the active-year header card.
type AcademicYears struct {
	base
	source   yearLister
	tracker  *snapshot.Tracker
	view     *render.ViewState
	observer Observer
}

// NewAcademicYears builds the panel.
func NewAcademicYears(source yearLister, interval time.Duration, perPage int, observer Observer) *AcademicYears {
	return &AcademicYears{
		base:     newBase("academic-years", interval),
		source:   source,
		tracker:  snapshot.NewTracker(),
		view:     render.NewViewState(perPage),
		observer: observer,
	}
}

// SetPage implements Pager.
func (p *AcademicYears) SetPage(page int) {
	p.view.SetPage(page)
	p.tracker.Reset(p.name)
}

// Refresh implements Panel.
func (p *AcademicYears) Refresh(ctx context.Context) error {
	seq := p.seq.Next()

	years, err := p.source.ListAcademicYears(ctx)
	if err != nil {
		return fmt.Errorf("fetch academic years: %w", err)
	}
	active, err := p.source.ActiveAcademicYear(ctx)
	if err != nil {
		return fmt.Errorf("fetch active academic year: %w", err)
	}

	if !p.seq.Latest(seq) {
		if p.observer != nil {
			p.observer.ObserveStaleDrop(p.name)
		}
		return nil
	}

	payload := struct {
		Years  []models.AcademicYear `json:"years"`
		Active *upstream.ActiveYear  `json:"active"`
		Page   int                   `json:"page"`
	}{years, active, p.view.Page()}

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

	header := active.DisplayLabel()
	if header == "" {
		header = fmt.Sprintf("%d - %d", active.StartYear, active.EndYear)
	}

	pagination, from, to := p.view.Paginate(len(years))
	start := time.Now()
	html, err := render.AcademicYears(header, years[from:to], pagination)
	if err != nil {
		return err
	}
	if p.observer != nil {
		p.observer.ObserveRender(p.name, time.Since(start))
	}
	p.setFragment(html, seq)
	return nil
}
