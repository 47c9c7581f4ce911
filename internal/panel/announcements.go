package panel

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/noah-isme/orgportal-gateway/internal/models"
	"github.com/noah-isme/orgportal-gateway/internal/render"
	"github.com/noah-isme/orgportal-gateway/internal/snapshot"
)

type announcementSource interface {
	ListAnnouncements(ctx context.Context, query url.Values) ([]models.Announcement, error)
}

// Announcements is the portal-wide announcement feed.
type Announcements struct {
	base
	source   announcementSource
	tracker  *snapshot.Tracker
	view     *render.ViewState
	observer Observer
}

// NewAnnouncements builds the panel.
func NewAnnouncements(source announcementSource, interval time.Duration, perPage int, observer Observer) *Announcements {
	return &Announcements{
		base:     newBase("announcements", interval),
		source:   source,
		tracker:  snapshot.NewTracker(),
		view:     render.NewViewState(perPage),
		observer: observer,
	}
}

// SetPage implements Pager.
func (p *Announcements) SetPage(page int) {
	p.view.SetPage(page)
	p.tracker.Reset(p.name)
}

// Refresh implements Panel.
func (p *Announcements) Refresh(ctx context.Context) error {
	seq := p.seq.Next()

	list, err := p.source.ListAnnouncements(ctx, nil)
	if err != nil {
		return fmt.Errorf("fetch announcements: %w", err)
	}

	if !p.seq.Latest(seq) {
		if p.observer != nil {
			p.observer.ObserveStaleDrop(p.name)
		}
		return nil
	}

	payload := struct {
		List []models.Announcement `json:"list"`
		Page int                   `json:"page"`
	}{list, p.view.Page()}

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

	pagination, from, to := p.view.Paginate(len(list))
	start := time.Now()
	html, err := render.Announcements(list[from:to], pagination)
	if err != nil {
		return err
	}
	if p.observer != nil {
		p.observer.ObserveRender(p.name, time.Since(start))
	}
	p.setFragment(html, seq)
	return nil
}
