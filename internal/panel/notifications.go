package panel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/noah-isme/orgportal-gateway/internal/models"
	"github.com/noah-isme/orgportal-gateway/internal/render"
	"github.com/noah-isme/orgportal-gateway/internal/snapshot"
)

// maxNotifications caps the merged list so the fragment stays bounded
// on long-lived sessions.
const maxNotifications = 50

type notificationSource interface {
	Notifications(ctx context.Context, afterID int) ([]models.Notification, int, error)
}

// Notifications polls incrementally: each cycle asks the upstream only
// for entries newer than the highest id seen and prepends them to the
// cached list.
type Notifications struct {
	base
	source   notificationSource
	tracker  *snapshot.Tracker
	observer Observer

	listMu  sync.Mutex
	entries []models.Notification
	lastID  int
}

// NewNotifications builds the panel.
func NewNotifications(source notificationSource, interval time.Duration, observer Observer) *Notifications {
	return &Notifications{
		base:     newBase("notifications", interval),
		source:   source,
		tracker:  snapshot.NewTracker(),
		observer: observer,
	}
}

// MarkRead flips the cached entry after a successful mark-read action
// so the next render reflects it without a full refetch.
func (p *Notifications) MarkRead(id int) {
	p.listMu.Lock()
	for i := range p.entries {
		if p.entries[i].ID == id {
			p.entries[i].Read = true
		}
	}
	p.listMu.Unlock()
	p.tracker.Reset(p.name)
}

// Refresh implements Panel.
func (p *Notifications) Refresh(ctx context.Context) error {
	seq := p.seq.Next()

	p.listMu.Lock()
	afterID := p.lastID
	p.listMu.Unlock()

	fresh, latestID, err := p.source.Notifications(ctx, afterID)
	if err != nil {
		return fmt.Errorf("fetch notifications: %w", err)
	}

	if !p.seq.Latest(seq) {
		if p.observer != nil {
			p.observer.ObserveStaleDrop(p.name)
		}
		return nil
	}

	p.listMu.Lock()
	if len(fresh) > 0 {
		merged := make([]models.Notification, 0, len(fresh)+len(p.entries))
		merged = append(merged, fresh...)
		merged = append(merged, p.entries...)
		if len(merged) > maxNotifications {
			merged = merged[:maxNotifications]
		}
		p.entries = merged
	}
	if latestID > p.lastID {
		p.lastID = latestID
	}
	entries := make([]models.Notification, len(p.entries))
	copy(entries, p.entries)
	p.listMu.Unlock()

	changed, err := p.tracker.Changed(p.name, entries)
	if err != nil {
		return err
	}
	if p.observer != nil {
		p.observer.ObserveSnapshot(p.name, changed)
	}
	if !changed {
		return nil
	}

	start := time.Now()
	html, err := render.Notifications(entries)
	if err != nil {
		return err
	}
	if p.observer != nil {
		p.observer.ObserveRender(p.name, time.Since(start))
	}
	p.setFragment(html, seq)
	return nil
}
