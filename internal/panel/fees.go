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
	"github.com/noah-isme/orgportal-gateway/internal/upstream"
)

type feeSource interface {
	UserOrganizationFees(ctx context.Context, query url.Values) ([]models.Fee, error)
	UserPaymentHistory(ctx context.Context, query url.Values) ([]models.Payment, error)
	CheckUnpaidFees(ctx context.Context) (*upstream.UnpaidSummary, error)
}

// Fees is the member panel showing organization fees, payment history
// and the unpaid-balance banner.
type Fees struct {
	base
	source   feeSource
	scope    scopeSource
	tracker  *snapshot.Tracker
	view     *render.ViewState
	observer Observer
}

// NewFees builds the panel.
func NewFees(source feeSource, scope scopeSource, interval time.Duration, perPage int, observer Observer) *Fees {
	return &Fees{
		base:     newBase("fees", interval),
		source:   source,
		scope:    scope,
		tracker:  snapshot.NewTracker(),
		view:     render.NewViewState(perPage),
		observer: observer,
	}
}

// SetPage implements Pager.
func (p *Fees) SetPage(page int) {
	p.view.SetPage(page)
	p.tracker.Reset(p.name)
}

// Refresh implements Panel.
func (p *Fees) Refresh(ctx context.Context) error {
	seq := p.seq.Next()
	scope := p.scope.Current()

	fees, err := p.source.UserOrganizationFees(ctx, scope.Query())
	if err != nil {
		return fmt.Errorf("fetch fees: %w", err)
	}
	payments, err := p.source.UserPaymentHistory(ctx, scope.Query())
	if err != nil {
		return fmt.Errorf("fetch payment history: %w", err)
	}
	summary, err := p.source.CheckUnpaidFees(ctx)
	if err != nil {
		return fmt.Errorf("check unpaid fees: %w", err)
	}

	if !p.seq.Latest(seq) {
		if p.observer != nil {
			p.observer.ObserveStaleDrop(p.name)
		}
		return nil
	}

	p.view.Rescope(scope.Query().Encode())

	payload := struct {
		Fees     []models.Fee            `json:"fees"`
		Payments []models.Payment        `json:"payments"`
		Summary  *upstream.UnpaidSummary `json:"summary"`
		Scope    acadyear.Scope          `json:"scope"`
		Page     int                     `json:"page"`
	}{fees, payments, summary, scope, p.view.Page()}

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

	var banner *render.UnpaidBanner
	if summary != nil && summary.HasUnpaid {
		banner = &render.UnpaidBanner{Count: summary.Count, Total: summary.Total}
	}

	pagination, from, to := p.view.Paginate(len(fees))
	start := time.Now()
	html, err := render.Fees(fees[from:to], payments, banner, pagination)
	if err != nil {
		return err
	}
	if p.observer != nil {
		p.observer.ObserveRender(p.name, time.Since(start))
	}
	p.setFragment(html, seq)
	return nil
}
