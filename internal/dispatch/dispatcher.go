// Package dispatch maps UI actions onto upstream mutations. A
// successful dispatch is followed by an immediate panel refresh so
// the UI reflects the mutation without waiting for the next poll
// tick; that kick is the caller's job.
package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/orgportal-gateway/internal/models"
	"github.com/noah-isme/orgportal-gateway/internal/upstream"
	appErrors "github.com/noah-isme/orgportal-gateway/pkg/errors"
)

// Action is one user-triggered mutation resolved from the rendered
// fragment's data attributes. File carries the upload for
// replace-file; Meta carries request attribution for the audit trail.
type Action struct {
	Name     string             `json:"name"`
	Panel    string             `json:"panel"`
	TargetID string             `json:"target_id"`
	Params   map[string]string  `json:"params,omitempty"`
	File     *upstream.FilePart `json:"-"`
	Meta     Meta               `json:"-"`
}

// Meta identifies who triggered an action and from where.
type Meta struct {
	UserID    *int
	IPAddress string
	UserAgent string
}

// Handler applies a single action to its target.
type Handler func(ctx context.Context, action Action) error

// Recorder receives the audit record of every attempted dispatch.
type Recorder interface {
	Record(ctx context.Context, entry models.ActionAudit)
}

// Observer counts dispatch outcomes for metrics.
type Observer interface {
	ObserveDispatch(action string, success bool, duration time.Duration)
}

// Dispatcher routes actions to their registered handlers.
type Dispatcher struct {
	handlers map[string]Handler
	recorder Recorder
	observer Observer
	logger   *zap.Logger
}

// New builds an empty dispatcher. Recorder and observer are optional.
func New(recorder Recorder, observer Observer, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		handlers: make(map[string]Handler),
		recorder: recorder,
		observer: observer,
		logger:   logger,
	}
}

// Register binds an action name to its handler.
func (d *Dispatcher) Register(name string, handler Handler) {
	d.handlers[name] = handler
}

// Dispatch applies one action. Upstream failures come back as typed
// gateway errors carrying the server-provided message when present.
func (d *Dispatcher) Dispatch(ctx context.Context, action Action) error {
	handler, ok := d.handlers[action.Name]
	if !ok {
		return appErrors.Clone(appErrors.ErrActionUnknown, "unknown action: "+action.Name)
	}

	start := time.Now()
	err := handler(ctx, action)
	duration := time.Since(start)

	if d.observer != nil {
		d.observer.ObserveDispatch(action.Name, err == nil, duration)
	}
	d.record(ctx, action, err)

	if err != nil {
		d.logger.Warn("action dispatch failed",
			zap.String("action", action.Name),
			zap.String("target", action.TargetID),
			zap.Error(err))
		return normalize(err)
	}
	return nil
}

// Batch applies the action to every target and reports partial
// success. No target is skipped because an earlier one failed, and
// nothing is rolled back; the result carries both lists so the
// caller can report accurately.
func (d *Dispatcher) Batch(ctx context.Context, action Action, targets []string) models.BatchResult {
	result := models.BatchResult{}
	for _, target := range targets {
		single := action
		single.TargetID = target
		if err := d.Dispatch(ctx, single); err != nil {
			result.Failed = append(result.Failed, models.BatchFailure{
				ID:     target,
				Reason: appErrors.FromError(err).Message,
			})
			continue
		}
		result.Succeeded = append(result.Succeeded, target)
	}
	return result
}

func (d *Dispatcher) record(ctx context.Context, action Action, err error) {
	if d.recorder == nil {
		return
	}
	entry := models.ActionAudit{
		ID:        uuid.NewString(),
		UserID:    action.Meta.UserID,
		Panel:     action.Panel,
		Action:    action.Name,
		TargetID:  action.TargetID,
		Outcome:   models.AuditOutcomeSuccess,
		IPAddress: action.Meta.IPAddress,
		UserAgent: action.Meta.UserAgent,
		CreatedAt: time.Now().UTC(),
	}
	if err != nil {
		entry.Outcome = models.AuditOutcomeFailure
		entry.Message = err.Error()
	}
	d.recorder.Record(ctx, entry)
}

// normalize converts upstream failures into gateway errors with the
// server-provided message, keeping raw bodies out of user responses.
func normalize(err error) error {
	var upErr *upstream.Error
	if errors.As(err, &upErr) {
		message := upErr.Message
		if message == "" {
			message = "the request could not be completed"
		}
		return appErrors.Wrap(err, appErrors.ErrUpstreamStatus.Code, appErrors.ErrUpstreamStatus.Status, message)
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "upstream request failed")
}
