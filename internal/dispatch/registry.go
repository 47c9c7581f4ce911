package dispatch

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/orgportal-gateway/internal/upstream"
	appErrors "github.com/noah-isme/orgportal-gateway/pkg/errors"
)

// Portal action names. The fragment renderer embeds these in
// data-action attributes.
const (
	ActionActivateYear = "activate-year"
	ActionSwitchYear   = "switch-year"
	ActionApproveFile  = "approve-file"
	ActionDeclineFile  = "decline-file"
	ActionReviewFile   = "review-file"
	ActionReplaceFile  = "replace-file"
	ActionMarkRead     = "mark-read"
	ActionPaymentDue   = "payment-due-notif"
)

// MarkReadObserver is told about successful mark-read relays so the
// notifications panel can flip its cached entry; the incremental poll
// never re-delivers old entries.
type MarkReadObserver interface {
	MarkRead(id int)
}

// NewPortal builds the dispatcher wired to every portal mutation.
// marks is optional.
func NewPortal(client *upstream.Client, marks MarkReadObserver, recorder Recorder, observer Observer, logger *zap.Logger) *Dispatcher {
	d := New(recorder, observer, logger)

	d.Register(ActionActivateYear, func(ctx context.Context, a Action) error {
		id, err := targetInt(a)
		if err != nil {
			return err
		}
		return client.ActivateAcademicYear(ctx, id)
	})

	d.Register(ActionSwitchYear, func(ctx context.Context, a Action) error {
		id, err := targetInt(a)
		if err != nil {
			return err
		}
		return client.SwitchAcademicYear(ctx, id)
	})

	d.Register(ActionApproveFile, reviewHandler(client, "approve"))
	d.Register(ActionDeclineFile, reviewHandler(client, "decline"))
	d.Register(ActionReviewFile, reviewHandler(client, "review"))

	d.Register(ActionReplaceFile, func(ctx context.Context, a Action) error {
		id, err := targetInt(a)
		if err != nil {
			return err
		}
		if a.File == nil {
			return appErrors.Clone(appErrors.ErrValidation, "a replacement file is required")
		}
		return client.ReplaceFile(ctx, id, *a.File)
	})

	d.Register(ActionMarkRead, func(ctx context.Context, a Action) error {
		id, err := targetInt(a)
		if err != nil {
			return err
		}
		if err := client.MarkNotificationRead(ctx, id); err != nil {
			return err
		}
		if marks != nil {
			marks.MarkRead(id)
		}
		return nil
	})

	d.Register(ActionPaymentDue, func(ctx context.Context, a Action) error {
		exists, err := client.CheckPaymentDueNotif(ctx)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		return client.CreatePaymentDueNotif(ctx)
	})

	return d
}

// reviewHandler applies one reviewer verb to a document. Declining
// requires a reason; reviewing a document must not imply the
// organization is accredited, which the upstream enforces and the
// shared status machine mirrors.
func reviewHandler(client *upstream.Client, verb string) Handler {
	return func(ctx context.Context, a Action) error {
		id, err := targetInt(a)
		if err != nil {
			return err
		}
		reason := a.Params["reason"]
		if verb == "decline" && reason == "" {
			return appErrors.Clone(appErrors.ErrValidation, "a reason is required to decline a document")
		}
		_, err = client.ReviewFile(ctx, id, verb, reason)
		return err
	}
}

func targetInt(a Action) (int, error) {
	id, err := strconv.Atoi(a.TargetID)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid target id")
	}
	return id, nil
}
