package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"contentflow/internal/config"
	"contentflow/internal/models"
	"contentflow/internal/realtime"
)

// AlertStore is the read surface the notifier needs to enrich a bus event
// into a full email.
type AlertStore interface {
	GetContentPiece(ctx context.Context, id uuid.UUID) (*models.ContentPiece, error)
	GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error)
	GetAgencyStaffEmails(ctx context.Context, agencyID uuid.UUID) ([]string, error)
	ListAdjustmentRequestsForContent(ctx context.Context, contentID uuid.UUID) ([]models.AdjustmentRequest, error)
}

// Notifier turns alert-worthy transition events into agency-staff emails.
type Notifier struct {
	service   *Service
	templates *Templates
	store     AlertStore
}

// NewNotifier creates a notifier backed by the given store.
func NewNotifier(cfg *config.Config, store AlertStore) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		store:     store,
	}
}

// TransitionAlert emails agency staff about a transition into approved or
// changes_requested. Other events are ignored.
func (n *Notifier) TransitionAlert(ctx context.Context, ev realtime.Event) error {
	if !n.service.IsEnabled() || !ev.IsAlert() || ev.ContentID == nil {
		return nil
	}

	piece, err := n.store.GetContentPiece(ctx, *ev.ContentID)
	if err != nil {
		return err
	}
	client, err := n.store.GetClient(ctx, piece.ClientID)
	if err != nil {
		return err
	}
	emails, err := n.store.GetAgencyStaffEmails(ctx, piece.AgencyID)
	if err != nil {
		return err
	}
	if len(emails) == 0 {
		slog.Info("no staff emails for transition alert", "agency_id", piece.AgencyID)
		return nil
	}

	var subject, htmlBody, textBody string
	switch ev.NewStatus {
	case models.StatusApproved:
		subject, htmlBody, textBody = n.templates.ContentApproved(piece, client)
	case models.StatusChangesRequested:
		subject, htmlBody, textBody = n.templates.ChangesRequested(piece, client, n.latestReason(ctx, piece.ID))
	default:
		return nil
	}

	n.service.SendAsync(emails, subject, htmlBody, textBody)
	return nil
}

// latestReason fetches the most recent adjustment reason for the piece.
// Best effort: an empty reason just renders an emptier email.
func (n *Notifier) latestReason(ctx context.Context, contentID uuid.UUID) string {
	reqs, err := n.store.ListAdjustmentRequestsForContent(ctx, contentID)
	if err != nil || len(reqs) == 0 {
		return ""
	}
	return reqs[len(reqs)-1].Reason
}
