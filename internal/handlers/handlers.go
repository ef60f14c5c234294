package handlers

import (
	"context"

	"github.com/deliverai/deliverai/internal/campaign"
	"github.com/deliverai/deliverai/internal/web"
)

// Session is the campaign surface the handlers drive.
type Session interface {
	Snapshot() campaign.Snapshot
	UpdateDraft(campaign.Draft) campaign.Snapshot
	Optimize(ctx context.Context) (campaign.Snapshot, error)
	OptimizeDraft(ctx context.Context, d campaign.Draft) (campaign.Snapshot, error)
	Send() (campaign.Snapshot, error)
	SendDraft(d campaign.Draft) (campaign.Snapshot, error)
	Reset() campaign.Snapshot
}

// draftFromForm reads the composer fields. Missing fields are empty.
func draftFromForm(c web.Context) campaign.Draft {
	return campaign.Draft{
		Recipients: c.Form("recipients"),
		Subject:    c.Form("subject"),
		Body:       c.Form("body"),
	}
}
