package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/deliverai/deliverai/internal/campaign"
	"github.com/deliverai/deliverai/internal/views"
	"github.com/deliverai/deliverai/internal/web"
	"github.com/deliverai/deliverai/pkg/htmx"
)

// Dashboard serves the htmx composer UI.
type Dashboard struct {
	campaign Session
}

// NewDashboard creates the dashboard handler over a campaign session.
func NewDashboard(s Session) *Dashboard {
	return &Dashboard{campaign: s}
}

// Routes registers the page, the live poll and the composer actions.
func (h *Dashboard) Routes(r web.Router) {
	r.GET("/", h.page)
	r.GET("/status", h.status)
	r.POST("/draft", h.draft)
	r.POST("/optimize", h.optimize)
	r.POST("/send", h.send)
	r.POST("/reset", h.reset)
}

func (h *Dashboard) page(c web.Context) error {
	return c.Render(http.StatusOK, views.Page(h.campaign.Snapshot()))
}

// status answers the live panel poll. The actions bar rides along
// out-of-band so buttons re-enable when the run ends; the last poll also
// swaps in an editable composer.
func (h *Dashboard) status(c web.Context) error {
	s := h.campaign.Snapshot()
	if !c.IsHTMX() {
		return c.Render(http.StatusOK, views.Page(s))
	}

	oob := []htmx.Renderable{views.Actions(s, true)}
	if !s.Status.Busy() {
		oob = append(oob, views.Composer(s, true))
	}
	return c.Render(http.StatusOK, views.Live(s), htmx.WithOOB(oob...))
}

func (h *Dashboard) draft(c web.Context) error {
	s := h.campaign.UpdateDraft(draftFromForm(c))
	return c.Render(http.StatusOK, views.Actions(s, false))
}

func (h *Dashboard) optimize(c web.Context) error {
	s, err := h.campaign.OptimizeDraft(c.Context(), draftFromForm(c))
	switch {
	case err == nil:
		c.LogInfo("draft optimized", slog.Int("score", s.Result.DeliverabilityScore))
		return h.dashboard(c, http.StatusOK, s)
	case errors.Is(err, campaign.ErrOptimization):
		c.LogWarn("optimization failed", slog.String("error", err.Error()))
		return h.dashboard(c, http.StatusBadGateway, s)
	case errors.Is(err, campaign.ErrDiscarded):
		return h.dashboard(c, http.StatusOK, h.campaign.Snapshot())
	default:
		return campaignError(err)
	}
}

func (h *Dashboard) send(c web.Context) error {
	s, err := h.campaign.SendDraft(draftFromForm(c))
	if err != nil {
		return campaignError(err)
	}
	c.LogInfo("dispatch started", slog.String("run_id", s.Run.ID), slog.Int("recipients", s.Run.Total))
	return h.dashboard(c, http.StatusOK, s)
}

func (h *Dashboard) reset(c web.Context) error {
	return h.dashboard(c, http.StatusOK, h.campaign.Reset())
}

func (h *Dashboard) dashboard(c web.Context, code int, s campaign.Snapshot) error {
	return c.RenderPartial(code, views.Page(s), views.Dashboard(s))
}
