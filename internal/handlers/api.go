package handlers

import (
	"errors"
	"net/http"

	"github.com/deliverai/deliverai/internal/campaign"
	"github.com/deliverai/deliverai/internal/recipient"
	"github.com/deliverai/deliverai/internal/web"
)

// API exposes the campaign as JSON under /api.
type API struct {
	campaign Session
}

// NewAPI creates the JSON handler over a campaign session.
func NewAPI(s Session) *API {
	return &API{campaign: s}
}

// Routes mounts the recipient parser and the campaign endpoints under /api.
func (h *API) Routes(r web.Router) {
	r.Route("/api", func(r web.Router) {
		r.POST("/recipients", h.parseRecipients)
		r.Route("/campaign", func(r web.Router) {
			r.GET("/", h.snapshot)
			r.POST("/draft", h.updateDraft)
			r.POST("/optimize", h.optimize)
			r.POST("/send", h.send)
			r.POST("/reset", h.reset)
		})
	})
}

type recipientsRequest struct {
	Input string `json:"input"`
}

type recipientsResponse struct {
	Recipients []string `json:"recipients"`
	Count      int      `json:"count"`
}

func (h *API) parseRecipients(c web.Context) error {
	var req recipientsRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}

	list := recipient.Parse(req.Input)
	if list == nil {
		list = []string{}
	}
	return c.JSON(http.StatusOK, recipientsResponse{Recipients: list, Count: len(list)})
}

func (h *API) snapshot(c web.Context) error {
	return c.JSON(http.StatusOK, h.campaign.Snapshot())
}

func (h *API) updateDraft(c web.Context) error {
	var d campaign.Draft
	if err := c.BindJSON(&d); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.campaign.UpdateDraft(d))
}

func (h *API) optimize(c web.Context) error {
	s, err := h.campaign.Optimize(c.Context())
	if err != nil {
		return campaignError(err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *API) send(c web.Context) error {
	s, err := h.campaign.Send()
	if err != nil {
		return campaignError(err)
	}
	return c.JSON(http.StatusAccepted, s)
}

func (h *API) reset(c web.Context) error {
	return c.JSON(http.StatusOK, h.campaign.Reset())
}

// campaignError maps campaign sentinels to HTTP errors.
func campaignError(err error) error {
	switch {
	case errors.Is(err, campaign.ErrValidation):
		return web.ErrUnprocessable("The draft is incomplete.",
			web.WithDetails(campaign.ValidationMessages(err)...),
			web.WithErrorCode("validation_failed"),
			web.WithError(err),
		)
	case errors.Is(err, campaign.ErrBusy):
		return web.ErrConflict("Another operation is in progress. Wait for it to finish.",
			web.WithErrorCode("busy"),
			web.WithError(err),
		)
	case errors.Is(err, campaign.ErrOptimization):
		return web.ErrBadGateway("The optimization service failed. Try again.",
			web.WithErrorCode("optimization_failed"),
			web.WithError(err),
		)
	case errors.Is(err, campaign.ErrDiscarded):
		return web.ErrConflict("The campaign was reset while the optimization was running.",
			web.WithErrorCode("discarded"),
			web.WithError(err),
		)
	default:
		return err
	}
}
