package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Priyanka03s/travel-sid-sub002/internal/models"
	"github.com/Priyanka03s/travel-sid-sub002/internal/pricing"
	"github.com/Priyanka03s/travel-sid-sub002/internal/publish"
)

// PricingHandler serves the live price preview of the listing wizard.
// Nothing is stored.
type PricingHandler struct {
	now func() time.Time
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler() *PricingHandler {
	return &PricingHandler{now: func() time.Time { return time.Now().UTC() }}
}

// PreviewRequest carries an unsaved listing. Tier selects one accommodation
// tier for the displayed price; without it every tier is summed, as at
// publish time.
type PreviewRequest struct {
	Kind    string         `json:"kind" validate:"omitempty,oneof=trip event adventure_school"`
	Tier    string         `json:"tier" validate:"omitempty,oneof=shared private camping glamping"`
	Listing models.Listing `json:"listing"`
}

// PreviewResponse is the wizard's live pricing panel.
type PreviewResponse struct {
	Quote     models.PriceQuote      `json:"quote"`
	Schedule  pricing.ScheduleResult `json:"schedule"`
	Checklist publish.Result         `json:"checklist"`
	Problems  []string               `json:"problems"`
	Warnings  []string               `json:"warnings"`
}

// Preview handles POST /v1/pricing/preview.
func (h *PricingHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	if !bindJSON(c, &req) {
		return
	}

	l := req.Listing
	if req.Kind != "" {
		l.Kind = models.ListingKind(req.Kind)
	}
	if l.Kind == "" {
		l.Kind = models.KindTrip
	}

	mode := pricing.AllTiers
	if req.Tier != "" {
		mode = pricing.SelectedTier(models.TierName(req.Tier))
	}

	now := h.now()
	quote := pricing.Quote(pricing.QuoteInputFor(&l), mode, now)
	checklist := publish.CanPublish(&l, now)

	problems := pricing.ValidateListingInput(&l)
	if problems == nil {
		problems = []string{}
	}
	warnings := append([]string{}, l.Pricing.Normalizations...)
	warnings = append(warnings, quote.Notes...)

	c.JSON(http.StatusOK, PreviewResponse{
		Quote:     quote,
		Schedule:  pricing.ValidateSchedule(pricing.ScheduleFor(&l)),
		Checklist: checklist,
		Problems:  problems,
		Warnings:  warnings,
	})
}
