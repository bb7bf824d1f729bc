package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/safeplate/safeplate/internal/allergen"
	"github.com/safeplate/safeplate/internal/config"
	"github.com/safeplate/safeplate/internal/filter"
	"github.com/safeplate/safeplate/internal/interpret"
	"github.com/safeplate/safeplate/internal/menu"
)

// Store is the persistence surface the handlers need. *menu.Store
// satisfies it.
type Store interface {
	GetVenueBySlug(ctx context.Context, slug string) (*menu.Venue, error)
	ListActiveMenuItems(ctx context.Context, venueID uuid.UUID) ([]menu.MenuItem, error)
	GetEquipmentRisks(ctx context.Context, venueID uuid.UUID) (map[string]allergen.RiskLevel, error)
	UpsertMenuItem(ctx context.Context, venueID uuid.UUID, item menu.MenuItem, confidence map[string]float64) error
}

type Handlers struct {
	config *config.Config
	store  Store
	reg    *allergen.Registry
	hybrid *filter.Hybrid
	interp *interpret.Interpreter

	mu     sync.Mutex
	caches map[string]*menu.Cache
}

func NewHandlers(cfg *config.Config, store Store, reg *allergen.Registry, hybrid *filter.Hybrid, interp *interpret.Interpreter) *Handlers {
	return &Handlers{
		config: cfg,
		store:  store,
		reg:    reg,
		hybrid: hybrid,
		interp: interp,
		caches: map[string]*menu.Cache{},
	}
}

// cacheFor returns the venue's menu cache, creating it on first use.
func (h *Handlers) cacheFor(venue *menu.Venue) *menu.Cache {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.caches[venue.Slug]
	if !ok {
		src := menu.NewVenueSource(h.store, venue.ID, venue.Representation)
		c = menu.NewCache(src, h.config.Menu.CacheTTL)
		h.caches[venue.Slug] = c
	}
	return c
}

// GetMenu returns a venue's active menu along with cache status.
func (h *Handlers) GetMenu(c echo.Context) error {
	venue, cache, err := h.venue(c)
	if err != nil {
		return err
	}

	items, err := cache.Fetch(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch menu items")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"venue":     venue,
		"menuItems": items,
		"cache":     cache.Status(),
	})
}

// FilterRequest is the body of a filter call: cataloged restrictions
// with severities plus free-text custom tags.
type FilterRequest struct {
	Allergens  []filter.Restriction `json:"allergens"`
	CustomTags []filter.CustomTag   `json:"customTags"`
}

// filterResponse decorates the core result with display-ready warning
// strings per caution item.
type filterResponse struct {
	filter.FilterResult
	FormattedWarnings [][]string `json:"formattedWarnings"`
}

// FilterMenu runs the hybrid filtering pipeline for a venue.
func (h *Handlers) FilterMenu(c echo.Context) error {
	venue, cache, err := h.venue(c)
	if err != nil {
		return err
	}

	var req FilterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "allergens must be a list of {id, severity}")
	}

	ctx := c.Request().Context()
	items, err := cache.Fetch(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch menu items")
	}

	result := h.hybrid.Filter(ctx, venue.Representation, items, req.Allergens, req.CustomTags)

	resp := filterResponse{FilterResult: result}
	for _, item := range result.CautionItems {
		resp.FormattedWarnings = append(resp.FormattedWarnings, filter.FormatWarnings(h.reg, item.Warnings))
	}
	return c.JSON(http.StatusOK, resp)
}

// InterpretRequest carries free-form restriction text.
type InterpretRequest struct {
	Text string `json:"text"`
}

// Interpret resolves free text to cataloged allergen IDs.
func (h *Handlers) Interpret(c echo.Context) error {
	var req InterpretRequest
	if err := c.Bind(&req); err != nil || req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}

	result, err := h.interp.Resolve(c.Request().Context(), req.Text)
	if err != nil {
		// Stage A already ran; the result still carries the unmatched
		// remainder, so surface it rather than failing the request.
		c.Logger().Warnf("ai interpretation failed: %v", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":          true,
		"matchedAllergens": result.MatchedIDs,
		"unmatchedText":    result.Unmatched,
		"method":           result.Method,
	})
}

// SubmitRequest is a diner's allergen selection.
type SubmitRequest struct {
	Allergens     []string `json:"allergens"`
	CustomAllergy string   `json:"customAllergy"`
}

// Submit validates and acknowledges an allergen selection.
func (h *Handlers) Submit(c echo.Context) error {
	var req SubmitRequest
	if err := c.Bind(&req); err != nil || req.Allergens == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "allergens must be an array")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"submissionId": uuid.New(),
		"message":      "Allergens received",
		"data":         req,
	})
}

// RecomputeConfidence rebuilds and persists every item's confidence
// map from its profile, ingredients, and the venue's current equipment
// risks. Run after venue data changes so query-time filtering stays a
// pure lookup.
func (h *Handlers) RecomputeConfidence(c echo.Context) error {
	venue, cache, err := h.venue(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	items, err := h.store.ListActiveMenuItems(ctx, venue.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch menu items")
	}
	risks, err := h.store.GetEquipmentRisks(ctx, venue.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch equipment risks")
	}

	updated := 0
	for _, item := range items {
		confidence := filter.ScoreAll(h.reg, filter.ScoreInput{
			Ingredients: item.Ingredients,
			Flags:       explicitFlags(h.reg, item.Profile),
			Risks:       risks,
		})
		if err := h.store.UpsertMenuItem(ctx, venue.ID, item, confidence); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update menu item")
		}
		updated++
	}

	cache.Invalidate()
	return c.JSON(http.StatusOK, map[string]any{"updated": updated})
}

// InvalidateCache drops the venue's cached menu.
func (h *Handlers) InvalidateCache(c echo.Context) error {
	_, cache, err := h.venue(c)
	if err != nil {
		return err
	}
	cache.Invalidate()
	return c.JSON(http.StatusOK, map[string]string{"status": "invalidated"})
}

// ListAllergens returns the catalog for selection UIs.
func (h *Handlers) ListAllergens(c echo.Context) error {
	return c.JSON(http.StatusOK, h.reg.All())
}

func (h *Handlers) venue(c echo.Context) (*menu.Venue, *menu.Cache, error) {
	venue, err := h.store.GetVenueBySlug(c.Request().Context(), c.Param("slug"))
	if errors.Is(err, menu.ErrVenueNotFound) {
		return nil, nil, echo.NewHTTPError(http.StatusNotFound, "Venue not found")
	}
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch venue")
	}
	return venue, h.cacheFor(venue), nil
}

// explicitFlags converts a tri-state profile to explicit allergen-free
// flags keyed like "dairy_free". Only definite YES/NO values become
// flags; CAN BE carries no explicit declaration either way.
func explicitFlags(reg *allergen.Registry, profile map[string]menu.TriState) map[string]bool {
	if len(profile) == 0 {
		return nil
	}
	flags := map[string]bool{}
	for _, a := range reg.All() {
		value, ok := profile[a.Column]
		if !ok {
			continue
		}
		switch value {
		case menu.TriStateSafe:
			flags[a.ID+"_free"] = true
		case menu.TriStateUnsafe:
			flags[a.ID+"_free"] = false
		}
	}
	return flags
}
