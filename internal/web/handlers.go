package web

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/kchava/arcana/internal/config"
	"github.com/kchava/arcana/internal/deck"
	"github.com/kchava/arcana/internal/draw"
	"github.com/kchava/arcana/internal/errors"
	"github.com/kchava/arcana/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	deck     deck.Deck
	renderer *Renderer
}

// HandleToday handles GET /today: show or create today's draw for an identity.
func (h *Handlers) HandleToday(w http.ResponseWriter, r *http.Request) {
	identity := strings.TrimSpace(r.URL.Query().Get("identity"))
	tz := r.URL.Query().Get("timezone")
	if tz == "" {
		tz = h.cfg.DefaultTimezone
	}

	data := TodayPageData{
		PageData: PageData{
			Title:   "Today",
			Version: h.renderer.version,
			Nav:     "today",
		},
		Identity: identity,
		Timezone: tz,
	}

	window, err := ops.Window(h.cfg, ops.WindowInput{Timezone: tz})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	data.Window = &window.Window

	// No identity yet: just render the form with the resolved window.
	if identity == "" {
		h.renderer.renderPage(w, r, "today", data)
		return
	}

	result, err := ops.Daily(h.db, h.cfg, h.deck, ops.DailyInput{
		Identity: identity,
		Day:      window.Window.Today,
		Count:    parseIntParam(r, "count", 0),
	})
	if err != nil && !(result != nil && errors.Is(err, errors.ErrStorePersistFailure)) {
		h.renderer.renderError(w, r, err)
		return
	}

	var d draw.DailyDraw
	if err := json.Unmarshal(result.Draw, &d); err != nil {
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}

	data.Source = result.Source
	data.Day = d.Date
	data.Draw = &d
	data.Cards = renderCards(d.Cards)
	data.HasResult = true

	// JSON request: return the envelope as-is
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "today", data)
}

// HandleHistory handles GET /draws: list an identity's stored draws.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	identity := strings.TrimSpace(r.URL.Query().Get("identity"))

	data := HistoryPageData{
		PageData: PageData{
			Title:   "History",
			Version: h.renderer.version,
			Nav:     "history",
		},
		Identity: identity,
		HasQuery: identity != "",
	}

	if identity == "" {
		h.renderer.renderPage(w, r, "history", data)
		return
	}

	result, err := ops.History(h.db, ops.HistoryInput{
		Identity: identity,
		Limit:    parseIntParam(r, "limit", 0),
		Offset:   parseIntParam(r, "offset", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	data.Entries = result.Entries
	data.Pagination = result.Pagination
	h.renderer.renderPage(w, r, "history", data)
}

// HandleDetail handles GET /draws/{identity}/{day}: view a stored draw.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	identity := r.PathValue("identity")
	day := r.PathValue("day")

	result, err := ops.Get(h.db, ops.GetInput{Identity: identity, Day: day})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	var d draw.DailyDraw
	if err := json.Unmarshal(result.Draw, &d); err != nil {
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   identity + " on " + day,
			Version: h.renderer.version,
			Nav:     "history",
		},
		Identity:  result.Identity,
		Day:       result.Day,
		RecordID:  result.RecordID,
		CreatedAt: result.CreatedAt,
		Cards:     renderCards(d.Cards),
		Draw:      &d,
	})
}

// HandleDeck handles GET /deck: browse the card catalog.
func (h *Handlers) HandleDeck(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{
			"name":  h.deck.Name,
			"size":  h.deck.Size(),
			"cards": h.deck.Cards,
		})
		return
	}

	views := make([]DeckCardView, len(h.deck.Cards))
	for i, c := range h.deck.Cards {
		views[i] = DeckCardView{
			Card:         c,
			UprightHTML:  renderMarkdown(c.UprightMeaning),
			ReversedHTML: renderMarkdown(c.ReversedMeaning),
		}
	}

	h.renderer.renderPage(w, r, "deck", DeckPageData{
		PageData: PageData{
			Title:   "Deck",
			Version: h.renderer.version,
			Nav:     "deck",
		},
		DeckName: h.deck.Name,
		Size:     h.deck.Size(),
		Cards:    views,
	})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
