package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kchava/arcana/internal/config"
	"github.com/kchava/arcana/internal/deck"
	"github.com/kchava/arcana/internal/errors"
	"github.com/kchava/arcana/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db   *sql.DB
	cfg  *config.Config
	deck deck.Deck
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config, d deck.Deck) *Handlers {
	return &Handlers{db: db, cfg: cfg, deck: d}
}

// Request types for each tool

// DailyRequest represents the arguments for draw_daily.
type DailyRequest struct {
	Identity string `json:"identity"`
	Day      string `json:"day"`
	Count    int    `json:"count,omitempty"`
}

// GetRequest represents the arguments for draw_get.
type GetRequest struct {
	Identity string `json:"identity"`
	Day      string `json:"day"`
}

// WindowRequest represents the arguments for draw_window.
type WindowRequest struct {
	Timezone string `json:"timezone,omitempty"`
}

// HistoryRequest represents the arguments for draw_history.
type HistoryRequest struct {
	Identity string `json:"identity"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// DeckListRequest represents the arguments for deck_list.
type DeckListRequest struct{}

// Handler implementations

// HandleDaily handles the draw_daily tool call.
func (h *Handlers) HandleDaily(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DailyRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Daily(h.db, h.cfg, h.deck, ops.DailyInput{
		Identity: input.Identity,
		Day:      input.Day,
		Count:    input.Count,
	})
	if err != nil {
		// A persist failure still computed a valid draw; return it with
		// the warning instead of failing the call.
		if result != nil && errors.Is(err, errors.ErrStorePersistFailure) {
			return successResult(result)
		}
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGet handles the draw_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Get(h.db, ops.GetInput{
		Identity: input.Identity,
		Day:      input.Day,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleWindow handles the draw_window tool call.
func (h *Handlers) HandleWindow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[WindowRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Window(h.cfg, ops.WindowInput{
		Timezone: input.Timezone,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleHistory handles the draw_history tool call.
func (h *Handlers) HandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.History(h.db, ops.HistoryInput{
		Identity: input.Identity,
		Limit:    input.Limit,
		Offset:   input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDeckList handles the deck_list tool call.
func (h *Handlers) HandleDeckList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(map[string]any{
		"name":  h.deck.Name,
		"size":  h.deck.Size(),
		"cards": h.deck.Cards,
	})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if aErr, ok := err.(*errors.ArcanaError); ok {
		errorObj := map[string]any{
			"code":    aErr.Code,
			"message": aErr.Message,
			"status":  aErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if aErr.Code != errors.ErrInternal && aErr.Details != nil {
			errorObj["details"] = aErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
