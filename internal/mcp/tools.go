package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions. Each tool maps one to one onto an ops function.

var dailyToolDef = mcp.NewTool("draw_daily",
	mcp.WithDescription("Get or create the daily card draw for an identity and day. "+
		"Returns the stored draw if one exists; otherwise computes a deterministic draw, "+
		"stores it, and returns it. The same identity and day always produce the same cards."),
	mcp.WithString("identity",
		mcp.Required(),
		mcp.Description("Identity key the draw belongs to (e.g. a user ID)"),
	),
	mcp.WithString("day",
		mcp.Required(),
		mcp.Description("Civil day key in YYYY-MM-DD form"),
	),
	mcp.WithNumber("count",
		mcp.Description("Number of cards to draw; defaults to the configured draw count"),
	),
)

var getToolDef = mcp.NewTool("draw_get",
	mcp.WithDescription("Look up a stored daily draw without computing one. "+
		"Returns NOT_FOUND if no draw is stored for the identity and day."),
	mcp.WithString("identity",
		mcp.Required(),
		mcp.Description("Identity key the draw belongs to"),
	),
	mcp.WithString("day",
		mcp.Required(),
		mcp.Description("Civil day key in YYYY-MM-DD form"),
	),
)

var windowToolDef = mcp.NewTool("draw_window",
	mcp.WithDescription("Resolve the yesterday/today/tomorrow day keys for a timezone. "+
		"Use this to find the correct day key before calling draw_daily."),
	mcp.WithString("timezone",
		mcp.Description("IANA timezone name (e.g. America/New_York); defaults to the configured timezone"),
	),
)

var historyToolDef = mcp.NewTool("draw_history",
	mcp.WithDescription("List an identity's stored draws, most recent day first, "+
		"with per-day card name and orientation summaries."),
	mcp.WithString("identity",
		mcp.Required(),
		mcp.Description("Identity key to list draws for"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum entries to return (default 20, max 100)"),
	),
	mcp.WithNumber("offset",
		mcp.Description("Number of entries to skip, for pagination"),
	),
)

var deckListToolDef = mcp.NewTool("deck_list",
	mcp.WithDescription("List the cards in the active deck, including keywords and meanings "+
		"for both orientations."),
)
