package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// decode maps a tool call's arguments onto one of the typed request structs
// (DailyRequest, HistoryRequest, ...) via a JSON round trip, so handlers
// never touch the raw argument map.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	args := req.GetArguments()
	b, err := json.Marshal(args)
	if err != nil {
		return result, fmt.Errorf("encode tool arguments: %w", err)
	}
	if err := json.Unmarshal(b, &result); err != nil {
		return result, fmt.Errorf("decode tool arguments: %w", err)
	}
	return result, nil
}
