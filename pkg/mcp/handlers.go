package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/urmzd/tled/pkg/command"
	"github.com/urmzd/tled/pkg/device"
	"github.com/urmzd/tled/pkg/elk"
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deviceStatus := "uninitialized"
	if s.dispatcher.Surface().Get() != nil {
		deviceStatus = "initialized"
	}

	out := GetHealthOutput{
		Status:    "healthy",
		Device:    deviceStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

// handleCommand returns a handler running the named device command with the
// tool arguments.
func (s *Server) handleCommand(name string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %s", err)), nil
		}

		result, err := s.dispatcher.Dispatch(ctx, name, args)
		if err != nil {
			return mcp.NewToolResultError(toolError(err)), nil
		}

		switch v := result.(type) {
		case *device.AudioSnapshot:
			return mcp.NewToolResultText(formatJSON(AudioConfigOutput{Audio: v})), nil
		case *device.Snapshot:
			return mcp.NewToolResultText(formatJSON(DeviceOutput{Device: v})), nil
		}
		return mcp.NewToolResultText(formatJSON(result)), nil
	}
}

func (s *Server) handleListEffects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	effects := elk.Effects()
	out := ListEffectsOutput{
		Effects: effects,
		Count:   len(effects),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.events == nil {
		return mcp.NewToolResultError("command history is not available"), nil
	}

	args := request.GetArguments()
	cmd, _ := args["command"].(string)
	limit := 0
	if l, ok := args["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	events, err := s.events.List(ctx, cmd, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list events: %s", err)), nil
	}

	out := ListEventsOutput{
		Events: events,
		Count:  len(events),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// --- helpers ---

// toolError returns the user-facing text of a command failure.
func toolError(err error) string {
	var cmdErr *command.Error
	if errors.As(err, &cmdErr) {
		return cmdErr.Message
	}
	return err.Error()
}

func formatJSON(v any) string {
	b, err := encodeJSON(v)
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}

func encodeJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
