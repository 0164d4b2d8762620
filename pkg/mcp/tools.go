package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/urmzd/tled/pkg/audio"
	"github.com/urmzd/tled/pkg/device/schema"
	"github.com/urmzd/tled/pkg/elk"
)

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	// Health check
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check the health of the tled service and whether a device session exists"),
		),
		s.handleGetHealth,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(schema.CmdInit,
			mcp.WithDescription("Connect to the LED fixture. Does nothing if already connected unless force is set."),
			mcp.WithBoolean("force",
				mcp.Description("Replace an existing session (default false)"),
			),
		),
		s.handleCommand(schema.CmdInit),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(schema.CmdGet,
			mcp.WithDescription("Get the current device state, or null when no device is initialized"),
		),
		s.handleCommand(schema.CmdGet),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(schema.CmdToggle,
			mcp.WithDescription("Turn the fixture on or off"),
			mcp.WithBoolean("power",
				mcp.Required(),
				mcp.Description("true to turn on, false to turn off"),
			),
		),
		s.handleCommand(schema.CmdToggle),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(schema.CmdChangeOnly,
			mcp.WithDescription("Change some of the color channels and/or brightness. Omitted channels keep their value."),
			channel("r", "Red 0-255", false),
			channel("g", "Green 0-255", false),
			channel("b", "Blue 0-255", false),
			level("a", "Brightness 0-100", false),
		),
		s.handleCommand(schema.CmdChangeOnly),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(schema.CmdChangeAll,
			mcp.WithDescription("Set every color channel and the brightness"),
			channel("r", "Red 0-255", true),
			channel("g", "Green 0-255", true),
			channel("b", "Blue 0-255", true),
			level("a", "Brightness 0-100", true),
		),
		s.handleCommand(schema.CmdChangeAll),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(schema.CmdSetWhite,
			mcp.WithDescription("Switch the fixture to white at a color temperature"),
			mcp.WithNumber("kelvin",
				mcp.Required(),
				mcp.Min(elk.MinKelvin),
				mcp.Max(elk.MaxKelvin),
				mcp.Description("Color temperature in kelvin (2700 warm to 6500 cold)"),
			),
		),
		s.handleCommand(schema.CmdSetWhite),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(schema.CmdSetEffect,
			mcp.WithDescription("Switch to a built-in effect and/or set the effect speed. Use list_effects for ids."),
			channel("effect", "Effect id", false),
			level("speed", "Effect speed 0-100", false),
		),
		s.handleCommand(schema.CmdSetEffect),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(schema.CmdUseAudio,
			mcp.WithDescription("Start audio visualization, creating the audio monitor if needed"),
			mcp.WithString("mode",
				mcp.Enum(audio.ModeNames()...),
				mcp.Description("Visualization mode"),
			),
			level("sensitivity", "Sensitivity 0-100", false),
		),
		s.handleCommand(schema.CmdUseAudio),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(schema.CmdStopAudio,
			mcp.WithDescription("Stop audio visualization and discard the audio monitor"),
		),
		s.handleCommand(schema.CmdStopAudio),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(schema.CmdDefaultAudio,
			mcp.WithDescription("Get the audio monitor configuration, or the defaults when none is attached"),
		),
		s.handleCommand(schema.CmdDefaultAudio),
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_effects",
			mcp.WithDescription("List the fixture's built-in effects"),
		),
		s.handleListEffects,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_events",
			mcp.WithDescription("List recorded command outcomes, newest first"),
			mcp.WithString("command",
				mcp.Description("Only events of this command"),
			),
			mcp.WithNumber("limit",
				mcp.Min(1),
				mcp.Max(1000),
				mcp.Description("Maximum number of events (default 100)"),
			),
		),
		s.handleListEvents,
	)
}

func channel(name, desc string, required bool) mcp.ToolOption {
	opts := []mcp.PropertyOption{mcp.Min(0), mcp.Max(255), mcp.Description(desc)}
	if required {
		opts = append(opts, mcp.Required())
	}
	return mcp.WithNumber(name, opts...)
}

func level(name, desc string, required bool) mcp.ToolOption {
	opts := []mcp.PropertyOption{mcp.Min(0), mcp.Max(100), mcp.Description(desc)}
	if required {
		opts = append(opts, mcp.Required())
	}
	return mcp.WithNumber(name, opts...)
}
