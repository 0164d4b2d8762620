package schema

import (
	"embed"
	"encoding/json"
	"path"
	"strings"
)

//go:embed commands/*.json
var commandFS embed.FS

// Command names, shared by the REST, websocket and MCP surfaces.
const (
	CmdInit         = "device_init"
	CmdGet          = "device_get"
	CmdToggle       = "device_toggle"
	CmdChangeOnly   = "device_change_only"
	CmdChangeAll    = "device_change_all"
	CmdSetWhite     = "device_set_white"
	CmdSetEffect    = "device_set_effect"
	CmdUseAudio     = "device_use_audio"
	CmdStopAudio    = "device_stop_audio"
	CmdDefaultAudio = "device_default_audio_configuration"
)

var commandSchemas = loadCommandSchemas()

func loadCommandSchemas() map[string]json.RawMessage {
	entries, err := commandFS.ReadDir("commands")
	if err != nil {
		panic(err)
	}

	out := make(map[string]json.RawMessage, len(entries))
	for _, e := range entries {
		data, err := commandFS.ReadFile(path.Join("commands", e.Name()))
		if err != nil {
			panic(err)
		}
		out[strings.TrimSuffix(e.Name(), ".json")] = data
	}
	return out
}

// Commands returns the names of all known commands.
func Commands() []string {
	names := make([]string, 0, len(commandSchemas))
	for name := range commandSchemas {
		names = append(names, name)
	}
	return names
}

// CommandSchema returns the raw JSON Schema for a command.
func CommandSchema(command string) (json.RawMessage, bool) {
	doc, ok := commandSchemas[command]
	return doc, ok
}
