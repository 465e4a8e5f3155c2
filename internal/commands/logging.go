package commands

import (
	"strings"

	"github.com/goliatone/go-mdpublish/internal/logging"
	"github.com/goliatone/go-mdpublish/pkg/interfaces"
)

const commandModuleRoot = "mdpublish.commands"

// CommandLogger returns the logger for a command module, tagged with the
// command component fields.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "publish"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
