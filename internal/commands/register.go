// Package commands provides a registry for organizing bot commands.
// Commands are organized in subdirectories by category (utils, mod, security, dev)
package commands

import (
	"github.com/CentinelaStudios/CentinelaBotGo/internal/commands/dev"
	"github.com/CentinelaStudios/CentinelaBotGo/internal/commands/mod"
	"github.com/CentinelaStudios/CentinelaBotGo/internal/commands/security"
	"github.com/CentinelaStudios/CentinelaBotGo/internal/commands/utils"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/discord"
)

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient) {
	// Utility commands (/utils ping, /utils status, /utils stats, /utils userinfo)
	utils.RegisterUtilsCommands(client)

	// Moderation commands (/mod ban, /mod kick, /mod warn, /mod mute, /mod clear)
	mod.RegisterModCommands(client)

	// Security commands (/seguridad panel, /seguridad cuarentena, /seguridad antiraid...)
	security.RegisterSecurityCommands(client)

	// Dev-only commands (/dev eval, /dev sweep), registered in the dev guild
	dev.Register(client)
}
