// Package mod - /mod slowmode command
package mod

import (
	"fmt"

	"github.com/CentinelaStudios/CentinelaBotGo/pkg/discord"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/errors"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createSlowmodeCommand creates the /mod slowmode subcommand
func createSlowmodeCommand() *discord.Command {
	return discord.NewCommand(
		"slowmode",
		"Configura el modo lento del canal",
		"mod",
		slowmodeHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "segundos",
			Description: "Segundos entre mensajes (0 para desactivar, máximo 21600)",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "canal",
			Description: "Canal a configurar (por defecto el actual)",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageChannels).
		WithBotPermissions(discordgo.PermissionManageChannels)
}

// slowmodeHandler handles the /mod slowmode command
func slowmodeHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		seconds := int(ctx.GetIntOption("segundos"))
		if seconds < 0 || seconds > 21600 {
			ctx.ReplyEphemeral("❌ Los segundos deben estar entre 0 y 21600 (6 horas).")
			return
		}

		channelID := ctx.Interaction.ChannelID
		if channel := ctx.GetChannelOption("canal"); channel != nil {
			channelID = channel.ID
		}

		_, err := ctx.Session.ChannelEdit(channelID, &discordgo.ChannelEdit{
			RateLimitPerUser: &seconds,
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Error configurando slowmode: %v", err), "CMD-Slowmode")
			ctx.ReplyEphemeral("❌ No se pudo configurar el modo lento.")
			return
		}

		if seconds == 0 {
			ctx.Reply(fmt.Sprintf("🐇 Modo lento desactivado en <#%s>.", channelID))
		} else {
			ctx.Reply(fmt.Sprintf("🐢 Modo lento configurado en <#%s>: **%d** segundos entre mensajes.", channelID, seconds))
		}
	}()

	return nil
}
