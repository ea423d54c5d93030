// Package mod - /mod clear command
package mod

import (
	"fmt"

	"github.com/CentinelaStudios/CentinelaBotGo/pkg/discord"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/errors"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createClearCommand creates the /mod clear subcommand
func createClearCommand() *discord.Command {
	return discord.NewCommand(
		"clear",
		"Elimina mensajes recientes del canal",
		"mod",
		clearHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "cantidad",
			Description: "Número de mensajes a eliminar (1-100)",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Eliminar solo mensajes de este usuario",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageMessages).
		WithBotPermissions(discordgo.PermissionManageMessages)
}

// clearHandler handles the /mod clear command
func clearHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		amount := int(ctx.GetIntOption("cantidad"))
		if amount < 1 || amount > 100 {
			ctx.ReplyEphemeral("❌ La cantidad debe estar entre 1 y 100.")
			return
		}

		target := ctx.GetUserOption("usuario")

		ctx.Defer()

		messages, err := ctx.Session.ChannelMessages(ctx.Interaction.ChannelID, amount, "", "", "")
		if err != nil {
			logger.Error(fmt.Sprintf("Error leyendo mensajes para clear: %v", err), "CMD-Clear")
			ctx.EditReply("❌ No se pudieron leer los mensajes del canal.")
			return
		}

		ids := make([]string, 0, len(messages))
		for _, msg := range messages {
			if target != nil && msg.Author.ID != target.ID {
				continue
			}
			ids = append(ids, msg.ID)
		}

		if len(ids) == 0 {
			ctx.EditReply("ℹ️ No se encontraron mensajes para eliminar.")
			return
		}

		if err := ctx.Session.ChannelMessagesBulkDelete(ctx.Interaction.ChannelID, ids); err != nil {
			logger.Error(fmt.Sprintf("Error en bulk delete: %v", err), "CMD-Clear")
			ctx.EditReply("❌ No se pudieron eliminar los mensajes. Los mensajes con más de 14 días no se pueden borrar en bloque.")
			return
		}

		if target != nil {
			ctx.EditReply(fmt.Sprintf("🧹 Se eliminaron **%d** mensajes de **%s**.", len(ids), target.Username))
		} else {
			ctx.EditReply(fmt.Sprintf("🧹 Se eliminaron **%d** mensajes.", len(ids)))
		}
	}()

	return nil
}
