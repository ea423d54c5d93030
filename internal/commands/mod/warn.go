// Package mod - /mod warn command
package mod

import (
	"fmt"
	"time"

	"github.com/CentinelaStudios/CentinelaBotGo/pkg/database"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/discord"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/errors"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/logger"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// createWarnCommand creates the /mod warn subcommand
func createWarnCommand() *discord.Command {
	return discord.NewCommand(
		"warn",
		"Advierte a un usuario",
		"mod",
		warnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a advertir",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón de la advertencia",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).RequiresDatabase()
}

// warnHandler handles the /mod warn command
func warnHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("usuario")
		if user == nil {
			ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
			return
		}

		reason := ctx.GetStringOption("razon")
		if reason == "" {
			ctx.ReplyEphemeral("❌ Debes especificar una razón.")
			return
		}

		if user.Bot {
			ctx.ReplyEphemeral("❌ No puedes advertir a un bot.")
			return
		}

		warn := models.Warn{
			Reason:    reason,
			Moderator: ctx.User().ID,
			ID:        uuid.New().String(),
			Timestamp: time.Now().Unix(),
		}

		dm := database.GlobalWarnDM
		query := bson.M{"guildId": ctx.Interaction.GuildID, "userId": user.ID}

		doc, err := dm.Get(query)
		if err != nil {
			logger.Error(fmt.Sprintf("Error DB Warn: %v", err), "CMD-Warn")
			ctx.ReplyEphemeral("❌ Error al consultar la base de datos.")
			return
		}

		if doc == nil {
			doc = &models.WarnsDocument{
				GuildID: ctx.Interaction.GuildID,
				UserID:  user.ID,
			}
		}
		doc.Warns = append(doc.Warns, warn)

		if _, err := dm.Set(query, doc); err != nil {
			logger.Error(fmt.Sprintf("Error guardando Warn: %v", err), "CMD-Warn")
			ctx.ReplyEphemeral("❌ No se pudo guardar la advertencia.")
			return
		}

		ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Title: "⚠️ Advertencia registrada",
			Description: fmt.Sprintf("**%s** ha sido advertido.\n\n> **Razón:** %s\n> **ID:** `%s`\n> **Total de advertencias:** %d",
				user.Username, reason, warn.ID, len(doc.Warns)),
			Color: 0xFFA500,
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("Moderador: %s", ctx.User().Username),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		})

		// Aviso por MD, sin bloquear si el usuario los tiene cerrados
		if userChannel, err := ctx.Session.UserChannelCreate(user.ID); err == nil {
			_, _ = ctx.Session.ChannelMessageSendEmbed(userChannel.ID, &discordgo.MessageEmbed{
				Title: "⚠️ - Has recibido una advertencia",
				Color: 0xFFA500,
				Description: fmt.Sprintf(
					"⚒ - **Servidor:** %s\n📝 - **Razón:** %s\n🕒 - **Fecha:** <t:%d:F>",
					ctx.Guild().Name, reason, warn.Timestamp,
				),
				Footer: &discordgo.MessageEmbedFooter{
					Text:    "💫 - Developed by CentinelaStudios",
					IconURL: ctx.Client.Session.State.User.AvatarURL(""),
				},
			})
		}
	}()

	return nil
}
