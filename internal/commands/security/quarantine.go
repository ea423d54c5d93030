// Package security - /seguridad cuarentena and /seguridad liberar commands
package security

import (
	"fmt"
	"time"

	"github.com/CentinelaStudios/CentinelaBotGo/internal/security"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/discord"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/errors"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createQuarantineCommand creates the /seguridad cuarentena subcommand
func createQuarantineCommand() *discord.Command {
	return discord.NewCommand(
		"cuarentena",
		"Pone a un usuario en cuarentena manualmente",
		"security",
		quarantineHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a poner en cuarentena",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón de la cuarentena",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageRoles).
		WithBotPermissions(discordgo.PermissionManageRoles).
		RequiresDatabase()
}

func quarantineHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("usuario")
		if user == nil {
			ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
			return
		}
		if user.ID == ctx.User().ID {
			ctx.ReplyEphemeral("❌ No puedes ponerte en cuarentena a ti mismo.")
			return
		}
		if user.Bot {
			ctx.ReplyEphemeral("❌ Los bots no pueden ponerse en cuarentena.")
			return
		}

		reason := ctx.GetStringOption("razon")
		if reason == "" {
			reason = fmt.Sprintf("Cuarentena manual por %s", ctx.User().Username)
		}

		svc := security.Get()
		if svc == nil {
			ctx.ReplyEphemeral("❌ El sistema de seguridad no está disponible.")
			return
		}

		report, err := svc.Quarantine.Enter(ctx.Interaction.GuildID, user.ID, reason)
		if err != nil {
			if err == security.ErrNotConfigured {
				ctx.ReplyEphemeral("⚠️ Configura primero el rol de cuarentena con `/seguridad rol`.")
			} else {
				logger.Error(fmt.Sprintf("Error en cuarentena manual de %s: %v", user.ID, err), "CMD-Cuarentena")
				ctx.ReplyEphemeral("❌ No se pudo aplicar la cuarentena.")
			}
			return
		}

		description := fmt.Sprintf("🔒 <@%s> ha sido puesto en cuarentena.\n**Razón:** %s\n**Incidente:** `%s`",
			user.ID, reason, report.IncidentID)
		if failed := report.Failed(); len(failed) > 0 {
			description += fmt.Sprintf("\n⚠️ %d roles no pudieron quitarse (jerarquía o permisos).", len(failed))
		}

		embed := &discordgo.MessageEmbed{
			Title:       "Cuarentena aplicada",
			Description: description,
			Color:       0xFFA500,
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("Solicitado por %s", ctx.User().Username),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
		ctx.ReplyEmbed(embed)
	}()

	return nil
}

// createReleaseCommand creates the /seguridad liberar subcommand
func createReleaseCommand() *discord.Command {
	return discord.NewCommand(
		"liberar",
		"Saca a un usuario de la cuarentena y restaura sus roles",
		"security",
		releaseHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a liberar",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageRoles).
		WithBotPermissions(discordgo.PermissionManageRoles).
		RequiresDatabase()
}

func releaseHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("usuario")
		if user == nil {
			ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
			return
		}

		svc := security.Get()
		if svc == nil {
			ctx.ReplyEphemeral("❌ El sistema de seguridad no está disponible.")
			return
		}

		report, err := svc.Quarantine.Exit(ctx.Interaction.GuildID, user.ID)
		if err != nil {
			if err == security.ErrNotQuarantined {
				ctx.ReplyEphemeral("⚠️ Ese usuario no está en cuarentena.")
			} else {
				logger.Error(fmt.Sprintf("Error liberando a %s: %v", user.ID, err), "CMD-Liberar")
				ctx.ReplyEphemeral("❌ No se pudo liberar al usuario.")
			}
			return
		}

		description := fmt.Sprintf("🔓 <@%s> ha sido liberado y sus roles restaurados.", user.ID)
		if failed := report.Failed(); len(failed) > 0 {
			description += fmt.Sprintf("\n⚠️ %d roles no pudieron restaurarse.", len(failed))
		}

		ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Title:       "Cuarentena levantada",
			Description: description,
			Color:       0x00FF00,
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("Solicitado por %s", ctx.User().Username),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}()

	return nil
}
