// Package security provides the /seguridad command group: the protection
// panel, manual quarantine management and the per-guild defense settings.
package security

import (
	"fmt"
	"time"

	"github.com/CentinelaStudios/CentinelaBotGo/internal/security"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/discord"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/errors"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/logger"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func onOff(v bool) string {
	if v {
		return "🟢 Activado"
	}
	return "🔴 Desactivado"
}

// PanelEmbed renders the guild's protection overview. Shared with the panel
// refresh button handler.
func PanelEmbed(cfg *models.GuildSecurityConfig) *discordgo.MessageEmbed {
	quarantineRole := "Sin configurar"
	if cfg.QuarantineRoleID != "" {
		quarantineRole = fmt.Sprintf("<@&%s>", cfg.QuarantineRoleID)
	}
	quarantineChannel := "Sin configurar"
	if cfg.QuarantineChannelID != "" {
		quarantineChannel = fmt.Sprintf("<#%s>", cfg.QuarantineChannelID)
	}

	return &discordgo.MessageEmbed{
		Title: "🛡️ Panel de Seguridad",
		Color: 0x3498db,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "⚔️ Antiraid",
				Value: fmt.Sprintf("%s\n> Edad mínima de cuenta: **%d días**\n> Expulsar: %s | Banear: %s",
					onOff(cfg.IsActive), cfg.RequiredAccountAgeDays, onOff(cfg.KickNewMembers), onOff(cfg.BanNewMembers)),
			},
			{
				Name: "💣 Antinuke",
				Value: fmt.Sprintf("> Umbral: **%d acciones** en **%d segundos**",
					cfg.ActionBurstThreshold, cfg.ActionBurstWindowSeconds),
			},
			{
				Name: "🔒 Cuarentena automática",
				Value: fmt.Sprintf("> Umbral de riesgo: **%d**\n> Duración: **%d horas**\n> Rol: %s\n> Canal: %s",
					cfg.RiskThreshold, cfg.QuarantineDurationHours, quarantineRole, quarantineChannel),
			},
			{
				Name: "💬 Mensajes",
				Value: fmt.Sprintf("> Antispam: **%d mensajes/minuto**\n> Antilink: %s",
					cfg.AntispamLimit, onOff(cfg.AntilinkEnabled)),
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "💫 - Developed by CentinelaStudios",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// PanelComponents returns the panel's action row.
func PanelComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Actualizar",
					Style:    discordgo.SecondaryButton,
					CustomID: "seguridad_panel_refresh",
					Emoji:    &discordgo.ComponentEmoji{Name: "🔄"},
				},
			},
		},
	}
}

// createPanelCommand creates the /seguridad panel subcommand
func createPanelCommand() *discord.Command {
	return discord.NewCommand(
		"panel",
		"Muestra el panel de protección del servidor",
		"security",
		panelHandler,
	).WithUserPermissions(discordgo.PermissionManageServer).RequiresDatabase()
}

func panelHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		svc := security.Get()
		if svc == nil {
			ctx.ReplyEphemeral("❌ El sistema de seguridad no está disponible.")
			return
		}

		cfg, err := svc.Configs.Get(ctx.Interaction.GuildID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error leyendo configuración: %v", err), "CMD-Panel")
			ctx.ReplyEphemeral("❌ Error al consultar la configuración.")
			return
		}

		err = ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds:     []*discordgo.MessageEmbed{PanelEmbed(cfg)},
				Components: PanelComponents(),
			},
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Error enviando panel: %v", err), "CMD-Panel")
		}
	}()

	return nil
}
