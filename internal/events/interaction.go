// Package events provides event handlers for interaction events
package events

import (
	"fmt"
	"strings"

	seccmd "github.com/CentinelaStudios/CentinelaBotGo/internal/commands/security"
	"github.com/CentinelaStudios/CentinelaBotGo/internal/security"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/discord"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterInteractionEvents registers all interaction-related event handlers
func RegisterInteractionEvents(client *discord.ExtendedClient) {
	client.Session.AddHandler(onInteractionCreate)
}

// onInteractionCreate handles message components (buttons, select menus).
// Slash commands are already handled by the CommandHandler.
func onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	logger.Debug(fmt.Sprintf("🔘 Componente clickeado: %s", customID), "Interaction")

	switch {
	case customID == "seguridad_panel_refresh":
		handlePanelRefresh(s, i)
	case strings.HasPrefix(customID, "cuarentena_liberar:"):
		handleQuarantineRelease(s, i, strings.TrimPrefix(customID, "cuarentena_liberar:"))
	default:
		logger.Debug(fmt.Sprintf("Componente no manejado: %s", customID), "Interaction")
	}
}

// handlePanelRefresh re-renders the security panel embed in place.
func handlePanelRefresh(s *discordgo.Session, i *discordgo.InteractionCreate) {
	svc := security.Get()
	if svc == nil {
		return
	}

	cfg, err := svc.Configs.Get(i.GuildID)
	if err != nil {
		logger.Error(fmt.Sprintf("Error leyendo configuración para el panel: %v", err), "Interaction")
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{seccmd.PanelEmbed(cfg)},
			Components: seccmd.PanelComponents(),
		},
	})
	if err != nil {
		logger.Error(fmt.Sprintf("Error actualizando el panel de seguridad: %v", err), "Interaction")
	}
}

// handleQuarantineRelease lifts a quarantine from the alert message button.
func handleQuarantineRelease(s *discordgo.Session, i *discordgo.InteractionCreate, userID string) {
	if i.Member == nil || i.Member.Permissions&discordgo.PermissionManageRoles == 0 {
		respondEphemeral(s, i, "❌ Necesitas el permiso **Gestionar Roles** para liberar a un usuario.")
		return
	}

	svc := security.Get()
	if svc == nil {
		return
	}

	if _, err := svc.Quarantine.Exit(i.GuildID, userID); err != nil {
		if err == security.ErrNotQuarantined {
			respondEphemeral(s, i, "⚠️ Ese usuario ya no está en cuarentena.")
		} else {
			respondEphemeral(s, i, "❌ No se pudo liberar al usuario.")
			logger.Error(fmt.Sprintf("Error liberando a %s: %v", userID, err), "Interaction")
		}
		return
	}

	respondEphemeral(s, i, fmt.Sprintf("✅ <@%s> liberado de la cuarentena.", userID))
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logger.Error(fmt.Sprintf("Error respondiendo interacción: %v", err), "Interaction")
	}
}
