// Package events provides event handlers for privileged moderation actions.
package events

import (
	"fmt"
	"time"

	"github.com/CentinelaStudios/CentinelaBotGo/internal/security"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/discord"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterModerationEvents registers the handlers that feed the burst
// detector: bans, channel deletions and role deletions.
func RegisterModerationEvents(client *discord.ExtendedClient) {
	client.Session.AddHandler(onGuildBanAdd)
	client.Session.AddHandler(onChannelDelete)
	client.Session.AddHandler(onGuildRoleDelete)
}

func onGuildBanAdd(s *discordgo.Session, b *discordgo.GuildBanAdd) {
	dispatchAction(s, b.GuildID, "ban", discordgo.AuditLogActionMemberBanAdd)
}

func onChannelDelete(s *discordgo.Session, c *discordgo.ChannelDelete) {
	if c.GuildID == "" {
		return
	}
	dispatchAction(s, c.GuildID, "channel_delete", discordgo.AuditLogActionChannelDelete)
}

func onGuildRoleDelete(s *discordgo.Session, r *discordgo.GuildRoleDelete) {
	dispatchAction(s, r.GuildID, "role_delete", discordgo.AuditLogActionRoleDelete)
}

// dispatchAction attributes the action to its executor via the audit log and
// feeds it to the security pipeline. The gateway payload never names the
// actor, only the audit log does.
func dispatchAction(s *discordgo.Session, guildID, action string, auditAction discordgo.AuditLogAction) {
	svc := security.Get()
	if svc == nil {
		return
	}

	actorID, isBot := resolveActor(s, guildID, auditAction)
	if actorID == "" {
		logger.Debug(fmt.Sprintf("Acción %s en %s sin autor atribuible", action, guildID), "Moderation")
		return
	}
	// Las acciones del propio bot (p. ej. el guardián borrando canales de
	// spam) no alimentan el detector
	if s.State.User != nil && actorID == s.State.User.ID {
		return
	}

	svc.Dispatch(&security.Event{
		Kind:      security.EventActionPerformed,
		GuildID:   guildID,
		ActorID:   actorID,
		Action:    action,
		Bot:       isBot,
		Timestamp: time.Now(),
	})
}

// resolveActor reads the newest audit log entry for the action type.
func resolveActor(s *discordgo.Session, guildID string, auditAction discordgo.AuditLogAction) (string, bool) {
	audit, err := s.GuildAuditLog(guildID, "", "", int(auditAction), 1)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo leer el registro de auditoría de %s: %v", guildID, err), "Moderation")
		return "", false
	}
	if len(audit.AuditLogEntries) == 0 {
		return "", false
	}

	entry := audit.AuditLogEntries[0]
	for _, u := range audit.Users {
		if u.ID == entry.UserID {
			return entry.UserID, u.Bot
		}
	}
	return entry.UserID, false
}
