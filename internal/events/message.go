// Package events provides event handlers for message events
package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/CentinelaStudios/CentinelaBotGo/internal/security"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/discord"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterMessageEvents registers all message-related event handlers
func RegisterMessageEvents(client *discord.ExtendedClient) {
	client.Session.AddHandler(onMessageCreate)
	client.Session.AddHandler(onMessageUpdate)
	client.Session.AddHandler(onMessageDelete)
}

// guardableMessage reports whether a message type carries user text. System
// notices (pins, join announcements, boosts) never count for antispam or
// antilink.
func guardableMessage(t discordgo.MessageType) bool {
	return t == discordgo.MessageTypeDefault || t == discordgo.MessageTypeReply
}

// onMessageCreate is called when a new message is created
func onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignorar mensajes de bots
	if m.Author.Bot {
		return
	}

	if !guardableMessage(m.Type) {
		return
	}

	// El guardián de mensajes (antispam/antilink) evalúa antes que nada
	if svc := security.Get(); svc != nil && m.GuildID != "" {
		svc.Dispatch(&security.Event{
			Kind:      security.EventMessagePosted,
			GuildID:   m.GuildID,
			UserID:    m.Author.ID,
			ChannelID: m.ChannelID,
			MessageID: m.ID,
			Content:   m.Content,
			Timestamp: time.Now(),
		})
	}

	// Responder a menciones del bot
	for _, mention := range m.Mentions {
		if mention.ID == s.State.User.ID {
			embed := &discordgo.MessageEmbed{
				Title:       "👋 ¡Hola!",
				Description: "Usa comandos **slash (/)** para interactuar conmigo.\nEscribe `/help` para ver todos los comandos disponibles.",
				Color:       0x3498db,
				Fields: []*discordgo.MessageEmbedField{
					{
						Name:   "🛡️ Seguridad",
						Value:  "`/seguridad` - Panel de protección",
						Inline: true,
					},
					{
						Name:   "🔧 Moderación",
						Value:  "`/mod` - Comandos de moderación",
						Inline: true,
					},
					{
						Name:   "❓ Ayuda",
						Value:  "`/help` - Ver todos los comandos",
						Inline: true,
					},
				},
			}
			_, err := s.ChannelMessageSendEmbed(m.ChannelID, embed)
			if err != nil {
				logger.Error(fmt.Sprintf("Error enviando respuesta: %v", err), "Message")
			}
			break
		}
	}

	// Respuestas automáticas
	content := strings.ToLower(m.Content)

	if strings.Contains(content, "hola bot") || strings.Contains(content, "hola centinela") {
		_, err := s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("¡Hola <@%s>! 👋 ¿En qué puedo ayudarte?", m.Author.ID))
		if err != nil {
			logger.Error(fmt.Sprintf("Error enviando saludo: %v", err), "Message")
		}
	}

	if strings.Contains(content, "gracias bot") || strings.Contains(content, "gracias centinela") {
		_, err := s.ChannelMessageSend(m.ChannelID, "¡De nada! 😊 Siempre es un placer ayudar.")
		if err != nil {
			logger.Error(fmt.Sprintf("Error enviando agradecimiento: %v", err), "Message")
		}
	}
}

// onMessageUpdate is called when a message is edited
func onMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	// Un enlace añadido por edición pasa por el anti-link; las ediciones
	// nunca cuentan para la ventana de antispam
	if svc := security.Get(); svc != nil && m.GuildID != "" && security.ContainsLink(m.Content) {
		svc.Dispatch(&security.Event{
			Kind:      security.EventMessagePosted,
			GuildID:   m.GuildID,
			UserID:    m.Author.ID,
			ChannelID: m.ChannelID,
			MessageID: m.ID,
			Content:   m.Content,
			Edited:    true,
			Timestamp: time.Now(),
		})
	}

	logger.Debug(fmt.Sprintf("✏️ Mensaje editado por %s en canal %s",
		m.Author.Username, m.ChannelID), "Message")
}

// onMessageDelete is called when a message is deleted
func onMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	logger.Debug(fmt.Sprintf("🗑️ Mensaje eliminado: ID %s en canal %s",
		m.ID, m.ChannelID), "Message")
}
