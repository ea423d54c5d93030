package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/CentinelaStudios/CentinelaBotGo/internal/security"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/discord"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// createUserInfoCommand creates the /utils userinfo subcommand
func createUserInfoCommand() *discord.Command {
	return discord.NewCommand(
		"userinfo",
		"Muestra información de un usuario",
		"utils",
		userInfoHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a consultar (por defecto tú)",
			Required:    false,
		},
	)
}

// userInfoHandler handles the /utils userinfo command
func userInfoHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("usuario")
		if user == nil {
			user = ctx.User()
		}

		created, err := discordgo.SnowflakeTimestamp(user.ID)
		if err != nil {
			ctx.ReplyEphemeral("❌ No se pudo leer la información del usuario.")
			return
		}

		fields := []*discordgo.MessageEmbedField{
			{Name: "🆔 ID", Value: user.ID, Inline: true},
			{Name: "📅 Cuenta creada", Value: fmt.Sprintf("<t:%d:R>", created.Unix()), Inline: true},
		}

		member, err := ctx.Session.GuildMember(ctx.Interaction.GuildID, user.ID)
		if err == nil && member != nil {
			if !member.JoinedAt.IsZero() {
				fields = append(fields, &discordgo.MessageEmbedField{
					Name: "📥 Se unió", Value: fmt.Sprintf("<t:%d:R>", member.JoinedAt.Unix()), Inline: true,
				})
			}
			if len(member.Roles) > 0 {
				mentions := make([]string, 0, len(member.Roles))
				for _, roleID := range member.Roles {
					mentions = append(mentions, fmt.Sprintf("<@&%s>", roleID))
				}
				value := strings.Join(mentions, " ")
				if len(value) > 1024 {
					value = value[:1020] + "..."
				}
				fields = append(fields, &discordgo.MessageEmbedField{
					Name: "🎭 Roles", Value: value, Inline: false,
				})
			}
		}

		if svc := security.Get(); svc != nil && !user.Bot {
			score := svc.ScoreMember(security.MemberProfile{
				AccountCreatedAt: created,
				HasAvatar:        user.Avatar != "",
				Username:         user.Username,
			})
			fields = append(fields, &discordgo.MessageEmbedField{
				Name: "📊 Puntuación de riesgo", Value: fmt.Sprintf("%d", score), Inline: true,
			})
		}

		ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Title: fmt.Sprintf("Información de %s", user.Username),
			Thumbnail: &discordgo.MessageEmbedThumbnail{
				URL: user.AvatarURL("256"),
			},
			Color:  0x5865F2,
			Fields: fields,
			Footer: &discordgo.MessageEmbedFooter{
				Text:    "💫 - Developed by CentinelaStudios",
				IconURL: ctx.Client.Session.State.User.AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}()

	return nil
}
