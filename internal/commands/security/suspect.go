package security

import (
	"fmt"
	"time"

	"github.com/CentinelaStudios/CentinelaBotGo/internal/security"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/discord"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// createSuspectCommand creates the /seguridad sospechoso subcommand
func createSuspectCommand() *discord.Command {
	return discord.NewCommand(
		"sospechoso",
		"Evalúa la puntuación de riesgo de un usuario",
		"security",
		suspectHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a evaluar",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageServer).RequiresDatabase()
}

func suspectHandler(ctx *discord.CommandContext) error {
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

		created, err := discordgo.SnowflakeTimestamp(user.ID)
		if err != nil {
			ctx.ReplyEphemeral("❌ No se pudo leer la fecha de creación de la cuenta.")
			return
		}

		score := svc.ScoreMember(security.MemberProfile{
			AccountCreatedAt: created,
			HasAvatar:        user.Avatar != "",
			Username:         user.Username,
		})

		cfg, err := svc.Configs.Get(ctx.Interaction.GuildID)
		if err != nil {
			ctx.ReplyEphemeral("❌ No se pudo leer la configuración de seguridad.")
			return
		}

		verdict := "✅ Por debajo del umbral"
		color := 0x00FF00
		if score >= cfg.RiskThreshold {
			verdict = "🚨 Por encima del umbral"
			color = 0xFF0000
		}

		fields := []*discordgo.MessageEmbedField{
			{Name: "📊 Puntuación", Value: fmt.Sprintf("**%d** / umbral %d", score, cfg.RiskThreshold), Inline: true},
			{Name: "📅 Cuenta creada", Value: fmt.Sprintf("<t:%d:R>", created.Unix()), Inline: true},
			{Name: "⚖️ Veredicto", Value: verdict, Inline: false},
		}

		if rec, err := svc.Quarantine.Record(ctx.Interaction.GuildID, user.ID); err == nil && rec != nil {
			fields = append(fields, &discordgo.MessageEmbedField{
				Name:   "🔒 Cuarentena",
				Value:  fmt.Sprintf("En cuarentena desde <t:%d:R>\nRazón: %s", rec.QuarantinedAt.Unix(), rec.Reason),
				Inline: false,
			})
		}

		ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Title: fmt.Sprintf("Análisis de riesgo de %s", user.Username),
			Thumbnail: &discordgo.MessageEmbedThumbnail{
				URL: user.AvatarURL("256"),
			},
			Color:  color,
			Fields: fields,
			Footer: &discordgo.MessageEmbedFooter{
				Text: "💫 - Developed by CentinelaStudios",
			},
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}()

	return nil
}
