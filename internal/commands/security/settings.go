package security

import (
	stderrors "errors"
	"fmt"

	"github.com/CentinelaStudios/CentinelaBotGo/internal/security"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/discord"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/errors"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// applyConfig runs a single-field mutation against the guild's security
// configuration and replies with the result. Every settings subcommand
// funnels through here.
func applyConfig(ctx *discord.CommandContext, confirmation string, mutate func(*models.GuildSecurityConfig)) {
	svc := security.Get()
	if svc == nil {
		ctx.ReplyEphemeral("❌ El sistema de seguridad no está disponible.")
		return
	}

	if _, err := svc.Configs.Update(ctx.Interaction.GuildID, mutate); err != nil {
		if stderrors.Is(err, security.ErrInvalidInput) {
			ctx.ReplyEphemeral(fmt.Sprintf("❌ Valor rechazado: %v", err))
		} else {
			ctx.ReplyEphemeral("❌ No se pudo guardar la configuración.")
		}
		return
	}

	ctx.Reply(confirmation)
}

// createAntiraidCommand creates the /seguridad antiraid subcommand
func createAntiraidCommand() *discord.Command {
	return discord.NewCommand(
		"antiraid",
		"Configura la protección contra raids",
		"security",
		antiraidHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "activar",
			Description: "Activa o desactiva la protección antiraid",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "dias",
			Description: "Edad mínima de la cuenta en días (0 para no filtrar por edad)",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "accion",
			Description: "Qué hacer con las cuentas demasiado nuevas",
			Required:    false,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Expulsar", Value: "kick"},
				{Name: "Banear", Value: "ban"},
				{Name: "Nada (solo cuarentena)", Value: "nada"},
			},
		},
	).WithUserPermissions(discordgo.PermissionManageServer).RequiresDatabase()
}

func antiraidHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		active := ctx.GetBoolOption("activar")
		days := ctx.GetIntOption("dias")
		action := ctx.GetStringOption("accion")

		state := "desactivada"
		if active {
			state = "activada"
		}

		applyConfig(ctx, fmt.Sprintf("🛡️ Protección antiraid **%s**.", state), func(cfg *models.GuildSecurityConfig) {
			cfg.IsActive = active
			if ctx.GetOption("dias") != nil {
				cfg.RequiredAccountAgeDays = int(days)
			}
			switch action {
			case "kick":
				cfg.KickNewMembers = true
				cfg.BanNewMembers = false
			case "ban":
				cfg.KickNewMembers = false
				cfg.BanNewMembers = true
			case "nada":
				cfg.KickNewMembers = false
				cfg.BanNewMembers = false
			}
		})
	}()

	return nil
}

// createAntinukeCommand creates the /seguridad antinuke subcommand
func createAntinukeCommand() *discord.Command {
	return discord.NewCommand(
		"antinuke",
		"Configura el detector de ráfagas de acciones destructivas",
		"security",
		antinukeHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "umbral",
			Description: "Número de acciones que dispara la alarma",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "ventana",
			Description: "Ventana de tiempo en segundos",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageServer).RequiresDatabase()
}

func antinukeHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		threshold := ctx.GetIntOption("umbral")
		window := ctx.GetIntOption("ventana")

		applyConfig(ctx, fmt.Sprintf("💣 Antinuke configurado: **%d** acciones disparan la alarma.", threshold), func(cfg *models.GuildSecurityConfig) {
			cfg.ActionBurstThreshold = int(threshold)
			if ctx.GetOption("ventana") != nil {
				cfg.ActionBurstWindowSeconds = int(window)
			}
		})
	}()

	return nil
}

// createAntispamCommand creates the /seguridad antispam subcommand
func createAntispamCommand() *discord.Command {
	return discord.NewCommand(
		"antispam",
		"Configura el límite de mensajes por minuto",
		"security",
		antispamHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "limite",
			Description: "Mensajes por minuto permitidos antes de limpiar",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageServer).RequiresDatabase()
}

func antispamHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		limit := ctx.GetIntOption("limite")
		applyConfig(ctx, fmt.Sprintf("💬 Antispam configurado: máximo **%d** mensajes por minuto.", limit), func(cfg *models.GuildSecurityConfig) {
			cfg.AntispamLimit = int(limit)
		})
	}()

	return nil
}

// createAntilinkCommand creates the /seguridad antilink subcommand
func createAntilinkCommand() *discord.Command {
	return discord.NewCommand(
		"antilink",
		"Activa o desactiva el filtro de enlaces",
		"security",
		antilinkHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "activar",
			Description: "Activa o desactiva el filtro",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageServer).RequiresDatabase()
}

func antilinkHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		active := ctx.GetBoolOption("activar")
		state := "desactivado"
		if active {
			state = "activado"
		}

		applyConfig(ctx, fmt.Sprintf("🔗 Filtro de enlaces **%s**.", state), func(cfg *models.GuildSecurityConfig) {
			cfg.AntilinkEnabled = active
		})
	}()

	return nil
}

// createConfigRoleCommand creates the /seguridad config rol subcommand
func createConfigRoleCommand() *discord.Command {
	return discord.NewCommand(
		"rol",
		"Define el rol que se asigna a los usuarios en cuarentena",
		"security",
		configRoleHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "rol",
			Description: "Rol de cuarentena",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageServer).RequiresDatabase()
}

func configRoleHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		role := ctx.GetRoleOption("rol")
		if role == nil {
			ctx.ReplyEphemeral("❌ Debes especificar un rol.")
			return
		}

		applyConfig(ctx, fmt.Sprintf("🔒 Rol de cuarentena configurado: <@&%s>", role.ID), func(cfg *models.GuildSecurityConfig) {
			cfg.QuarantineRoleID = role.ID
		})
	}()

	return nil
}

// createConfigChannelCommand creates the /seguridad config canal subcommand
func createConfigChannelCommand() *discord.Command {
	return discord.NewCommand(
		"canal",
		"Define el canal donde se publican las alertas de seguridad",
		"security",
		configChannelHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "canal",
			Description: "Canal de alertas y cuarentena",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageServer).RequiresDatabase()
}

func configChannelHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		channel := ctx.GetChannelOption("canal")
		if channel == nil {
			ctx.ReplyEphemeral("❌ Debes especificar un canal.")
			return
		}

		applyConfig(ctx, fmt.Sprintf("📢 Canal de alertas configurado: <#%s>", channel.ID), func(cfg *models.GuildSecurityConfig) {
			cfg.QuarantineChannelID = channel.ID
		})
	}()

	return nil
}

// createConfigThresholdCommand creates the /seguridad config umbral subcommand
func createConfigThresholdCommand() *discord.Command {
	return discord.NewCommand(
		"umbral",
		"Define la puntuación de riesgo que activa la cuarentena automática",
		"security",
		configThresholdHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "puntos",
			Description: "Puntuación mínima para entrar en cuarentena",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageServer).RequiresDatabase()
}

func configThresholdHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		points := ctx.GetIntOption("puntos")
		applyConfig(ctx, fmt.Sprintf("📊 Umbral de riesgo configurado: **%d** puntos.", points), func(cfg *models.GuildSecurityConfig) {
			cfg.RiskThreshold = int(points)
		})
	}()

	return nil
}

// createConfigDurationCommand creates the /seguridad config duracion subcommand
func createConfigDurationCommand() *discord.Command {
	return discord.NewCommand(
		"duracion",
		"Define cuántas horas dura la cuarentena automática",
		"security",
		configDurationHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "horas",
			Description: "Duración de la cuarentena en horas",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageServer).RequiresDatabase()
}

func configDurationHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		hours := ctx.GetIntOption("horas")
		applyConfig(ctx, fmt.Sprintf("⏱️ Duración de la cuarentena configurada: **%d** horas.", hours), func(cfg *models.GuildSecurityConfig) {
			cfg.QuarantineDurationHours = int(hours)
		})
	}()

	return nil
}
