package utils

import (
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/discord"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/errors"
)

// createHelpCommand creates the /utils help subcommand
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Muestra información de ayuda",
		"utils",
		helpHandler,
	)
}

// helpHandler handles the /utils help command
func helpHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()
		ctx.Reply(
			"📖 **Ayuda de CentinelaBot Go**\n\n" +
				"**Comandos disponibles:**\n" +
				"• `/utils ping` - Comprueba la latencia\n" +
				"• `/utils status` - Estado del bot\n" +
				"• `/utils stats` - Estadísticas del bot\n" +
				"• `/utils userinfo <usuario>` - Información de un usuario\n" +
				"• `/seguridad panel` - Panel de protección del servidor\n" +
				"• `/seguridad antiraid <activar>` - Protección contra raids\n" +
				"• `/seguridad antinuke <umbral>` - Detector de ráfagas destructivas\n" +
				"• `/seguridad antispam <limite>` - Límite de mensajes por minuto\n" +
				"• `/seguridad antilink <activar>` - Filtro de enlaces\n" +
				"• `/seguridad cuarentena <usuario>` - Cuarentena manual\n" +
				"• `/seguridad liberar <usuario>` - Levanta una cuarentena\n" +
				"• `/seguridad sospechoso <usuario>` - Puntuación de riesgo\n" +
				"• `/mod ban <usuario> <razón>` - Banea a un usuario\n" +
				"• `/mod kick <usuario> <razón>` - Expulsa a un usuario\n" +
				"• `/mod warn <usuario> <razón>` - Advierte a un usuario\n" +
				"• `/mod mute <usuario> <duración> <razón>` - Mutea a un usuario\n" +
				"• `/mod warns <usuario>` - Lista las advertencias\n" +
				"• `/mod removewarn <usuario> <id>` - Elimina una advertencia\n" +
				"• `/mod clear <cantidad>` - Elimina mensajes recientes\n" +
				"• `/mod slowmode <segundos>` - Configura el modo lento",
		)
	}()
	return nil
}
