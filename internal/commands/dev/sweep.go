package dev

import (
	"fmt"
	"time"

	"github.com/CentinelaStudios/CentinelaBotGo/internal/security"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/discord"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/errors"
)

// CreateSweepCommand crea el comando /dev sweep
func CreateSweepCommand() *discord.Command {
	return discord.NewCommand(
		"sweep",
		"Fuerza una pasada del barrido de cuarentenas expiradas",
		"dev",
		sweepHandler,
	).RequiresDatabase()
}

func sweepHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		if !isDev(ctx.User().ID) {
			ctx.ReplyEphemeral("❌ **Acceso Denegado:** Este comando es solo para el dueño del bot.")
			return
		}

		svc := security.Get()
		if svc == nil {
			ctx.ReplyEphemeral("❌ El sistema de seguridad no está disponible.")
			return
		}

		ctx.Defer()
		start := time.Now()
		svc.Sweeper.Sweep()
		ctx.EditReply(fmt.Sprintf("🧹 Barrido de cuarentenas completado en %s.", time.Since(start).Round(time.Millisecond)))
	}()

	return nil
}
