package security

import (
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// RegisterSecurityCommands registers all security commands as /seguridad subcommands
func RegisterSecurityCommands(client *discord.ExtendedClient) {
	// Create individual subcommands
	panelCmd := createPanelCommand()
	suspectCmd := createSuspectCommand()
	quarantineCmd := createQuarantineCommand()
	releaseCmd := createReleaseCommand()
	antiraidCmd := createAntiraidCommand()
	antinukeCmd := createAntinukeCommand()
	antispamCmd := createAntispamCommand()
	antilinkCmd := createAntilinkCommand()

	// Build the config subcommand group
	configGroup := client.CommandHandler.BuildSubcommandGroup(
		"seguridad",
		"config",
		"Ajustes de la cuarentena",
		createConfigRoleCommand(),
		createConfigChannelCommand(),
		createConfigThresholdCommand(),
		createConfigDurationCommand(),
	)

	// Build the /seguridad command group with all subcommands
	securityGroup := &discordgo.ApplicationCommand{
		Name:        "seguridad",
		Description: "Sistema de protección del servidor",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        panelCmd.Name,
				Description: panelCmd.Description,
				Options:     panelCmd.Options,
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        suspectCmd.Name,
				Description: suspectCmd.Description,
				Options:     suspectCmd.Options,
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        quarantineCmd.Name,
				Description: quarantineCmd.Description,
				Options:     quarantineCmd.Options,
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        releaseCmd.Name,
				Description: releaseCmd.Description,
				Options:     releaseCmd.Options,
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        antiraidCmd.Name,
				Description: antiraidCmd.Description,
				Options:     antiraidCmd.Options,
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        antinukeCmd.Name,
				Description: antinukeCmd.Description,
				Options:     antinukeCmd.Options,
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        antispamCmd.Name,
				Description: antispamCmd.Description,
				Options:     antispamCmd.Options,
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        antilinkCmd.Name,
				Description: antilinkCmd.Description,
				Options:     antilinkCmd.Options,
			},
			configGroup,
		},
	}

	// Register the individual commands in the command map
	client.Commands.Set("seguridad.panel", panelCmd)
	client.Commands.Set("seguridad.sospechoso", suspectCmd)
	client.Commands.Set("seguridad.cuarentena", quarantineCmd)
	client.Commands.Set("seguridad.liberar", releaseCmd)
	client.Commands.Set("seguridad.antiraid", antiraidCmd)
	client.Commands.Set("seguridad.antinuke", antinukeCmd)
	client.Commands.Set("seguridad.antispam", antispamCmd)
	client.Commands.Set("seguridad.antilink", antilinkCmd)

	// Register the command group as a global command
	client.CommandHandler.AddGlobalCommand(securityGroup)
}
