package dev

import (
	"github.com/NovaStudios/NovaBotGo/pkg/discord"
)

// Register registers all dev commands as /dev subcommands (only in dev guild)
func Register(client *discord.ExtendedClient) {
	evalCmd := CreateEvalCommand()

	devGroup := client.CommandHandler.BuildCommandGroup(
		"dev",
		"Comandos de desarrollo",
		evalCmd,
	)

	client.CommandHandler.AddDevCommand(devGroup)
}
