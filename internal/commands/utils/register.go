package utils

import (
	"github.com/NovaStudios/NovaBotGo/internal/autovoice"
	"github.com/NovaStudios/NovaBotGo/internal/music"
	"github.com/NovaStudios/NovaBotGo/pkg/discord"
)

// RegisterUtilsCommands registers the /utils command group
func RegisterUtilsCommands(client *discord.ExtendedClient, registry *music.Registry, manager *autovoice.Manager) {
	pingCmd := createPingCommand()
	statusCmd := createStatusCommand()
	helpCmd := createHelpCommand()
	statsCmd := createStatsCommand(registry, manager)

	group := client.CommandHandler.BuildCommandGroup(
		"utils",
		"Comandos de utilidad",
		pingCmd,
		statusCmd,
		helpCmd,
		statsCmd,
	)

	client.CommandHandler.AddGlobalCommand(group)
}
