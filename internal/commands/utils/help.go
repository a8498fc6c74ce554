package utils

import (
	"github.com/NovaStudios/NovaBotGo/pkg/discord"
)

// createHelpCommand creates the /utils help subcommand
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Muestra información de ayuda",
		"utils",
		func(ctx *discord.CommandContext) error {
			return ctx.Reply(
				"📖 **Ayuda de NovaBot Go**\n\n" +
					"**Música:**\n" +
					"• `/play <query>` - Reproduce una canción o la añade a la cola\n" +
					"• `/stop` - Detiene la reproducción y limpia la cola\n" +
					"• `/next` - Salta a la siguiente canción\n" +
					"• `/previous` - Vuelve a la canción anterior\n" +
					"• `/pause` / `/resume` - Pausa o reanuda\n" +
					"• `/nowplaying` - Canción actual\n" +
					"• `/queue` - Cola de reproducción\n\n" +
					"**Canales temporales:**\n" +
					"• `/autovoice setup` - Configura un canal generador\n" +
					"• `/autovoice lock|unlock|rename|limit` - Gestiona tu canal\n" +
					"• `/setcreatechannel` - Canal creador de canales efímeros\n\n" +
					"**Playlists:**\n" +
					"• `/playlist add|list|tracks|remove` - Playlists personales\n\n" +
					"**Utilidad:**\n" +
					"• `/utils ping` - Latencia\n" +
					"• `/utils status` - Estado del bot\n" +
					"• `/utils stats` - Estadísticas",
			)
		},
	)
}
