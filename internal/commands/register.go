// Package commands wires every slash command of the bot.
package commands

import (
	"github.com/NovaStudios/NovaBotGo/internal/autovoice"
	"github.com/NovaStudios/NovaBotGo/internal/commands/dev"
	"github.com/NovaStudios/NovaBotGo/internal/commands/utils"
	"github.com/NovaStudios/NovaBotGo/internal/music"
	"github.com/NovaStudios/NovaBotGo/internal/playlist"
	"github.com/NovaStudios/NovaBotGo/pkg/discord"
)

// Deps carries the services the command handlers operate on. They are
// constructed in main and passed down so no handler reaches into globals.
type Deps struct {
	Music     *music.Orchestrator
	Registry  *music.Registry
	AutoVoice *autovoice.Manager
	Playlists *playlist.Service
	Backend   music.AudioBackend
}

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, deps Deps) {
	RegisterMusicCommands(client, deps)
	RegisterAutoVoiceCommands(client, deps)
	RegisterCreateChannelCommand(client, deps)
	RegisterPlaylistCommands(client, deps)
	utils.RegisterUtilsCommands(client, deps.Registry, deps.AutoVoice)
	dev.Register(client)
}
