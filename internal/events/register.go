// Package events provides event handlers for the bot.
// Events are organized by category (ready, guild, voice, channel).
package events

import (
	"github.com/NovaStudios/NovaBotGo/internal/autovoice"
	"github.com/NovaStudios/NovaBotGo/internal/music"
	"github.com/NovaStudios/NovaBotGo/pkg/discord"
	"github.com/NovaStudios/NovaBotGo/pkg/logger"
)

// Deps carries the services the event handlers operate on. Injected from
// main, same as the command handlers.
type Deps struct {
	AutoVoice *autovoice.Manager
	Music     *music.Registry
	Voice     music.VoiceGateway
}

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient, deps Deps) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	RegisterReadyEvent(client, deps)
	RegisterGuildEvents(client, deps)
	RegisterVoiceEvents(client, deps)
	RegisterChannelEvents(client, deps)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}
