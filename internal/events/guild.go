package events

import (
	"fmt"
	"time"

	"github.com/NovaStudios/NovaBotGo/pkg/discord"
	"github.com/NovaStudios/NovaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterGuildEvents registers all guild-related event handlers
func RegisterGuildEvents(client *discord.ExtendedClient, deps Deps) {
	client.EventHandler.OnGuildCreate(onGuildCreate)
	client.EventHandler.OnGuildDelete(func(s *discordgo.Session, g *discordgo.GuildDelete) {
		onGuildDelete(s, g, deps)
	})
}

// onGuildCreate is called when the bot joins a server
func onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	Join := g.JoinedAt
	if Join.Compare(time.Now().Add(-10*time.Second)) < 0 {
		return
	}

	logger.Info(fmt.Sprintf("➕ Bot agregado a servidor: %s (ID: %s)", g.Name, g.ID), "Guild")

	if g.SystemChannelID != "" {
		welcomeEmbed := &discordgo.MessageEmbed{
			Title:       "¡Gracias por agregarme! 🎉",
			Description: "Hola, soy **NovaBot**. Usa `/utils help` para ver todos mis comandos.",
			Color:       0x5865F2,
			Fields: []*discordgo.MessageEmbedField{
				{
					Name:   "🎵 Música",
					Value:  "Reproduce música con `/play`",
					Inline: true,
				},
				{
					Name:   "🔊 Canales temporales",
					Value:  "Configura un generador con `/autovoice setup`",
					Inline: true,
				},
			},
		}

		_, err := s.ChannelMessageSendEmbed(g.SystemChannelID, welcomeEmbed)
		if err != nil {
			logger.Debug(fmt.Sprintf("No se pudo enviar bienvenida en %s: %v", g.ID, err), "Guild")
		}
	}
}

// onGuildDelete drops all per-guild playback state when the bot leaves a
// server, so nothing keeps accumulating for guilds we no longer serve.
func onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete, deps Deps) {
	// Unavailable means an outage, not a removal
	if g.Unavailable {
		return
	}

	logger.Info(fmt.Sprintf("➖ Bot eliminado del servidor: %s", g.ID), "Guild")
	deps.Music.Cleanup(g.ID)
}
