package events

import (
	"fmt"

	"github.com/NovaStudios/NovaBotGo/pkg/discord"
	"github.com/NovaStudios/NovaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterChannelEvents registers all channel-related event handlers
func RegisterChannelEvents(client *discord.ExtendedClient, deps Deps) {
	client.EventHandler.OnChannelDelete(func(s *discordgo.Session, c *discordgo.ChannelDelete) {
		onChannelDelete(s, c, deps)
	})
}

// onChannelDelete drops the temp channel record when someone deletes the
// channel by hand. DeleteTempChannel is a no-op for foreign channels and
// tolerates the platform delete failing on an already-gone channel.
func onChannelDelete(s *discordgo.Session, c *discordgo.ChannelDelete, deps Deps) {
	if c.Type != discordgo.ChannelTypeGuildVoice {
		return
	}

	if deps.AutoVoice.IsTemporaryChannel(c.ID) {
		logger.Debug(fmt.Sprintf("🗑️ Canal temporal %s eliminado externamente", c.ID), "Channel")
		deps.AutoVoice.DeleteTempChannel(c.GuildID, c.ID)
	}
}
