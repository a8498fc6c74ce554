package events

import (
	"fmt"
	"time"

	"github.com/NovaStudios/NovaBotGo/pkg/discord"
	"github.com/NovaStudios/NovaBotGo/pkg/errors"
	"github.com/NovaStudios/NovaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterVoiceEvents registers all voice-related event handlers
func RegisterVoiceEvents(client *discord.ExtendedClient, deps Deps) {
	client.EventHandler.OnVoiceStateUpdate(func(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
		go func() {
			defer errors.RecoverMiddleware()()
			onVoiceStateUpdate(s, v, deps)
		}()
	})
}

// memberDisplayName resolves the name used for spawned channels, falling
// back to a REST fetch when the event does not carry the member.
func memberDisplayName(s *discordgo.Session, v *discordgo.VoiceStateUpdate) string {
	if v.Member != nil {
		if v.Member.Nick != "" {
			return v.Member.Nick
		}
		if v.Member.User != nil {
			return v.Member.User.Username
		}
	}

	member, err := s.GuildMember(v.GuildID, v.UserID)
	if err != nil || member.User == nil {
		return "Usuario"
	}
	if member.Nick != "" {
		return member.Nick
	}
	return member.User.Username
}

// onVoiceStateUpdate drives the temp channel lifecycle: joins into a trigger
// or create channel spawn a channel, leaving a temp channel schedules its
// deletion check.
func onVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate, deps Deps) {
	if s.State.User != nil && v.UserID == s.State.User.ID {
		return
	}

	previousChannel := ""
	if v.BeforeUpdate != nil {
		previousChannel = v.BeforeUpdate.ChannelID
	}

	// Join or move into a channel
	if v.ChannelID != "" && v.ChannelID != previousChannel {
		switch {
		case deps.AutoVoice.IsTriggerChannel(v.GuildID, v.ChannelID):
			record := deps.AutoVoice.CreateTempChannel(v.GuildID, v.UserID, memberDisplayName(s, v), v.ChannelID)
			if record != nil {
				deps.AutoVoice.MoveOwnerIn(v.GuildID, v.UserID, record.ChannelID)
				logger.Debug(fmt.Sprintf("🔊 Canal temporal %s creado para %s", record.ChannelID, v.UserID), "Voice")
			} else {
				logCooldownSkip(v.GuildID, v.UserID, deps)
			}

		case deps.AutoVoice.IsCreateChannel(v.GuildID, v.ChannelID):
			channelID := deps.AutoVoice.CreateEphemeralChannel(v.GuildID, v.UserID, memberDisplayName(s, v))
			if channelID != "" {
				deps.AutoVoice.MoveOwnerIn(v.GuildID, v.UserID, channelID)
				logger.Debug(fmt.Sprintf("🔊 Canal efímero %s creado para %s", channelID, v.UserID), "Voice")
			} else {
				logCooldownSkip(v.GuildID, v.UserID, deps)
			}
		}
	}

	// Leave or move out of a channel
	if previousChannel != "" && previousChannel != v.ChannelID {
		if deps.AutoVoice.IsTemporaryChannel(previousChannel) {
			deps.AutoVoice.ScheduleDeletionCheck(v.GuildID, previousChannel)
		}

		checkBotAlone(s, v.GuildID, previousChannel, deps)
	}
}

// logCooldownSkip notes why a creation attempt produced no channel when the
// user is still inside the cooldown window.
func logCooldownSkip(guildID, userID string, deps Deps) {
	remaining := deps.AutoVoice.CooldownRemaining(guildID, userID)
	if remaining <= 0 {
		return
	}
	logger.Debug(fmt.Sprintf("⏳ %s en cooldown de creación, quedan %s", userID, remaining.Round(time.Second)), "Voice")
}

// checkBotAlone stops playback and disconnects when the last human leaves
// the channel the bot is playing in.
func checkBotAlone(s *discordgo.Session, guildID, channelID string, deps Deps) {
	if s.State.User == nil {
		return
	}

	botState, err := s.State.VoiceState(guildID, s.State.User.ID)
	if err != nil || botState == nil || botState.ChannelID != channelID {
		return
	}

	guild, err := s.State.Guild(guildID)
	if err != nil {
		return
	}

	// The gateway mutates VoiceStates concurrently: copy the ids under the
	// state read lock before resolving members, like HumanCount does.
	s.State.RLock()
	userIDs := make([]string, 0, len(guild.VoiceStates))
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == channelID && vs.UserID != s.State.User.ID {
			userIDs = append(userIDs, vs.UserID)
		}
	}
	s.State.RUnlock()

	humans := 0
	for _, userID := range userIDs {
		member, err := s.State.Member(guildID, userID)
		if err != nil || member.User == nil || !member.User.Bot {
			humans++
		}
	}

	if humans > 0 {
		return
	}

	logger.Info(fmt.Sprintf("🔇 Canal %s sin oyentes, desconectando", channelID), "Voice")
	deps.Music.Cleanup(guildID)
	if deps.Voice != nil {
		if err := deps.Voice.Leave(guildID); err != nil {
			logger.Warn(fmt.Sprintf("Error saliendo del canal de voz en %s: %v", guildID, err), "Voice")
		}
	}
}
