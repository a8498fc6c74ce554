// Package autovoice contains the temporary voice channel core: trigger
// configuration, creation guards (per-user locks and cooldowns), dual
// provenance ownership tracking and debounced deletion of empty channels.
package autovoice

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// ChannelAPI abstracts the chat-platform voice channel operations the
// manager needs. All calls are synchronous; failures come back as errors.
type ChannelAPI interface {
	CreateVoiceChannel(guildID, name, categoryID string, userLimit int) (string, error)
	DeleteChannel(channelID string) error
	RenameChannel(channelID, name string) error
	SetUserLimit(channelID string, limit int) error
	LockChannel(guildID, channelID, ownerID string) error
	UnlockChannel(guildID, channelID string) error
	MoveMember(guildID, userID, channelID string) error
	HumanCount(guildID, channelID string) (int, error)
	ChannelExists(guildID, channelID string) (bool, error)
}

// DiscordChannelAPI implements ChannelAPI over a discordgo session
type DiscordChannelAPI struct {
	session *discordgo.Session
}

// NewDiscordChannelAPI wraps a discordgo session
func NewDiscordChannelAPI(session *discordgo.Session) *DiscordChannelAPI {
	return &DiscordChannelAPI{session: session}
}

// CreateVoiceChannel creates a voice channel and returns its id
func (a *DiscordChannelAPI) CreateVoiceChannel(guildID, name, categoryID string, userLimit int) (string, error) {
	data := discordgo.GuildChannelCreateData{
		Name:      name,
		Type:      discordgo.ChannelTypeGuildVoice,
		ParentID:  categoryID,
		UserLimit: userLimit,
	}
	channel, err := a.session.GuildChannelCreateComplex(guildID, data)
	if err != nil {
		return "", err
	}
	return channel.ID, nil
}

// DeleteChannel deletes a channel
func (a *DiscordChannelAPI) DeleteChannel(channelID string) error {
	_, err := a.session.ChannelDelete(channelID)
	return err
}

// RenameChannel changes a channel's display name
func (a *DiscordChannelAPI) RenameChannel(channelID, name string) error {
	_, err := a.session.ChannelEdit(channelID, &discordgo.ChannelEdit{Name: name})
	return err
}

// SetUserLimit changes a voice channel's user limit
func (a *DiscordChannelAPI) SetUserLimit(channelID string, limit int) error {
	_, err := a.session.ChannelEdit(channelID, &discordgo.ChannelEdit{UserLimit: limit})
	return err
}

// LockChannel denies the connect permission for @everyone and grants the
// owner an allow override so they can rejoin their own locked channel.
func (a *DiscordChannelAPI) LockChannel(guildID, channelID, ownerID string) error {
	// The @everyone role id equals the guild id.
	err := a.session.ChannelPermissionSet(
		channelID,
		guildID,
		discordgo.PermissionOverwriteTypeRole,
		0,
		discordgo.PermissionVoiceConnect,
	)
	if err != nil {
		return err
	}

	return a.session.ChannelPermissionSet(
		channelID,
		ownerID,
		discordgo.PermissionOverwriteTypeMember,
		discordgo.PermissionVoiceConnect,
		0,
	)
}

// UnlockChannel removes the connect denial for @everyone
func (a *DiscordChannelAPI) UnlockChannel(guildID, channelID string) error {
	return a.session.ChannelPermissionSet(
		channelID,
		guildID,
		discordgo.PermissionOverwriteTypeRole,
		discordgo.PermissionVoiceConnect,
		0,
	)
}

// MoveMember moves a member to a voice channel
func (a *DiscordChannelAPI) MoveMember(guildID, userID, channelID string) error {
	return a.session.GuildMemberMove(guildID, userID, &channelID)
}

// HumanCount returns the number of non-bot members in a voice channel
func (a *DiscordChannelAPI) HumanCount(guildID, channelID string) (int, error) {
	guild, err := a.session.State.Guild(guildID)
	if err != nil {
		return 0, fmt.Errorf("guild %s no está en caché: %w", guildID, err)
	}

	a.session.State.RLock()
	userIDs := make([]string, 0, len(guild.VoiceStates))
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == channelID {
			userIDs = append(userIDs, vs.UserID)
		}
	}
	a.session.State.RUnlock()

	count := 0
	for _, userID := range userIDs {
		member, err := a.session.State.Member(guildID, userID)
		// Unknown members count as human so an empty-looking cache
		// never deletes an occupied channel.
		if err != nil || member.User == nil || !member.User.Bot {
			count++
		}
	}
	return count, nil
}

// ChannelExists reports whether a channel exists in the guild
func (a *DiscordChannelAPI) ChannelExists(guildID, channelID string) (bool, error) {
	if channel, err := a.session.State.Channel(channelID); err == nil {
		return channel.GuildID == guildID, nil
	}
	channel, err := a.session.Channel(channelID)
	if err != nil {
		if restErr, ok := err.(*discordgo.RESTError); ok && restErr.Response != nil && restErr.Response.StatusCode == 404 {
			return false, nil
		}
		return false, err
	}
	return channel.GuildID == guildID, nil
}
