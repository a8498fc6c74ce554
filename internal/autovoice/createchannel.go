package autovoice

import (
	"fmt"
	"time"

	"github.com/NovaStudios/NovaBotGo/pkg/logger"
)

// The shared create-channel flow: one configured voice channel per guild
// whose join event spawns an ephemeral channel with in-memory-only
// ownership. Unlike the trigger flow nothing is persisted; a restart
// forgets these channels.

// SetCreateChannel configures the guild's shared create channel
func (m *Manager) SetCreateChannel(guildID, channelID string) {
	m.createMu.Lock()
	m.createChannels[guildID] = channelID
	m.createMu.Unlock()
}

// CreateChannelID returns the guild's shared create channel id, empty when
// none is configured.
func (m *Manager) CreateChannelID(guildID string) string {
	m.createMu.RLock()
	defer m.createMu.RUnlock()
	return m.createChannels[guildID]
}

// IsCreateChannel reports whether the channel is the guild's shared create
// channel.
func (m *Manager) IsCreateChannel(guildID, channelID string) bool {
	return channelID != "" && m.CreateChannelID(guildID) == channelID
}

// CreateEphemeralChannel creates an in-memory-owned temp channel for a user
// who joined the shared create channel. Same creation guards as the
// trigger flow: per-(guild,user) lock, ownership recheck, cooldown stamp.
// Returns the new channel id, or empty on any precondition failure.
func (m *Manager) CreateEphemeralChannel(guildID, ownerID, ownerName string) string {
	if m.hasOwnership(guildID, ownerID) || m.onCooldown(guildID, ownerID) {
		return ""
	}

	lock := m.lockFor(guildID, ownerID)
	lock.Lock()
	defer lock.Unlock()

	if m.hasOwnership(guildID, ownerID) || m.onCooldown(guildID, ownerID) {
		return ""
	}

	name := "🔊 | Canal de " + ownerName
	channelID, err := m.api.CreateVoiceChannel(guildID, name, "", 0)
	if err != nil {
		logger.Error(fmt.Sprintf("Error creando canal efímero para %s en guild %s: %v", ownerID, guildID, err), "AutoVoice")
		return ""
	}

	m.RegisterEphemeralOwner(guildID, channelID, ownerID)
	m.stampCooldown(guildID, ownerID)
	logger.Info(fmt.Sprintf("Canal efímero %s creado para %s en guild %s", channelID, ownerName, guildID), "AutoVoice")
	return channelID
}

// MoveOwnerIn moves the new owner into their freshly created channel
func (m *Manager) MoveOwnerIn(guildID, ownerID, channelID string) {
	if err := m.api.MoveMember(guildID, ownerID, channelID); err != nil {
		logger.Warn(fmt.Sprintf("Error moviendo a %s al canal %s: %v", ownerID, channelID, err), "AutoVoice")
	}
}

// CooldownRemaining returns how long the user must wait before another
// creation attempt, zero when no cooldown is active.
func (m *Manager) CooldownRemaining(guildID, userID string) time.Duration {
	m.cooldownMu.RLock()
	defer m.cooldownMu.RUnlock()
	stamp, ok := m.cooldowns[guardKey(guildID, userID)]
	if !ok {
		return 0
	}
	remaining := m.cooldownWindow - time.Since(stamp)
	if remaining < 0 {
		return 0
	}
	return remaining
}
