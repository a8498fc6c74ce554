package autovoice

import (
	"fmt"
	"sync"
	"time"

	"github.com/NovaStudios/NovaBotGo/pkg/logger"
	"github.com/NovaStudios/NovaBotGo/pkg/models"
)

// Creation guard windows
const (
	defaultCooldown    = 5000 * time.Millisecond
	defaultGraceWindow = 2 * time.Second
)

// Manager owns the temporary voice channel lifecycle for every guild. It is
// constructed once at startup and injected; there is no package-level
// instance.
type Manager struct {
	api      ChannelAPI
	triggers TriggerStore
	channels TempChannelStore

	cooldownWindow time.Duration
	graceWindow    time.Duration

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	cooldownMu sync.RWMutex
	cooldowns  map[string]time.Time

	ephemeralMu     sync.RWMutex
	ephemeralOwners map[string]string
	ephemeralGuilds map[string]string

	createMu       sync.RWMutex
	createChannels map[string]string
}

// NewManager creates a Manager over the given channel API and stores
func NewManager(api ChannelAPI, triggers TriggerStore, channels TempChannelStore) *Manager {
	return &Manager{
		api:             api,
		triggers:        triggers,
		channels:        channels,
		cooldownWindow:  defaultCooldown,
		graceWindow:     defaultGraceWindow,
		locks:           make(map[string]*sync.Mutex),
		cooldowns:       make(map[string]time.Time),
		ephemeralOwners: make(map[string]string),
		ephemeralGuilds: make(map[string]string),
		createChannels:  make(map[string]string),
	}
}

func guardKey(guildID, userID string) string {
	return guildID + "_" + userID
}

// lockFor returns the creation lock for a (guild, user) pair
func (m *Manager) lockFor(guildID, userID string) *sync.Mutex {
	key := guardKey(guildID, userID)
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	if lock, ok := m.locks[key]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	m.locks[key] = lock
	return lock
}

// onCooldown reports whether the user's creation cooldown is still active
func (m *Manager) onCooldown(guildID, userID string) bool {
	m.cooldownMu.RLock()
	defer m.cooldownMu.RUnlock()
	stamp, ok := m.cooldowns[guardKey(guildID, userID)]
	return ok && time.Since(stamp) < m.cooldownWindow
}

// stampCooldown records a successful creation for the cooldown window
func (m *Manager) stampCooldown(guildID, userID string) {
	m.cooldownMu.Lock()
	m.cooldowns[guardKey(guildID, userID)] = time.Now()
	m.cooldownMu.Unlock()
}

// IsTriggerChannel reports whether joining the channel must create a temp
// channel.
func (m *Manager) IsTriggerChannel(guildID, channelID string) bool {
	cfg, err := m.triggers.Find(guildID, channelID)
	if err != nil {
		logger.Warn("Error consultando canal generador "+channelID+": "+err.Error(), "AutoVoice")
		return false
	}
	return cfg != nil && cfg.Enabled
}

// CreateTempChannel creates a temp channel for a user who joined a trigger
// channel. The advisory ownership and cooldown checks run twice: once
// before taking the per-(guild,user) lock and again inside it, where they
// are authoritative. Returns nil on any precondition failure or platform
// error; callers must treat nil as "do nothing".
func (m *Manager) CreateTempChannel(guildID, ownerID, ownerName, triggerChannelID string) *models.TempChannel {
	if m.hasOwnership(guildID, ownerID) {
		logger.Debug(fmt.Sprintf("Usuario %s ya tiene un canal temporal en guild %s", ownerID, guildID), "AutoVoice")
		return nil
	}
	if m.onCooldown(guildID, ownerID) {
		logger.Debug(fmt.Sprintf("Usuario %s en cooldown de creación en guild %s", ownerID, guildID), "AutoVoice")
		return nil
	}

	lock := m.lockFor(guildID, ownerID)
	lock.Lock()
	defer lock.Unlock()

	// Authoritative recheck inside the lock.
	if m.hasOwnership(guildID, ownerID) || m.onCooldown(guildID, ownerID) {
		return nil
	}

	cfg, err := m.triggers.Find(guildID, triggerChannelID)
	if err != nil || cfg == nil || !cfg.Enabled {
		logger.Debug(fmt.Sprintf("Canal %s no es un generador activo en guild %s", triggerChannelID, guildID), "AutoVoice")
		return nil
	}

	name := "🔊 | Canal de " + ownerName
	channelID, err := m.api.CreateVoiceChannel(guildID, name, cfg.CategoryID, cfg.MaxUserLimit)
	if err != nil {
		logger.Error(fmt.Sprintf("Error creando canal temporal para %s en guild %s: %v", ownerID, guildID, err), "AutoVoice")
		return nil
	}

	tc := &models.TempChannel{
		GuildID:          guildID,
		ChannelID:        channelID,
		OwnerID:          ownerID,
		TriggerChannelID: triggerChannelID,
		ChannelName:      name,
		UserLimit:        cfg.MaxUserLimit,
		CreatedAt:        time.Now(),
	}
	if err := m.channels.Save(tc); err != nil {
		logger.Error(fmt.Sprintf("Error guardando canal temporal %s: %v", channelID, err), "AutoVoice")
	}

	m.stampCooldown(guildID, ownerID)
	logger.Info(fmt.Sprintf("Canal temporal %s creado para %s en guild %s", channelID, ownerName, guildID), "AutoVoice")
	return tc
}

// DeleteTempChannel deletes a temp channel under either provenance. No-op
// when the channel is not a temp channel. The platform delete is best
// effort; the record always goes away.
func (m *Manager) DeleteTempChannel(guildID, channelID string) {
	ownership := m.lookupOwnership(channelID)

	switch ownership.Kind {
	case OwnershipNone:
		return
	case OwnershipPersisted:
		if err := m.api.DeleteChannel(channelID); err != nil {
			logger.Warn(fmt.Sprintf("Error eliminando canal %s en guild %s: %v", channelID, guildID, err), "AutoVoice")
		}
		if err := m.channels.Delete(channelID); err != nil {
			logger.Error(fmt.Sprintf("Error eliminando registro del canal %s: %v", channelID, err), "AutoVoice")
		}
	case OwnershipEphemeral:
		if err := m.api.DeleteChannel(channelID); err != nil {
			logger.Warn(fmt.Sprintf("Error eliminando canal %s en guild %s: %v", channelID, guildID, err), "AutoVoice")
		}
		m.UnregisterEphemeralOwner(channelID)
	}

	logger.Info(fmt.Sprintf("Canal temporal %s eliminado en guild %s", channelID, guildID), "AutoVoice")
}

// ShouldDelete reports whether a temp channel has zero human members left
func (m *Manager) ShouldDelete(guildID, channelID string) bool {
	count, err := m.api.HumanCount(guildID, channelID)
	if err != nil {
		logger.Warn(fmt.Sprintf("Error contando miembros de %s: %v", channelID, err), "AutoVoice")
		return false
	}
	return count == 0
}

// ScheduleDeletionCheck arms a deferred emptiness re-check for a temp
// channel. The grace window tolerates brief reconnect blips: the channel is
// deleted only if the authoritative re-check after the window still finds
// it empty. The wait runs on a timer, no lock is held and no worker
// blocks.
func (m *Manager) ScheduleDeletionCheck(guildID, channelID string) {
	if !m.IsTemporaryChannel(channelID) {
		return
	}

	time.AfterFunc(m.graceWindow, func() {
		if !m.IsTemporaryChannel(channelID) {
			// Already deleted by a concurrent check.
			return
		}
		if m.ShouldDelete(guildID, channelID) {
			m.DeleteTempChannel(guildID, channelID)
		}
	})
}

// CleanupOrphans removes temp channel records whose platform channel is
// gone and deletes channels that were left empty, e.g. across a restart.
func (m *Manager) CleanupOrphans(guildID string) {
	records, err := m.channels.ListByGuild(guildID)
	if err != nil {
		logger.Warn("Error listando canales temporales de guild "+guildID+": "+err.Error(), "AutoVoice")
		return
	}

	for _, record := range records {
		exists, err := m.api.ChannelExists(guildID, record.ChannelID)
		if err != nil {
			continue
		}
		if !exists {
			if err := m.channels.Delete(record.ChannelID); err != nil {
				logger.Warn("Error eliminando registro huérfano "+record.ChannelID+": "+err.Error(), "AutoVoice")
			}
			continue
		}
		if m.ShouldDelete(guildID, record.ChannelID) {
			m.DeleteTempChannel(guildID, record.ChannelID)
		}
	}
}

// ActiveChannels returns the number of persisted temp channels
func (m *Manager) ActiveChannels() (int64, error) {
	return m.channels.CountAll()
}

// Shutdown clears every in-memory guard map
func (m *Manager) Shutdown() {
	m.cooldownMu.Lock()
	m.cooldowns = make(map[string]time.Time)
	m.cooldownMu.Unlock()

	m.ephemeralMu.Lock()
	m.ephemeralOwners = make(map[string]string)
	m.ephemeralGuilds = make(map[string]string)
	m.ephemeralMu.Unlock()

	m.locksMu.Lock()
	m.locks = make(map[string]*sync.Mutex)
	m.locksMu.Unlock()

	logger.System("Estado de AutoVoice limpiado", "AutoVoice")
}
