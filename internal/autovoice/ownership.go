package autovoice

import (
	"github.com/NovaStudios/NovaBotGo/pkg/logger"
	"github.com/NovaStudios/NovaBotGo/pkg/models"
)

// OwnershipKind tags the provenance of a temp channel ownership
type OwnershipKind int

// Ownership provenances. Persisted channels come from the trigger flow and
// live in the database; ephemeral ones come from the shared create-channel
// flow and exist only in memory.
const (
	OwnershipNone OwnershipKind = iota
	OwnershipPersisted
	OwnershipEphemeral
)

// Ownership is the result of resolving a channel id against both
// provenance paths. Record is set only for persisted ownerships.
type Ownership struct {
	Kind    OwnershipKind
	OwnerID string
	Record  *models.TempChannel
}

// lookupOwnership resolves a channel against the persisted store first and
// the in-memory ephemeral map second. Either path is authoritative for its
// channel id.
func (m *Manager) lookupOwnership(channelID string) Ownership {
	record, err := m.channels.FindByChannel(channelID)
	if err != nil {
		logger.Warn("Error consultando canal temporal "+channelID+": "+err.Error(), "AutoVoice")
	}
	if record != nil {
		return Ownership{Kind: OwnershipPersisted, OwnerID: record.OwnerID, Record: record}
	}

	m.ephemeralMu.RLock()
	ownerID, ok := m.ephemeralOwners[channelID]
	m.ephemeralMu.RUnlock()
	if ok {
		return Ownership{Kind: OwnershipEphemeral, OwnerID: ownerID}
	}

	return Ownership{Kind: OwnershipNone}
}

// IsTemporaryChannel reports whether a channel is a temp channel under
// either provenance.
func (m *Manager) IsTemporaryChannel(channelID string) bool {
	return m.lookupOwnership(channelID).Kind != OwnershipNone
}

// IsMemberChannelOwner reports whether a user owns a temp channel
func (m *Manager) IsMemberChannelOwner(channelID, userID string) bool {
	ownership := m.lookupOwnership(channelID)
	return ownership.Kind != OwnershipNone && ownership.OwnerID == userID
}

// RegisterEphemeralOwner records an in-memory-only ownership for a channel
// created through the shared create-channel flow.
func (m *Manager) RegisterEphemeralOwner(guildID, channelID, ownerID string) {
	m.ephemeralMu.Lock()
	m.ephemeralOwners[channelID] = ownerID
	m.ephemeralGuilds[channelID] = guildID
	m.ephemeralMu.Unlock()
}

// UnregisterEphemeralOwner drops an in-memory ownership record
func (m *Manager) UnregisterEphemeralOwner(channelID string) {
	m.ephemeralMu.Lock()
	delete(m.ephemeralOwners, channelID)
	delete(m.ephemeralGuilds, channelID)
	m.ephemeralMu.Unlock()
}

// hasOwnership reports whether a user already owns a temp channel in the
// guild under either provenance.
func (m *Manager) hasOwnership(guildID, ownerID string) bool {
	record, err := m.channels.FindByOwner(guildID, ownerID)
	if err != nil {
		logger.Warn("Error consultando dueño "+ownerID+" en guild "+guildID+": "+err.Error(), "AutoVoice")
	}
	if record != nil {
		return true
	}

	m.ephemeralMu.RLock()
	defer m.ephemeralMu.RUnlock()
	for channelID, owner := range m.ephemeralOwners {
		if owner == ownerID && m.ephemeralGuilds[channelID] == guildID {
			return true
		}
	}
	return false
}
