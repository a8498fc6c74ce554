package autovoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/NovaStudios/NovaBotGo/pkg/logger"
	"github.com/NovaStudios/NovaBotGo/pkg/models"
)

// Command-facing operations. Every operation is total and returns a plain
// user-facing outcome string; expected precondition failures never surface
// as errors.

// Setup configures a trigger channel. Both the trigger channel and the
// optional category are validated before anything is persisted.
func (m *Manager) Setup(guildID, triggerChannelID, categoryID string, maxUserLimit int) string {
	exists, err := m.api.ChannelExists(guildID, triggerChannelID)
	if err != nil || !exists {
		return "❌ | El canal generador indicado no existe en este servidor."
	}

	if categoryID != "" {
		exists, err := m.api.ChannelExists(guildID, categoryID)
		if err != nil || !exists {
			return "❌ | La categoría indicada no existe en este servidor."
		}
	}

	if maxUserLimit < 0 || maxUserLimit > 99 {
		return "❌ | El límite de usuarios debe estar entre 0 y 99."
	}

	cfg := &models.TriggerConfig{
		GuildID:          guildID,
		TriggerChannelID: triggerChannelID,
		CategoryID:       categoryID,
		MaxUserLimit:     maxUserLimit,
		Enabled:          true,
		CreatedAt:        time.Now(),
	}
	if err := m.triggers.Save(cfg); err != nil {
		logger.Error(fmt.Sprintf("Error guardando generador %s en guild %s: %v", triggerChannelID, guildID, err), "AutoVoice")
		return "❌ | Ocurrió un error al guardar la configuración."
	}

	return "✅ | Canal generador configurado: <#" + triggerChannelID + ">"
}

// Remove deletes a trigger channel configuration
func (m *Manager) Remove(guildID, triggerChannelID string) string {
	existed, err := m.triggers.Delete(guildID, triggerChannelID)
	if err != nil {
		logger.Error(fmt.Sprintf("Error eliminando generador %s en guild %s: %v", triggerChannelID, guildID, err), "AutoVoice")
		return "❌ | Ocurrió un error al eliminar la configuración."
	}
	if !existed {
		return "❌ | Ese canal no está configurado como generador."
	}
	return "✅ | Canal generador eliminado: <#" + triggerChannelID + ">"
}

// List describes the guild's trigger configuration and active temp channels
func (m *Manager) List(guildID string) string {
	configs, err := m.triggers.ListByGuild(guildID)
	if err != nil {
		logger.Error(fmt.Sprintf("Error listando generadores de guild %s: %v", guildID, err), "AutoVoice")
		return "❌ | Ocurrió un error al consultar la configuración."
	}

	if len(configs) == 0 {
		return "❌ | Este servidor no tiene canales generadores configurados."
	}

	var sb strings.Builder
	sb.WriteString("📋 | Canales generadores:\n")
	for _, cfg := range configs {
		state := "activo"
		if !cfg.Enabled {
			state = "desactivado"
		}
		limit := "sin límite"
		if cfg.MaxUserLimit > 0 {
			limit = fmt.Sprintf("límite %d", cfg.MaxUserLimit)
		}
		sb.WriteString(fmt.Sprintf("• <#%s> (%s, %s)\n", cfg.TriggerChannelID, state, limit))
	}

	if count, err := m.channels.CountByGuild(guildID); err == nil {
		sb.WriteString(fmt.Sprintf("🔊 | Canales temporales activos: %d", count))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// requireOwner resolves a channel's ownership and verifies the requester.
// The returned string is empty when the requester may proceed.
func (m *Manager) requireOwner(channelID, requesterID string) (Ownership, string) {
	ownership := m.lookupOwnership(channelID)
	if ownership.Kind == OwnershipNone {
		return ownership, "❌ | Este no es un canal temporal."
	}
	if ownership.OwnerID != requesterID {
		return ownership, "❌ | Solo el dueño del canal puede hacer esto."
	}
	return ownership, ""
}

// Lock denies the connect permission on an owned temp channel
func (m *Manager) Lock(guildID, channelID, requesterID string) string {
	ownership, reject := m.requireOwner(channelID, requesterID)
	if reject != "" {
		return reject
	}

	if err := m.api.LockChannel(guildID, channelID, ownership.OwnerID); err != nil {
		logger.Error(fmt.Sprintf("Error bloqueando canal %s: %v", channelID, err), "AutoVoice")
		return "❌ | No pude bloquear el canal."
	}

	if ownership.Kind == OwnershipPersisted {
		ownership.Record.IsLocked = true
		if err := m.channels.Save(ownership.Record); err != nil {
			logger.Warn("Error actualizando registro del canal "+channelID+": "+err.Error(), "AutoVoice")
		}
	}
	return "🔒 | Canal bloqueado."
}

// Unlock restores the connect permission on an owned temp channel
func (m *Manager) Unlock(guildID, channelID, requesterID string) string {
	ownership, reject := m.requireOwner(channelID, requesterID)
	if reject != "" {
		return reject
	}

	if err := m.api.UnlockChannel(guildID, channelID); err != nil {
		logger.Error(fmt.Sprintf("Error desbloqueando canal %s: %v", channelID, err), "AutoVoice")
		return "❌ | No pude desbloquear el canal."
	}

	if ownership.Kind == OwnershipPersisted {
		ownership.Record.IsLocked = false
		if err := m.channels.Save(ownership.Record); err != nil {
			logger.Warn("Error actualizando registro del canal "+channelID+": "+err.Error(), "AutoVoice")
		}
	}
	return "🔓 | Canal desbloqueado."
}

// Rename changes the display name of an owned temp channel
func (m *Manager) Rename(guildID, channelID, requesterID, name string) string {
	ownership, reject := m.requireOwner(channelID, requesterID)
	if reject != "" {
		return reject
	}

	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return "❌ | El nombre debe tener entre 1 y 100 caracteres."
	}

	if err := m.api.RenameChannel(channelID, name); err != nil {
		logger.Error(fmt.Sprintf("Error renombrando canal %s: %v", channelID, err), "AutoVoice")
		return "❌ | No pude renombrar el canal."
	}

	if ownership.Kind == OwnershipPersisted {
		ownership.Record.ChannelName = name
		if err := m.channels.Save(ownership.Record); err != nil {
			logger.Warn("Error actualizando registro del canal "+channelID+": "+err.Error(), "AutoVoice")
		}
	}
	return "✏️ | Canal renombrado a **" + name + "**."
}

// SetLimit changes the user limit of an owned temp channel
func (m *Manager) SetLimit(guildID, channelID, requesterID string, limit int) string {
	ownership, reject := m.requireOwner(channelID, requesterID)
	if reject != "" {
		return reject
	}

	if limit < 0 || limit > 99 {
		return "❌ | El límite debe estar entre 0 y 99 (0 = sin límite)."
	}

	if err := m.api.SetUserLimit(channelID, limit); err != nil {
		logger.Error(fmt.Sprintf("Error cambiando límite del canal %s: %v", channelID, err), "AutoVoice")
		return "❌ | No pude cambiar el límite del canal."
	}

	if ownership.Kind == OwnershipPersisted {
		ownership.Record.UserLimit = limit
		if err := m.channels.Save(ownership.Record); err != nil {
			logger.Warn("Error actualizando registro del canal "+channelID+": "+err.Error(), "AutoVoice")
		}
	}

	if limit == 0 {
		return "👥 | Límite de usuarios eliminado."
	}
	return fmt.Sprintf("👥 | Límite de usuarios fijado en %d.", limit)
}

// TransferOwnership hands a temp channel to another member. Only the current
// owner can transfer, under either provenance.
func (m *Manager) TransferOwnership(guildID, channelID, requesterID, newOwnerID string) string {
	ownership, denial := m.requireOwner(channelID, requesterID)
	if denial != "" {
		return denial
	}

	if newOwnerID == requesterID {
		return "❌ | Ya eres el dueño de este canal."
	}

	switch ownership.Kind {
	case OwnershipEphemeral:
		m.RegisterEphemeralOwner(guildID, channelID, newOwnerID)
	default:
		record := ownership.Record
		record.OwnerID = newOwnerID
		if err := m.channels.Save(record); err != nil {
			logger.Warn("Error actualizando registro del canal "+channelID+": "+err.Error(), "AutoVoice")
			return "❌ | No se pudo transferir el canal, inténtalo de nuevo."
		}
	}

	logger.Info(fmt.Sprintf("Canal %s transferido de %s a %s", channelID, requesterID, newOwnerID), "AutoVoice")
	return fmt.Sprintf("🤝 | Canal transferido a <@%s>.", newOwnerID)
}

// Info describes a temp channel under either provenance
func (m *Manager) Info(guildID, channelID string) string {
	ownership := m.lookupOwnership(channelID)

	switch ownership.Kind {
	case OwnershipNone:
		return "❌ | Este no es un canal temporal."
	case OwnershipEphemeral:
		return fmt.Sprintf("ℹ️ | Canal temporal efímero de <@%s>.", ownership.OwnerID)
	default:
		record := ownership.Record
		locked := "no"
		if record.IsLocked {
			locked = "sí"
		}
		limit := "sin límite"
		if record.UserLimit > 0 {
			limit = fmt.Sprintf("%d", record.UserLimit)
		}
		return fmt.Sprintf(
			"ℹ️ | **%s**\n> Dueño: <@%s>\n> Bloqueado: %s\n> Límite: %s\n> Creado: <t:%d:R>",
			record.ChannelName, record.OwnerID, locked, limit, record.CreatedAt.Unix(),
		)
	}
}
