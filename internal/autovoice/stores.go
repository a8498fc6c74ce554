package autovoice

import (
	"github.com/NovaStudios/NovaBotGo/pkg/models"
)

// TriggerStore persists trigger channel configurations
type TriggerStore interface {
	Find(guildID, channelID string) (*models.TriggerConfig, error)
	Save(cfg *models.TriggerConfig) error
	Delete(guildID, channelID string) (bool, error)
	ListByGuild(guildID string) ([]*models.TriggerConfig, error)
}

// TempChannelStore persists temporary channel records
type TempChannelStore interface {
	FindByChannel(channelID string) (*models.TempChannel, error)
	FindByOwner(guildID, ownerID string) (*models.TempChannel, error)
	Save(tc *models.TempChannel) error
	Delete(channelID string) error
	ListByGuild(guildID string) ([]*models.TempChannel, error)
	CountByGuild(guildID string) (int64, error)
	CountAll() (int64, error)
}
