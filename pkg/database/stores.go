// Package database provides the Mongo-backed stores consumed by the
// autovoice and playlist services.
package database

import (
	"fmt"

	"github.com/NovaStudios/NovaBotGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	triggerCollection     = "autovoice_triggers"
	tempChannelCollection = "temp_channels"
	playlistCollection    = "playlists"
	playlistEntryColl     = "playlist_entries"
)

// TriggerStore persists auto-voice trigger configurations.
// Canonical key: (guildId, triggerChannelId).
type TriggerStore struct {
	dm *DataManager[models.TriggerConfig]
}

// NewTriggerStore creates a TriggerStore backed by the given database
func NewTriggerStore(db *Database) *TriggerStore {
	return &TriggerStore{dm: NewDataManager[models.TriggerConfig](triggerCollection, db)}
}

func triggerQuery(guildID, channelID string) bson.M {
	return bson.M{"guildId": guildID, "triggerChannelId": channelID}
}

// Find returns the trigger config for a (guild, channel) pair, nil if absent
func (s *TriggerStore) Find(guildID, channelID string) (*models.TriggerConfig, error) {
	return s.dm.Get(triggerQuery(guildID, channelID))
}

// Save upserts a trigger config
func (s *TriggerStore) Save(cfg *models.TriggerConfig) error {
	_, err := s.dm.Set(triggerQuery(cfg.GuildID, cfg.TriggerChannelID), cfg)
	return err
}

// Delete removes a trigger config. Returns true if the config existed.
func (s *TriggerStore) Delete(guildID, channelID string) (bool, error) {
	existing, err := s.dm.Get(triggerQuery(guildID, channelID))
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	return true, s.dm.Delete(triggerQuery(guildID, channelID))
}

// ListByGuild returns every trigger config for a guild
func (s *TriggerStore) ListByGuild(guildID string) ([]*models.TriggerConfig, error) {
	return s.dm.GetAll(bson.M{"guildId": guildID})
}

// TempChannelStore persists temporary voice channels.
// Canonical key: channelId (unique). Secondary lookups by (guild, owner)
// bypass the cache so they never observe a deleted row.
type TempChannelStore struct {
	dm *DataManager[models.TempChannel]
}

// NewTempChannelStore creates a TempChannelStore backed by the given database
func NewTempChannelStore(db *Database) *TempChannelStore {
	return &TempChannelStore{dm: NewDataManager[models.TempChannel](tempChannelCollection, db)}
}

// FindByChannel returns the temp channel record for a channel id, nil if absent
func (s *TempChannelStore) FindByChannel(channelID string) (*models.TempChannel, error) {
	results, err := s.dm.GetAll(bson.M{"channelId": channelID})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// FindByOwner returns the temp channel owned by a user in a guild, nil if absent
func (s *TempChannelStore) FindByOwner(guildID, ownerID string) (*models.TempChannel, error) {
	results, err := s.dm.GetAll(bson.M{"guildId": guildID, "ownerId": ownerID})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// Save upserts a temp channel record keyed by channel id
func (s *TempChannelStore) Save(tc *models.TempChannel) error {
	_, err := s.dm.Set(bson.M{"channelId": tc.ChannelID}, tc)
	return err
}

// Delete removes a temp channel record by channel id
func (s *TempChannelStore) Delete(channelID string) error {
	return s.dm.Delete(bson.M{"channelId": channelID})
}

// ListByGuild returns every temp channel record for a guild
func (s *TempChannelStore) ListByGuild(guildID string) ([]*models.TempChannel, error) {
	return s.dm.GetAll(bson.M{"guildId": guildID})
}

// CountByGuild returns the number of active temp channels in a guild
func (s *TempChannelStore) CountByGuild(guildID string) (int64, error) {
	return s.dm.Count(bson.M{"guildId": guildID})
}

// CountAll returns the number of active temp channels across all guilds
func (s *TempChannelStore) CountAll() (int64, error) {
	return s.dm.Count(bson.M{})
}

// PlaylistStore persists user playlists and their entries.
type PlaylistStore struct {
	playlists *DataManager[models.Playlist]
	entries   *DataManager[models.PlaylistEntry]
}

// NewPlaylistStore creates a PlaylistStore backed by the given database
func NewPlaylistStore(db *Database) *PlaylistStore {
	return &PlaylistStore{
		playlists: NewDataManager[models.Playlist](playlistCollection, db),
		entries:   NewDataManager[models.PlaylistEntry](playlistEntryColl, db),
	}
}

// FindPlaylist returns a user's playlist by name, nil if absent
func (s *PlaylistStore) FindPlaylist(userID, name string) (*models.Playlist, error) {
	return s.playlists.Get(bson.M{"userId": userID, "name": name})
}

// SavePlaylist upserts a playlist
func (s *PlaylistStore) SavePlaylist(pl *models.Playlist) error {
	_, err := s.playlists.Set(bson.M{"userId": pl.UserID, "name": pl.Name}, pl)
	return err
}

// ListPlaylists returns every playlist owned by a user
func (s *PlaylistStore) ListPlaylists(userID string) ([]*models.Playlist, error) {
	return s.playlists.GetAll(bson.M{"userId": userID})
}

// ListEntries returns a playlist's entries ordered by position
func (s *PlaylistStore) ListEntries(userID, playlist string) ([]*models.PlaylistEntry, error) {
	opts := options.Find().SetSort(bson.M{"position": 1})
	return s.entries.GetAll(bson.M{"userId": userID, "playlist": playlist}, opts)
}

// SaveEntry upserts a playlist entry at its position
func (s *PlaylistStore) SaveEntry(e *models.PlaylistEntry) error {
	_, err := s.entries.Set(bson.M{
		"userId":   e.UserID,
		"playlist": e.Playlist,
		"position": e.Position,
	}, e)
	return err
}

// DeleteEntry removes a playlist entry by position
func (s *PlaylistStore) DeleteEntry(userID, playlist string, position int) error {
	return s.entries.Delete(bson.M{
		"userId":   userID,
		"playlist": playlist,
		"position": position,
	})
}

// CountEntries returns the number of entries in a playlist
func (s *PlaylistStore) CountEntries(userID, playlist string) (int, error) {
	n, err := s.entries.Count(bson.M{"userId": userID, "playlist": playlist})
	if err != nil {
		return 0, fmt.Errorf("contando pistas de '%s': %w", playlist, err)
	}
	return int(n), nil
}
