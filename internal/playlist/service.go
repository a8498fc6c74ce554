// Package playlist implements user-owned saved playlists: named track
// lists with dense 1-based positions stored per user.
package playlist

import (
	"fmt"
	"strings"
	"time"

	"github.com/NovaStudios/NovaBotGo/pkg/logger"
	"github.com/NovaStudios/NovaBotGo/pkg/models"
)

const maxEntries = 100

// Store persists playlists and their entries
type Store interface {
	FindPlaylist(userID, name string) (*models.Playlist, error)
	SavePlaylist(pl *models.Playlist) error
	ListPlaylists(userID string) ([]*models.Playlist, error)
	ListEntries(userID, playlist string) ([]*models.PlaylistEntry, error)
	SaveEntry(e *models.PlaylistEntry) error
	DeleteEntry(userID, playlist string, position int) error
	CountEntries(userID, playlist string) (int, error)
}

// Service exposes the playlist operations behind the playlist commands.
// All operations are total and return user-facing outcome strings.
type Service struct {
	store Store
}

// NewService creates a Service over the given store
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Track is the minimal track description a playlist entry keeps
type Track struct {
	Title      string
	Author     string
	URI        string
	DurationMS int64
}

// AddTrack appends a track to a user's playlist, creating the playlist on
// first use. Positions are dense and 1-based.
func (s *Service) AddTrack(userID, name string, track Track) string {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 50 {
		return "❌ | El nombre de la playlist debe tener entre 1 y 50 caracteres."
	}

	pl, err := s.store.FindPlaylist(userID, name)
	if err != nil {
		logger.Error(fmt.Sprintf("Error consultando playlist '%s' de %s: %v", name, userID, err), "Playlist")
		return "❌ | Ocurrió un error al consultar la playlist."
	}
	if pl == nil {
		pl = &models.Playlist{UserID: userID, Name: name, CreatedAt: time.Now()}
		if err := s.store.SavePlaylist(pl); err != nil {
			logger.Error(fmt.Sprintf("Error creando playlist '%s' de %s: %v", name, userID, err), "Playlist")
			return "❌ | Ocurrió un error al crear la playlist."
		}
	}

	count, err := s.store.CountEntries(userID, name)
	if err != nil {
		logger.Error(fmt.Sprintf("Error contando pistas de '%s': %v", name, err), "Playlist")
		return "❌ | Ocurrió un error al consultar la playlist."
	}
	if count >= maxEntries {
		return fmt.Sprintf("❌ | La playlist **%s** está llena (%d pistas).", name, maxEntries)
	}

	entry := &models.PlaylistEntry{
		UserID:     userID,
		Playlist:   name,
		Position:   count + 1,
		Title:      track.Title,
		Author:     track.Author,
		URI:        track.URI,
		DurationMS: track.DurationMS,
	}
	if err := s.store.SaveEntry(entry); err != nil {
		logger.Error(fmt.Sprintf("Error guardando pista en '%s': %v", name, err), "Playlist")
		return "❌ | Ocurrió un error al guardar la pista."
	}

	return fmt.Sprintf("✅ | **%s** añadida a la playlist **%s** (posición %d).", track.Title, name, entry.Position)
}

// ListPlaylists describes every playlist a user owns
func (s *Service) ListPlaylists(userID string) string {
	playlists, err := s.store.ListPlaylists(userID)
	if err != nil {
		logger.Error(fmt.Sprintf("Error listando playlists de %s: %v", userID, err), "Playlist")
		return "❌ | Ocurrió un error al consultar tus playlists."
	}
	if len(playlists) == 0 {
		return "❌ | No tienes playlists guardadas."
	}

	var sb strings.Builder
	sb.WriteString("📋 | Tus playlists:\n")
	for _, pl := range playlists {
		count, _ := s.store.CountEntries(userID, pl.Name)
		sb.WriteString(fmt.Sprintf("• **%s** (%d pistas)\n", pl.Name, count))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ListTracks describes the entries of one playlist in order
func (s *Service) ListTracks(userID, name string) string {
	pl, err := s.store.FindPlaylist(userID, name)
	if err != nil || pl == nil {
		return "❌ | No tienes una playlist llamada **" + name + "**."
	}

	entries, err := s.store.ListEntries(userID, name)
	if err != nil {
		logger.Error(fmt.Sprintf("Error listando pistas de '%s': %v", name, err), "Playlist")
		return "❌ | Ocurrió un error al consultar la playlist."
	}
	if len(entries) == 0 {
		return fmt.Sprintf("📋 | La playlist **%s** está vacía.", name)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 | **%s** (%d pistas):\n", name, len(entries)))
	for _, entry := range entries {
		sb.WriteString(fmt.Sprintf("`%d.` %s — %s\n", entry.Position, entry.Title, entry.Author))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RemoveTrack removes the entry at a 1-based position and renumbers the
// remaining entries so positions stay dense.
func (s *Service) RemoveTrack(userID, name string, position int) string {
	pl, err := s.store.FindPlaylist(userID, name)
	if err != nil || pl == nil {
		return "❌ | No tienes una playlist llamada **" + name + "**."
	}

	entries, err := s.store.ListEntries(userID, name)
	if err != nil {
		logger.Error(fmt.Sprintf("Error listando pistas de '%s': %v", name, err), "Playlist")
		return "❌ | Ocurrió un error al consultar la playlist."
	}

	if position < 1 || position > len(entries) {
		return fmt.Sprintf("❌ | Posición inválida: la playlist tiene %d pistas.", len(entries))
	}

	removed := entries[position-1]
	if err := s.store.DeleteEntry(userID, name, position); err != nil {
		logger.Error(fmt.Sprintf("Error eliminando pista %d de '%s': %v", position, name, err), "Playlist")
		return "❌ | Ocurrió un error al eliminar la pista."
	}

	// Shift everything after the removed position down by one.
	for _, entry := range entries[position:] {
		if err := s.store.DeleteEntry(userID, name, entry.Position); err != nil {
			logger.Warn(fmt.Sprintf("Error renumerando pista %d de '%s': %v", entry.Position, name, err), "Playlist")
			continue
		}
		entry.Position--
		if err := s.store.SaveEntry(entry); err != nil {
			logger.Warn(fmt.Sprintf("Error renumerando pista de '%s': %v", name, err), "Playlist")
		}
	}

	return fmt.Sprintf("🗑️ | **%s** eliminada de la playlist **%s**.", removed.Title, name)
}

// Entries returns a playlist's tracks in order for playback enqueueing
func (s *Service) Entries(userID, name string) ([]*models.PlaylistEntry, error) {
	return s.store.ListEntries(userID, name)
}
