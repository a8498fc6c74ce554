package playlist

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/NovaStudios/NovaBotGo/pkg/models"
)

// fakeStore keeps playlists and entries in memory
type fakeStore struct {
	mu        sync.Mutex
	playlists map[string]*models.Playlist
	entries   map[string]*models.PlaylistEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		playlists: make(map[string]*models.Playlist),
		entries:   make(map[string]*models.PlaylistEntry),
	}
}

func (s *fakeStore) plKey(userID, name string) string {
	return userID + "/" + name
}

func (s *fakeStore) entryKey(userID, name string, position int) string {
	return fmt.Sprintf("%s/%s/%d", userID, name, position)
}

func (s *fakeStore) FindPlaylist(userID, name string) (*models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playlists[s.plKey(userID, name)], nil
}

func (s *fakeStore) SavePlaylist(pl *models.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlists[s.plKey(pl.UserID, pl.Name)] = pl
	return nil
}

func (s *fakeStore) ListPlaylists(userID string) ([]*models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Playlist
	for _, pl := range s.playlists {
		if pl.UserID == userID {
			out = append(out, pl)
		}
	}
	return out, nil
}

func (s *fakeStore) ListEntries(userID, playlist string) ([]*models.PlaylistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.PlaylistEntry
	for _, entry := range s.entries {
		if entry.UserID == userID && entry.Playlist == playlist {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *fakeStore) SaveEntry(e *models.PlaylistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[s.entryKey(e.UserID, e.Playlist, e.Position)] = e
	return nil
}

func (s *fakeStore) DeleteEntry(userID, playlist string, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, s.entryKey(userID, playlist, position))
	return nil
}

func (s *fakeStore) CountEntries(userID, playlist string) (int, error) {
	entries, _ := s.ListEntries(userID, playlist)
	return len(entries), nil
}

func track(title string) Track {
	return Track{Title: title, Author: "Artista", URI: "https://example.com/" + title, DurationMS: 180000}
}

func TestAddTrackCreatesPlaylist(t *testing.T) {
	store := newFakeStore()
	service := NewService(store)

	reply := service.AddTrack("user1", "favoritas", track("t1"))
	if reply != "✅ | **t1** añadida a la playlist **favoritas** (posición 1)." {
		t.Errorf("unexpected reply: %s", reply)
	}

	pl, _ := store.FindPlaylist("user1", "favoritas")
	if pl == nil {
		t.Fatal("playlist should be created on first use")
	}

	reply = service.AddTrack("user1", "favoritas", track("t2"))
	if reply != "✅ | **t2** añadida a la playlist **favoritas** (posición 2)." {
		t.Errorf("unexpected reply: %s", reply)
	}
}

func TestAddTrackRejectsBadName(t *testing.T) {
	service := NewService(newFakeStore())

	if reply := service.AddTrack("user1", "   ", track("t1")); reply != "❌ | El nombre de la playlist debe tener entre 1 y 50 caracteres." {
		t.Errorf("unexpected reply: %s", reply)
	}
}

func TestRemoveTrackRenumbers(t *testing.T) {
	store := newFakeStore()
	service := NewService(store)

	for i := 1; i <= 4; i++ {
		service.AddTrack("user1", "favoritas", track(fmt.Sprintf("t%d", i)))
	}

	reply := service.RemoveTrack("user1", "favoritas", 2)
	if reply != "🗑️ | **t2** eliminada de la playlist **favoritas**." {
		t.Errorf("unexpected reply: %s", reply)
	}

	entries, _ := store.ListEntries("user1", "favoritas")
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	wantTitles := []string{"t1", "t3", "t4"}
	for i, entry := range entries {
		if entry.Position != i+1 {
			t.Errorf("entry %d position = %d, want %d", i, entry.Position, i+1)
		}
		if entry.Title != wantTitles[i] {
			t.Errorf("entry %d title = %s, want %s", i, entry.Title, wantTitles[i])
		}
	}
}

func TestRemoveTrackInvalidPosition(t *testing.T) {
	store := newFakeStore()
	service := NewService(store)
	service.AddTrack("user1", "favoritas", track("t1"))

	if reply := service.RemoveTrack("user1", "favoritas", 5); reply != "❌ | Posición inválida: la playlist tiene 1 pistas." {
		t.Errorf("unexpected reply: %s", reply)
	}
	if reply := service.RemoveTrack("user1", "otra", 1); reply != "❌ | No tienes una playlist llamada **otra**." {
		t.Errorf("unexpected reply: %s", reply)
	}
}

func TestListPlaylistsAndTracks(t *testing.T) {
	store := newFakeStore()
	service := NewService(store)

	if reply := service.ListPlaylists("user1"); reply != "❌ | No tienes playlists guardadas." {
		t.Errorf("unexpected reply: %s", reply)
	}

	service.AddTrack("user1", "favoritas", track("t1"))
	service.AddTrack("user1", "favoritas", track("t2"))

	reply := service.ListTracks("user1", "favoritas")
	want := "📋 | **favoritas** (2 pistas):\n`1.` t1 — Artista\n`2.` t2 — Artista"
	if reply != want {
		t.Errorf("unexpected reply:\n%s\nwant:\n%s", reply, want)
	}
}
