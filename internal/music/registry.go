package music

import (
	"sync"

	"github.com/NovaStudios/NovaBotGo/pkg/logger"
)

// Registry owns the guild id to playback state and guild id to player link
// mappings. It is constructed once at startup and injected into everything
// that needs guild state; there is no package-level instance.
type Registry struct {
	backend AudioBackend

	mu     sync.Mutex
	states map[string]*GuildPlaybackState
	links  map[string]AudioLink
}

// NewRegistry creates an empty registry over the given audio backend
func NewRegistry(backend AudioBackend) *Registry {
	return &Registry{
		backend: backend,
		states:  make(map[string]*GuildPlaybackState),
		links:   make(map[string]AudioLink),
	}
}

// State returns the playback state for a guild, creating it on first
// access. Concurrent first-access calls observe exactly one state.
func (r *Registry) State(guildID string) *GuildPlaybackState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state, ok := r.states[guildID]; ok {
		return state
	}
	state := NewGuildPlaybackState()
	r.states[guildID] = state
	return state
}

// lookup returns the playback state for a guild without creating one
func (r *Registry) lookup(guildID string) (*GuildPlaybackState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[guildID]
	return state, ok
}

// Link returns the audio link for a guild, creating it on first access
func (r *Registry) Link(guildID string) AudioLink {
	r.mu.Lock()
	defer r.mu.Unlock()

	if link, ok := r.links[guildID]; ok {
		return link
	}
	link := r.backend.Link(guildID)
	r.links[guildID] = link
	return link
}

// Cleanup removes and resets a guild's state and destroys its audio link.
// Safe to call for guilds that have no state.
func (r *Registry) Cleanup(guildID string) {
	r.mu.Lock()
	state, hasState := r.states[guildID]
	link, hasLink := r.links[guildID]
	delete(r.states, guildID)
	delete(r.links, guildID)
	r.mu.Unlock()

	if hasState {
		state.Reset()
	}
	if hasLink {
		if err := link.Destroy(); err != nil {
			logger.Warn("Error destruyendo el player de guild "+guildID+": "+err.Error(), "MusicRegistry")
		}
	}
}

// ActiveGuilds returns the number of guilds with live playback state
func (r *Registry) ActiveGuilds() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

// Shutdown tears down every guild's state and link
func (r *Registry) Shutdown() {
	r.mu.Lock()
	guildIDs := make([]string, 0, len(r.states))
	for guildID := range r.states {
		guildIDs = append(guildIDs, guildID)
	}
	for guildID := range r.links {
		found := false
		for _, id := range guildIDs {
			if id == guildID {
				found = true
				break
			}
		}
		if !found {
			guildIDs = append(guildIDs, guildID)
		}
	}
	r.mu.Unlock()

	for _, guildID := range guildIDs {
		r.Cleanup(guildID)
	}

	logger.System("Registro de música limpiado", "MusicRegistry")
}
