package music

import (
	"sync"

	"github.com/NovaStudios/NovaBotGo/pkg/lavalink"
)

// historyLimit bounds the per-guild playback history; the oldest entry is
// evicted first once the limit is reached.
const historyLimit = 50

// TrackInfo couples a backend track with the identity of whoever requested
// it. Immutable once built.
type TrackInfo struct {
	Track         *lavalink.Track
	RequesterID   string
	RequesterName string
}

// Title returns the track title
func (t *TrackInfo) Title() string {
	return t.Track.Info.Title
}

// Author returns the track author
func (t *TrackInfo) Author() string {
	return t.Track.Info.Author
}

// URI returns the track source URI
func (t *TrackInfo) URI() string {
	return t.Track.Info.URI
}

// DurationMS returns the track length in milliseconds
func (t *TrackInfo) DurationMS() int64 {
	return t.Track.Info.Length
}

// GuildPlaybackState holds one guild's queue, history, current track and
// pause flag. All mutations are atomic per guild; distinct guilds never
// contend on the same state.
type GuildPlaybackState struct {
	mu      sync.Mutex
	current *TrackInfo
	pending []*TrackInfo
	history []*TrackInfo
	paused  bool
}

// NewGuildPlaybackState creates an empty playback state
func NewGuildPlaybackState() *GuildPlaybackState {
	return &GuildPlaybackState{
		pending: make([]*TrackInfo, 0),
		history: make([]*TrackInfo, 0, historyLimit),
	}
}

// Enqueue appends a track to the pending queue and returns its 1-based
// position in the queue.
func (s *GuildPlaybackState) Enqueue(track *TrackInfo) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, track)
	return len(s.pending)
}

// Dequeue pops the front of the pending queue, or nil when empty
func (s *GuildPlaybackState) Dequeue() *TrackInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil
	}
	track := s.pending[0]
	s.pending = s.pending[1:]
	return track
}

// QueueSize returns the number of pending tracks
func (s *GuildPlaybackState) QueueSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// QueueSnapshot returns a copy of the pending queue in play order
func (s *GuildPlaybackState) QueueSnapshot() []*TrackInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]*TrackInfo, len(s.pending))
	copy(snapshot, s.pending)
	return snapshot
}

// ClearQueue empties the pending queue
func (s *GuildPlaybackState) ClearQueue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = s.pending[:0]
}

// SetCurrentTrack replaces the current track. A non-nil previous current
// track is always pushed onto history, also when the new track is nil.
// Setting a non-nil track clears the pause flag.
func (s *GuildPlaybackState) SetCurrentTrack(track *TrackInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.history = append(s.history, s.current)
		if len(s.history) > historyLimit {
			s.history = s.history[1:]
		}
	}

	s.current = track
	if track != nil {
		s.paused = false
	}
}

// CurrentTrack returns the current track, or nil when playback is idle
func (s *GuildPlaybackState) CurrentTrack() *TrackInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// PopHistory removes and returns the most recently superseded track, or
// nil when the history is empty.
func (s *GuildPlaybackState) PopHistory() *TrackInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return nil
	}
	track := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	return track
}

// HistorySize returns the number of history entries
func (s *GuildPlaybackState) HistorySize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// SetPaused flips the pause flag
func (s *GuildPlaybackState) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
}

// Paused reports whether playback is paused
func (s *GuildPlaybackState) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Reset clears the queue, history, current track and pause flag
func (s *GuildPlaybackState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = s.pending[:0]
	s.history = s.history[:0]
	s.current = nil
	s.paused = false
}
