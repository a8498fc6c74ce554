package music

import (
	"fmt"

	"github.com/NovaStudios/NovaBotGo/pkg/lavalink"
	"github.com/NovaStudios/NovaBotGo/pkg/logger"
)

// Scheduler advances guild queues in reaction to audio backend track
// lifecycle events. It is registered as a track event listener on the
// Lavalink client and shares its advance routine with the skip command.
type Scheduler struct {
	registry *Registry
}

// NewScheduler creates a scheduler over the given registry
func NewScheduler(registry *Registry) *Scheduler {
	return &Scheduler{registry: registry}
}

// PlayNext pops the next pending track and makes it current. When the queue
// is empty the current track is cleared and the player is stopped. Returns
// the new current track, or nil when the queue was empty. A backend play
// failure is logged but the track stays current; the backend remains the
// source of truth for actual audio.
func (sc *Scheduler) PlayNext(guildID string) *TrackInfo {
	state := sc.registry.State(guildID)
	link := sc.registry.Link(guildID)

	next := state.Dequeue()
	state.SetCurrentTrack(next)

	if next == nil {
		if err := link.Stop(); err != nil {
			logger.Warn(fmt.Sprintf("Error deteniendo el player de guild %s: %v", guildID, err), "Scheduler")
		}
		logger.Info(fmt.Sprintf("Cola finalizada en guild %s", guildID), "Scheduler")
		return nil
	}

	if err := link.Play(next.Track); err != nil {
		logger.Error(fmt.Sprintf("Error reproduciendo %s en guild %s: %v", next.Title(), guildID, err), "Scheduler")
	}
	return next
}

// OnTrackStart logs the started track; queue state was already updated by
// whoever issued the play command.
func (sc *Scheduler) OnTrackStart(guildID string, track *lavalink.Track) {
	if track == nil {
		return
	}
	logger.Info(fmt.Sprintf("Reproduciendo: %s en guild %s", track.Info.Title, guildID), "Scheduler")
}

// OnTrackEnd advances the queue when the backend permits it. Ends caused by
// an explicit stop or replace are ignored here.
func (sc *Scheduler) OnTrackEnd(guildID string, reason string, mayStartNext bool) {
	if !mayStartNext {
		return
	}
	if _, ok := sc.registry.lookup(guildID); !ok {
		// Stray event for a guild already cleaned up.
		return
	}
	sc.PlayNext(guildID)
}

// OnTrackException force-advances past the failing track. No retry of the
// same track, no backoff.
func (sc *Scheduler) OnTrackException(guildID string, message string) {
	logger.Error(fmt.Sprintf("Excepción de pista en guild %s: %s. Saltando...", guildID, message), "Scheduler")
	if _, ok := sc.registry.lookup(guildID); !ok {
		return
	}
	sc.PlayNext(guildID)
}

// OnTrackStuck force-advances past the stuck track
func (sc *Scheduler) OnTrackStuck(guildID string, thresholdMs int64) {
	logger.Warn(fmt.Sprintf("Pista atascada en guild %s (%dms). Saltando...", guildID, thresholdMs), "Scheduler")
	if _, ok := sc.registry.lookup(guildID); !ok {
		return
	}
	sc.PlayNext(guildID)
}
