// Package music contains the per-guild playback core: queue and history
// state, the registry that partitions it by guild, the scheduler that reacts
// to audio backend events and the orchestrator behind the music commands.
package music

import (
	"github.com/NovaStudios/NovaBotGo/pkg/lavalink"
)

// AudioLink is the per-guild player control surface of the audio backend
type AudioLink interface {
	Play(track *lavalink.Track) error
	SetPaused(paused bool) error
	SetVolume(volume int) error
	Stop() error
	Destroy() error
}

// AudioBackend resolves queries into tracks and hands out player links
type AudioBackend interface {
	LoadTracks(identifier string) (*lavalink.LoadResult, error)
	Link(guildID string) AudioLink
}

// VoiceGateway joins and leaves voice channels on the chat platform
type VoiceGateway interface {
	Join(guildID, channelID string) error
	Leave(guildID string) error
}
