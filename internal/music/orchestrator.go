package music

import (
	"fmt"
	"strings"

	"github.com/NovaStudios/NovaBotGo/pkg/lavalink"
	"github.com/NovaStudios/NovaBotGo/pkg/logger"
)

// Member identifies the user behind a music command together with the voice
// channel they currently occupy, empty when they are not in voice.
type Member struct {
	ID             string
	DisplayName    string
	VoiceChannelID string
}

// Orchestrator exposes the user-facing playback operations. Every operation
// is total: expected precondition failures come back as a user-facing
// outcome string, never as an error.
type Orchestrator struct {
	registry     *Registry
	backend      AudioBackend
	voice        VoiceGateway
	scheduler    *Scheduler
	searchPrefix string
}

// NewOrchestrator wires the playback operations over an injected registry,
// backend, voice gateway and scheduler.
func NewOrchestrator(registry *Registry, backend AudioBackend, voice VoiceGateway, scheduler *Scheduler) *Orchestrator {
	return &Orchestrator{
		registry:     registry,
		backend:      backend,
		voice:        voice,
		scheduler:    scheduler,
		searchPrefix: "ytsearch:",
	}
}

var searchPrefixes = []string{"ytsearch:", "ytmsearch:", "scsearch:", "dzsearch:", "spsearch:"}

// buildIdentifier classifies a query as a direct URL or a search term.
// Search terms get the default search prefix unless one is already present.
func (o *Orchestrator) buildIdentifier(query string) string {
	if strings.HasPrefix(query, "http://") || strings.HasPrefix(query, "https://") {
		return query
	}
	for _, prefix := range searchPrefixes {
		if strings.HasPrefix(query, prefix) {
			return query
		}
	}
	return o.searchPrefix + query
}

// Play resolves a query and either starts it immediately or appends it to
// the guild queue, reporting the 1-based queue position.
func (o *Orchestrator) Play(guildID string, member Member, query string) string {
	if member.VoiceChannelID == "" {
		return "❌ | Debes estar en un canal de voz para usar este comando."
	}

	if err := o.voice.Join(guildID, member.VoiceChannelID); err != nil {
		logger.Error(fmt.Sprintf("Error conectando al canal de voz en guild %s: %v", guildID, err), "Music")
		return "❌ | No pude conectarme a tu canal de voz."
	}

	result, err := o.backend.LoadTracks(o.buildIdentifier(query))
	if err != nil {
		logger.Error(fmt.Sprintf("Error cargando '%s' en guild %s: %v", query, guildID, err), "Music")
		return "❌ | Ocurrió un error al buscar la canción."
	}

	switch result.Type {
	case lavalink.LoadTypeError:
		return "❌ | Error al cargar: " + result.ErrorMessage
	case lavalink.LoadTypeEmpty:
		return "❌ | No se encontraron resultados para: " + query
	case lavalink.LoadTypePlaylist:
		return o.playPlaylist(guildID, member, result)
	case lavalink.LoadTypeTrack, lavalink.LoadTypeSearch:
		if len(result.Tracks) == 0 {
			return "❌ | No se encontraron resultados para: " + query
		}
		// Search results use the first hit only.
		return o.startOrEnqueue(guildID, o.newTrackInfo(result.Tracks[0], member))
	default:
		return "❌ | Respuesta inesperada del servidor de música."
	}
}

// playPlaylist starts the first playlist track if the guild is idle and
// enqueues the remainder in order.
func (o *Orchestrator) playPlaylist(guildID string, member Member, result *lavalink.LoadResult) string {
	if len(result.Tracks) == 0 {
		return "❌ | La playlist está vacía."
	}

	name := "playlist"
	if result.PlaylistInfo != nil && result.PlaylistInfo.Name != "" {
		name = result.PlaylistInfo.Name
	}

	state := o.registry.State(guildID)
	started := false

	for _, track := range result.Tracks {
		info := o.newTrackInfo(track, member)
		if !started && state.CurrentTrack() == nil {
			state.SetCurrentTrack(info)
			if err := o.registry.Link(guildID).Play(info.Track); err != nil {
				logger.Error(fmt.Sprintf("Error reproduciendo %s en guild %s: %v", info.Title(), guildID, err), "Music")
			}
			started = true
			continue
		}
		state.Enqueue(info)
	}

	if started {
		return fmt.Sprintf("▶️ | Reproduciendo la playlist **%s** (%d canciones).", name, len(result.Tracks))
	}
	return fmt.Sprintf("➕ | Añadidas %d canciones de **%s** a la cola.", len(result.Tracks), name)
}

func (o *Orchestrator) newTrackInfo(track *lavalink.Track, member Member) *TrackInfo {
	return &TrackInfo{
		Track:         track,
		RequesterID:   member.ID,
		RequesterName: member.DisplayName,
	}
}

// startOrEnqueue makes the track current when the guild is idle, otherwise
// appends it to the queue.
func (o *Orchestrator) startOrEnqueue(guildID string, info *TrackInfo) string {
	state := o.registry.State(guildID)

	if state.CurrentTrack() == nil {
		state.SetCurrentTrack(info)
		if err := o.registry.Link(guildID).Play(info.Track); err != nil {
			logger.Error(fmt.Sprintf("Error reproduciendo %s en guild %s: %v", info.Title(), guildID, err), "Music")
		}
		return "▶️ | Reproduciendo: **" + info.Title() + "**"
	}

	position := state.Enqueue(info)
	return fmt.Sprintf("➕ | **%s** añadida a la cola (posición %d).", info.Title(), position)
}

// Stop clears the queue, stops the player, leaves voice and drops the
// guild's state from the registry.
func (o *Orchestrator) Stop(guildID string) string {
	state, ok := o.registry.lookup(guildID)
	if !ok {
		return "❌ | No hay nada reproduciéndose."
	}

	state.ClearQueue()
	state.SetCurrentTrack(nil)

	if err := o.registry.Link(guildID).Stop(); err != nil {
		logger.Warn(fmt.Sprintf("Error deteniendo el player de guild %s: %v", guildID, err), "Music")
	}
	if err := o.voice.Leave(guildID); err != nil {
		logger.Warn(fmt.Sprintf("Error saliendo del canal de voz en guild %s: %v", guildID, err), "Music")
	}

	o.registry.Cleanup(guildID)
	return "⏹️ | Reproducción detenida y cola vaciada."
}

// Next force-advances to the next queued track
func (o *Orchestrator) Next(guildID string) string {
	if _, ok := o.registry.lookup(guildID); !ok {
		return "❌ | No hay nada reproduciéndose."
	}

	next := o.scheduler.PlayNext(guildID)
	if next == nil {
		return "⏭️ | Cola vacía, reproducción detenida."
	}
	return "⏭️ | Ahora suena: **" + next.Title() + "**"
}

// Previous replays the most recently superseded track
func (o *Orchestrator) Previous(guildID string) string {
	state, ok := o.registry.lookup(guildID)
	if !ok {
		return "❌ | No hay nada reproduciéndose."
	}

	prev := state.PopHistory()
	if prev == nil {
		return "❌ | No hay canciones anteriores en el historial."
	}

	state.SetCurrentTrack(prev)
	if err := o.registry.Link(guildID).Play(prev.Track); err != nil {
		logger.Error(fmt.Sprintf("Error reproduciendo %s en guild %s: %v", prev.Title(), guildID, err), "Music")
	}
	return "⏮️ | Reproduciendo de nuevo: **" + prev.Title() + "**"
}

// Pause pauses the current track
func (o *Orchestrator) Pause(guildID string) string {
	state, ok := o.registry.lookup(guildID)
	if !ok || state.CurrentTrack() == nil {
		return "❌ | No hay nada reproduciéndose."
	}
	if state.Paused() {
		return "⚠️ | La reproducción ya está pausada."
	}

	state.SetPaused(true)
	if err := o.registry.Link(guildID).SetPaused(true); err != nil {
		logger.Warn(fmt.Sprintf("Error pausando el player de guild %s: %v", guildID, err), "Music")
	}
	return "⏸️ | Reproducción pausada."
}

// Resume resumes a paused track
func (o *Orchestrator) Resume(guildID string) string {
	state, ok := o.registry.lookup(guildID)
	if !ok || state.CurrentTrack() == nil {
		return "❌ | No hay nada reproduciéndose."
	}
	if !state.Paused() {
		return "⚠️ | La reproducción no está pausada."
	}

	state.SetPaused(false)
	if err := o.registry.Link(guildID).SetPaused(false); err != nil {
		logger.Warn(fmt.Sprintf("Error reanudando el player de guild %s: %v", guildID, err), "Music")
	}
	return "▶️ | Reproducción reanudada."
}

// SetVolume adjusts the playback volume for a guild
func (o *Orchestrator) SetVolume(guildID string, level int) string {
	if level < 0 || level > 100 {
		return "❌ | El volumen debe estar entre 0 y 100."
	}

	state, ok := o.registry.lookup(guildID)
	if !ok || state.CurrentTrack() == nil {
		return "❌ | No hay nada reproduciéndose."
	}

	if err := o.registry.Link(guildID).SetVolume(level); err != nil {
		logger.Warn(fmt.Sprintf("Error ajustando volumen de guild %s: %v", guildID, err), "Music")
		return "❌ | No pude ajustar el volumen."
	}
	return fmt.Sprintf("🔊 | Volumen ajustado a %d%%.", level)
}

// NowPlaying describes the current track
func (o *Orchestrator) NowPlaying(guildID string) string {
	state, ok := o.registry.lookup(guildID)
	if !ok {
		return "❌ | No hay nada reproduciéndose."
	}

	current := state.CurrentTrack()
	if current == nil {
		return "❌ | No hay nada reproduciéndose."
	}

	status := "▶️"
	if state.Paused() {
		status = "⏸️"
	}
	return fmt.Sprintf("%s | **%s** — %s (pedida por %s)", status, current.Title(), current.Author(), current.RequesterName)
}

// Queue lists the current track and the pending queue
func (o *Orchestrator) Queue(guildID string) string {
	state, ok := o.registry.lookup(guildID)
	if !ok {
		return "❌ | La cola está vacía."
	}

	current := state.CurrentTrack()
	pending := state.QueueSnapshot()

	if current == nil && len(pending) == 0 {
		return "❌ | La cola está vacía."
	}

	var sb strings.Builder
	if current != nil {
		sb.WriteString("🎵 | Sonando ahora: **" + current.Title() + "**\n")
	}
	for i, track := range pending {
		if i >= 10 {
			sb.WriteString(fmt.Sprintf("... y %d más.", len(pending)-i))
			break
		}
		sb.WriteString(fmt.Sprintf("`%d.` %s\n", i+1, track.Title()))
	}
	return strings.TrimRight(sb.String(), "\n")
}
