package events

import (
	"sync"
	"testing"

	"github.com/NovaStudios/NovaBotGo/internal/music"
	"github.com/NovaStudios/NovaBotGo/pkg/lavalink"
	"github.com/bwmarrin/discordgo"
)

type fakeAudioLink struct{}

func (l *fakeAudioLink) Play(track *lavalink.Track) error { return nil }
func (l *fakeAudioLink) SetPaused(paused bool) error      { return nil }
func (l *fakeAudioLink) SetVolume(volume int) error       { return nil }
func (l *fakeAudioLink) Stop() error                      { return nil }
func (l *fakeAudioLink) Destroy() error                   { return nil }

type fakeAudioBackend struct{}

func (b *fakeAudioBackend) LoadTracks(identifier string) (*lavalink.LoadResult, error) {
	return &lavalink.LoadResult{Type: lavalink.LoadTypeEmpty}, nil
}

func (b *fakeAudioBackend) Link(guildID string) music.AudioLink { return &fakeAudioLink{} }

type fakeVoiceGateway struct {
	mu     sync.Mutex
	leaves []string
}

func (g *fakeVoiceGateway) Join(guildID, channelID string) error { return nil }

func (g *fakeVoiceGateway) Leave(guildID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.leaves = append(g.leaves, guildID)
	return nil
}

func (g *fakeVoiceGateway) leaveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.leaves)
}

func newVoiceTestSession(t *testing.T, voiceStates []*discordgo.VoiceState) *discordgo.Session {
	t.Helper()

	s := &discordgo.Session{State: discordgo.NewState()}
	s.State.User = &discordgo.User{ID: "bot"}

	if err := s.State.GuildAdd(&discordgo.Guild{
		ID:          "guild1",
		VoiceStates: voiceStates,
	}); err != nil {
		t.Fatalf("GuildAdd: %v", err)
	}
	return s
}

func newVoiceTestDeps() (Deps, *fakeVoiceGateway) {
	voice := &fakeVoiceGateway{}
	return Deps{
		Music: music.NewRegistry(&fakeAudioBackend{}),
		Voice: voice,
	}, voice
}

func TestCheckBotAloneDisconnects(t *testing.T) {
	s := newVoiceTestSession(t, []*discordgo.VoiceState{
		{GuildID: "guild1", ChannelID: "canal1", UserID: "bot"},
	})
	deps, voice := newVoiceTestDeps()

	checkBotAlone(s, "guild1", "canal1", deps)

	if voice.leaveCount() != 1 {
		t.Errorf("leaves = %d, want 1", voice.leaveCount())
	}
}

func TestCheckBotAloneSparesOccupiedChannel(t *testing.T) {
	s := newVoiceTestSession(t, []*discordgo.VoiceState{
		{GuildID: "guild1", ChannelID: "canal1", UserID: "bot"},
		{GuildID: "guild1", ChannelID: "canal1", UserID: "user1"},
	})
	deps, voice := newVoiceTestDeps()

	checkBotAlone(s, "guild1", "canal1", deps)

	if voice.leaveCount() != 0 {
		t.Errorf("leaves = %d, want 0", voice.leaveCount())
	}
}

func TestCheckBotAloneIgnoresForeignChannel(t *testing.T) {
	s := newVoiceTestSession(t, []*discordgo.VoiceState{
		{GuildID: "guild1", ChannelID: "canal2", UserID: "bot"},
	})
	deps, voice := newVoiceTestDeps()

	checkBotAlone(s, "guild1", "canal1", deps)

	if voice.leaveCount() != 0 {
		t.Errorf("leaves = %d, want 0", voice.leaveCount())
	}
}

// The gateway mutates guild voice states from its own goroutines while the
// handler counts listeners. Run both concurrently; the race detector flags
// any unlocked read of the slice.
func TestCheckBotAloneConcurrentVoiceStateChurn(t *testing.T) {
	s := newVoiceTestSession(t, []*discordgo.VoiceState{
		{GuildID: "guild1", ChannelID: "canal1", UserID: "bot"},
		{GuildID: "guild1", ChannelID: "canal1", UserID: "user1"},
	})
	deps, _ := newVoiceTestDeps()

	guild, err := s.State.Guild("guild1")
	if err != nil {
		t.Fatalf("Guild: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			s.State.Lock()
			if len(guild.VoiceStates) > 1 {
				guild.VoiceStates = guild.VoiceStates[:1]
			} else {
				guild.VoiceStates = append(guild.VoiceStates, &discordgo.VoiceState{
					GuildID: "guild1", ChannelID: "canal1", UserID: "user1",
				})
			}
			s.State.Unlock()
		}
	}()

	for i := 0; i < 200; i++ {
		checkBotAlone(s, "guild1", "canal1", deps)
	}
	<-done
}
