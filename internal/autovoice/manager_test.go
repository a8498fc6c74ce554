package autovoice

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/NovaStudios/NovaBotGo/pkg/models"
)

// fakeChannelAPI simulates the platform channel operations in memory
type fakeChannelAPI struct {
	mu          sync.Mutex
	nextID      int
	channels    map[string]bool
	humanCounts map[string]int
	creates     int
	deletes     int
	locks       int
	lockAllows  map[string]string
	renames     []string
	moves       []string
	createErr   error
}

func newFakeChannelAPI() *fakeChannelAPI {
	return &fakeChannelAPI{
		channels:    make(map[string]bool),
		humanCounts: make(map[string]int),
	}
}

func (a *fakeChannelAPI) addChannel(channelID string) {
	a.mu.Lock()
	a.channels[channelID] = true
	a.mu.Unlock()
}

func (a *fakeChannelAPI) setHumans(channelID string, n int) {
	a.mu.Lock()
	a.humanCounts[channelID] = n
	a.mu.Unlock()
}

func (a *fakeChannelAPI) CreateVoiceChannel(guildID, name, categoryID string, userLimit int) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.createErr != nil {
		return "", a.createErr
	}
	a.creates++
	a.nextID++
	channelID := fmt.Sprintf("chan%d", a.nextID)
	a.channels[channelID] = true
	return channelID, nil
}

func (a *fakeChannelAPI) DeleteChannel(channelID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deletes++
	delete(a.channels, channelID)
	return nil
}

func (a *fakeChannelAPI) RenameChannel(channelID, name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.renames = append(a.renames, name)
	return nil
}

func (a *fakeChannelAPI) SetUserLimit(channelID string, limit int) error { return nil }

func (a *fakeChannelAPI) LockChannel(guildID, channelID, ownerID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.locks++
	if a.lockAllows == nil {
		a.lockAllows = make(map[string]string)
	}
	a.lockAllows[channelID] = ownerID
	return nil
}

func (a *fakeChannelAPI) UnlockChannel(guildID, channelID string) error { return nil }

func (a *fakeChannelAPI) MoveMember(guildID, userID, channelID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.moves = append(a.moves, userID+"->"+channelID)
	return nil
}

func (a *fakeChannelAPI) HumanCount(guildID, channelID string) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.humanCounts[channelID], nil
}

func (a *fakeChannelAPI) ChannelExists(guildID, channelID string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.channels[channelID], nil
}

func (a *fakeChannelAPI) createCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.creates
}

func (a *fakeChannelAPI) deleteCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.deletes
}

// fakeTriggerStore keeps trigger configs in memory
type fakeTriggerStore struct {
	mu      sync.Mutex
	configs map[string]*models.TriggerConfig
}

func newFakeTriggerStore() *fakeTriggerStore {
	return &fakeTriggerStore{configs: make(map[string]*models.TriggerConfig)}
}

func (s *fakeTriggerStore) key(guildID, channelID string) string {
	return guildID + "/" + channelID
}

func (s *fakeTriggerStore) Find(guildID, channelID string) (*models.TriggerConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configs[s.key(guildID, channelID)], nil
}

func (s *fakeTriggerStore) Save(cfg *models.TriggerConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[s.key(cfg.GuildID, cfg.TriggerChannelID)] = cfg
	return nil
}

func (s *fakeTriggerStore) Delete(guildID, channelID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.key(guildID, channelID)
	_, ok := s.configs[key]
	delete(s.configs, key)
	return ok, nil
}

func (s *fakeTriggerStore) ListByGuild(guildID string) ([]*models.TriggerConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.TriggerConfig
	for _, cfg := range s.configs {
		if cfg.GuildID == guildID {
			out = append(out, cfg)
		}
	}
	return out, nil
}

// fakeTempChannelStore keeps temp channel records in memory
type fakeTempChannelStore struct {
	mu      sync.Mutex
	records map[string]*models.TempChannel
}

func newFakeTempChannelStore() *fakeTempChannelStore {
	return &fakeTempChannelStore{records: make(map[string]*models.TempChannel)}
}

func (s *fakeTempChannelStore) FindByChannel(channelID string) (*models.TempChannel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[channelID], nil
}

func (s *fakeTempChannelStore) FindByOwner(guildID, ownerID string) (*models.TempChannel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.records {
		if record.GuildID == guildID && record.OwnerID == ownerID {
			return record, nil
		}
	}
	return nil, nil
}

func (s *fakeTempChannelStore) Save(tc *models.TempChannel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[tc.ChannelID] = tc
	return nil
}

func (s *fakeTempChannelStore) Delete(channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, channelID)
	return nil
}

func (s *fakeTempChannelStore) ListByGuild(guildID string) ([]*models.TempChannel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.TempChannel
	for _, record := range s.records {
		if record.GuildID == guildID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *fakeTempChannelStore) CountByGuild(guildID string) (int64, error) {
	records, _ := s.ListByGuild(guildID)
	return int64(len(records)), nil
}

func (s *fakeTempChannelStore) CountAll() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.records)), nil
}

func (s *fakeTempChannelStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func newTestManager() (*Manager, *fakeChannelAPI, *fakeTriggerStore, *fakeTempChannelStore) {
	api := newFakeChannelAPI()
	triggers := newFakeTriggerStore()
	channels := newFakeTempChannelStore()
	m := NewManager(api, triggers, channels)
	return m, api, triggers, channels
}

func addTrigger(triggers *fakeTriggerStore, guildID, channelID string) {
	triggers.Save(&models.TriggerConfig{
		GuildID:          guildID,
		TriggerChannelID: channelID,
		Enabled:          true,
		CreatedAt:        time.Now(),
	})
}

func TestCreateTempChannel(t *testing.T) {
	m, api, triggers, channels := newTestManager()
	addTrigger(triggers, "guild1", "trigger1")

	tc := m.CreateTempChannel("guild1", "user1", "Usuario", "trigger1")
	if tc == nil {
		t.Fatal("CreateTempChannel returned nil")
	}
	if tc.OwnerID != "user1" || tc.GuildID != "guild1" {
		t.Errorf("record = %+v", tc)
	}
	if api.createCount() != 1 {
		t.Errorf("creates = %d, want 1", api.createCount())
	}
	if channels.size() != 1 {
		t.Errorf("stored records = %d, want 1", channels.size())
	}
}

func TestCreateTempChannelConcurrent(t *testing.T) {
	m, api, triggers, channels := newTestManager()
	addTrigger(triggers, "guild1", "trigger1")

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			m.CreateTempChannel("guild1", "user1", "Usuario", "trigger1")
		}()
	}
	wg.Wait()

	if api.createCount() != 1 {
		t.Errorf("creates = %d, want exactly 1", api.createCount())
	}
	if channels.size() != 1 {
		t.Errorf("stored records = %d, want exactly 1", channels.size())
	}
}

func TestCreateTempChannelCooldown(t *testing.T) {
	m, api, triggers, _ := newTestManager()
	addTrigger(triggers, "guild1", "trigger1")

	first := m.CreateTempChannel("guild1", "user1", "Usuario", "trigger1")
	if first == nil {
		t.Fatal("first creation failed")
	}

	// Simulate the first channel being gone so only the cooldown blocks.
	m.DeleteTempChannel("guild1", first.ChannelID)

	second := m.CreateTempChannel("guild1", "user1", "Usuario", "trigger1")
	if second != nil {
		t.Error("second creation within the cooldown window should return nil")
	}
	if api.createCount() != 1 {
		t.Errorf("creates = %d, want 1", api.createCount())
	}
}

func TestCreateTempChannelRequiresEnabledTrigger(t *testing.T) {
	m, api, triggers, _ := newTestManager()
	triggers.Save(&models.TriggerConfig{
		GuildID:          "guild1",
		TriggerChannelID: "trigger1",
		Enabled:          false,
	})

	if tc := m.CreateTempChannel("guild1", "user1", "Usuario", "trigger1"); tc != nil {
		t.Error("creation against a disabled trigger should return nil")
	}
	if api.createCount() != 0 {
		t.Errorf("creates = %d, want 0", api.createCount())
	}
}

func TestDualProvenanceOwnership(t *testing.T) {
	m, _, triggers, _ := newTestManager()
	addTrigger(triggers, "guild1", "trigger1")

	persisted := m.CreateTempChannel("guild1", "user1", "Usuario", "trigger1")
	if persisted == nil {
		t.Fatal("persisted creation failed")
	}

	m.RegisterEphemeralOwner("guild1", "ephchan", "user2")

	if !m.IsTemporaryChannel(persisted.ChannelID) {
		t.Error("persisted channel should be temporary")
	}
	if !m.IsTemporaryChannel("ephchan") {
		t.Error("ephemeral channel should be temporary")
	}
	if m.IsTemporaryChannel("otro") {
		t.Error("unrelated channel should not be temporary")
	}

	if !m.IsMemberChannelOwner(persisted.ChannelID, "user1") {
		t.Error("user1 should own the persisted channel")
	}
	if !m.IsMemberChannelOwner("ephchan", "user2") {
		t.Error("user2 should own the ephemeral channel")
	}
	if m.IsMemberChannelOwner(persisted.ChannelID, "user2") {
		t.Error("user2 should not own the persisted channel")
	}
	if m.IsMemberChannelOwner("otro", "user1") {
		t.Error("nobody owns an unrelated channel")
	}
}

func TestDeleteTempChannelIdempotent(t *testing.T) {
	m, api, triggers, channels := newTestManager()
	addTrigger(triggers, "guild1", "trigger1")

	tc := m.CreateTempChannel("guild1", "user1", "Usuario", "trigger1")
	if tc == nil {
		t.Fatal("creation failed")
	}

	m.DeleteTempChannel("guild1", tc.ChannelID)
	if channels.size() != 0 {
		t.Errorf("stored records = %d, want 0", channels.size())
	}
	if api.deleteCount() != 1 {
		t.Errorf("deletes = %d, want 1", api.deleteCount())
	}

	// A second delete of the same channel is a no-op.
	m.DeleteTempChannel("guild1", tc.ChannelID)
	if api.deleteCount() != 1 {
		t.Errorf("deletes after repeat = %d, want 1", api.deleteCount())
	}

	// Deleting an unknown channel is also a no-op.
	m.DeleteTempChannel("guild1", "desconocido")
	if api.deleteCount() != 1 {
		t.Errorf("deletes after unknown = %d, want 1", api.deleteCount())
	}
}

func TestScheduledDeletionRemovesEmptyChannel(t *testing.T) {
	m, api, triggers, channels := newTestManager()
	m.graceWindow = 20 * time.Millisecond
	addTrigger(triggers, "guild1", "trigger1")

	tc := m.CreateTempChannel("guild1", "user1", "Usuario", "trigger1")
	if tc == nil {
		t.Fatal("creation failed")
	}

	api.setHumans(tc.ChannelID, 0)
	m.ScheduleDeletionCheck("guild1", tc.ChannelID)

	time.Sleep(100 * time.Millisecond)

	if channels.size() != 0 {
		t.Error("empty channel should be deleted after the grace window")
	}
	if api.deleteCount() != 1 {
		t.Errorf("deletes = %d, want 1", api.deleteCount())
	}
}

func TestScheduledDeletionSparesRejoinedChannel(t *testing.T) {
	m, api, triggers, channels := newTestManager()
	m.graceWindow = 50 * time.Millisecond
	addTrigger(triggers, "guild1", "trigger1")

	tc := m.CreateTempChannel("guild1", "user1", "Usuario", "trigger1")
	if tc == nil {
		t.Fatal("creation failed")
	}

	api.setHumans(tc.ChannelID, 0)
	m.ScheduleDeletionCheck("guild1", tc.ChannelID)

	// A member rejoins before the grace window elapses.
	time.Sleep(10 * time.Millisecond)
	api.setHumans(tc.ChannelID, 1)

	time.Sleep(100 * time.Millisecond)

	if channels.size() != 1 {
		t.Error("channel with a rejoined member must survive the grace window")
	}
	if api.deleteCount() != 0 {
		t.Errorf("deletes = %d, want 0", api.deleteCount())
	}
}

func TestOwnerGatedOperations(t *testing.T) {
	m, api, triggers, _ := newTestManager()
	addTrigger(triggers, "guild1", "trigger1")

	tc := m.CreateTempChannel("guild1", "user1", "Usuario", "trigger1")
	if tc == nil {
		t.Fatal("creation failed")
	}

	t.Run("non-owner rejected", func(t *testing.T) {
		reply := m.Lock("guild1", tc.ChannelID, "intruso")
		if reply != "❌ | Solo el dueño del canal puede hacer esto." {
			t.Errorf("unexpected reply: %s", reply)
		}
		if api.locks != 0 {
			t.Error("rejected lock must not reach the platform")
		}
	})

	t.Run("not a temp channel", func(t *testing.T) {
		reply := m.Rename("guild1", "otro", "user1", "nuevo")
		if reply != "❌ | Este no es un canal temporal." {
			t.Errorf("unexpected reply: %s", reply)
		}
	})

	t.Run("owner lock", func(t *testing.T) {
		reply := m.Lock("guild1", tc.ChannelID, "user1")
		if reply != "🔒 | Canal bloqueado." {
			t.Errorf("unexpected reply: %s", reply)
		}
		record, _ := m.channels.FindByChannel(tc.ChannelID)
		if record == nil || !record.IsLocked {
			t.Error("lock must persist on the record")
		}
	})

	t.Run("owner rename", func(t *testing.T) {
		reply := m.Rename("guild1", tc.ChannelID, "user1", "Mi Sala")
		if reply != "✏️ | Canal renombrado a **Mi Sala**." {
			t.Errorf("unexpected reply: %s", reply)
		}
	})

	t.Run("invalid limit", func(t *testing.T) {
		reply := m.SetLimit("guild1", tc.ChannelID, "user1", 150)
		if reply != "❌ | El límite debe estar entre 0 y 99 (0 = sin límite)." {
			t.Errorf("unexpected reply: %s", reply)
		}
	})
}

func TestSetupValidatesChannels(t *testing.T) {
	m, api, triggers, _ := newTestManager()

	reply := m.Setup("guild1", "inexistente", "", 0)
	if reply != "❌ | El canal generador indicado no existe en este servidor." {
		t.Errorf("unexpected reply: %s", reply)
	}
	if len(triggers.configs) != 0 {
		t.Error("rejected setup must not persist anything")
	}

	api.addChannel("trigger1")
	reply = m.Setup("guild1", "trigger1", "", 10)
	if reply != "✅ | Canal generador configurado: <#trigger1>" {
		t.Errorf("unexpected reply: %s", reply)
	}
	if !m.IsTriggerChannel("guild1", "trigger1") {
		t.Error("trigger should be active after setup")
	}
}

func TestRemoveTrigger(t *testing.T) {
	m, api, _, _ := newTestManager()
	api.addChannel("trigger1")
	m.Setup("guild1", "trigger1", "", 0)

	if reply := m.Remove("guild1", "trigger1"); reply != "✅ | Canal generador eliminado: <#trigger1>" {
		t.Errorf("unexpected reply: %s", reply)
	}
	if reply := m.Remove("guild1", "trigger1"); reply != "❌ | Ese canal no está configurado como generador." {
		t.Errorf("unexpected reply: %s", reply)
	}
}

func TestCreateEphemeralChannel(t *testing.T) {
	m, api, _, _ := newTestManager()
	m.SetCreateChannel("guild1", "lobby")

	if !m.IsCreateChannel("guild1", "lobby") {
		t.Error("lobby should be the create channel")
	}

	channelID := m.CreateEphemeralChannel("guild1", "user1", "Usuario")
	if channelID == "" {
		t.Fatal("ephemeral creation failed")
	}
	if !m.IsMemberChannelOwner(channelID, "user1") {
		t.Error("user1 should own the ephemeral channel")
	}

	// Ownership blocks a second channel even though nothing is persisted.
	if second := m.CreateEphemeralChannel("guild1", "user1", "Usuario"); second != "" {
		t.Error("second ephemeral creation should be blocked")
	}
	if api.createCount() != 1 {
		t.Errorf("creates = %d, want 1", api.createCount())
	}
}

func TestCleanupOrphans(t *testing.T) {
	m, api, triggers, channels := newTestManager()
	addTrigger(triggers, "guild1", "trigger1")

	tc := m.CreateTempChannel("guild1", "user1", "Usuario", "trigger1")
	if tc == nil {
		t.Fatal("creation failed")
	}

	// Simulate the platform channel disappearing behind our back.
	api.mu.Lock()
	delete(api.channels, tc.ChannelID)
	api.mu.Unlock()

	m.CleanupOrphans("guild1")

	if channels.size() != 0 {
		t.Error("orphaned record should be removed")
	}
}

func TestTransferOwnership(t *testing.T) {
	m, _, triggers, _ := newTestManager()
	addTrigger(triggers, "guild1", "trigger1")

	tc := m.CreateTempChannel("guild1", "user1", "Usuario", "trigger1")
	if tc == nil {
		t.Fatal("creation failed")
	}

	t.Run("non-owner rejected", func(t *testing.T) {
		reply := m.TransferOwnership("guild1", tc.ChannelID, "intruso", "user2")
		if reply != "❌ | Solo el dueño del canal puede hacer esto." {
			t.Errorf("unexpected reply: %s", reply)
		}
	})

	t.Run("self transfer rejected", func(t *testing.T) {
		reply := m.TransferOwnership("guild1", tc.ChannelID, "user1", "user1")
		if reply != "❌ | Ya eres el dueño de este canal." {
			t.Errorf("unexpected reply: %s", reply)
		}
	})

	t.Run("persisted transfer", func(t *testing.T) {
		reply := m.TransferOwnership("guild1", tc.ChannelID, "user1", "user2")
		if reply != "🤝 | Canal transferido a <@user2>." {
			t.Errorf("unexpected reply: %s", reply)
		}
		if !m.IsMemberChannelOwner(tc.ChannelID, "user2") {
			t.Error("user2 should own the channel after transfer")
		}
		if m.IsMemberChannelOwner(tc.ChannelID, "user1") {
			t.Error("user1 should no longer own the channel")
		}
	})

	t.Run("ephemeral transfer", func(t *testing.T) {
		m.SetCreateChannel("guild1", "lobby")
		channelID := m.CreateEphemeralChannel("guild1", "user3", "Usuario")
		if channelID == "" {
			t.Fatal("ephemeral creation failed")
		}

		reply := m.TransferOwnership("guild1", channelID, "user3", "user4")
		if reply != "🤝 | Canal transferido a <@user4>." {
			t.Errorf("unexpected reply: %s", reply)
		}
		if !m.IsMemberChannelOwner(channelID, "user4") {
			t.Error("user4 should own the ephemeral channel after transfer")
		}
	})
}

// Locking keeps the owner able to rejoin: the platform call carries the
// owner id for an allow override alongside the @everyone denial.
func TestLockGrantsOwnerOverride(t *testing.T) {
	m, api, triggers, _ := newTestManager()
	addTrigger(triggers, "guild1", "trigger1")

	tc := m.CreateTempChannel("guild1", "user1", "Usuario", "trigger1")
	if tc == nil {
		t.Fatal("creation failed")
	}

	if reply := m.Lock("guild1", tc.ChannelID, "user1"); reply != "🔒 | Canal bloqueado." {
		t.Fatalf("unexpected reply: %s", reply)
	}

	api.mu.Lock()
	allowed := api.lockAllows[tc.ChannelID]
	api.mu.Unlock()
	if allowed != "user1" {
		t.Errorf("lock allow override = %q, want %q", allowed, "user1")
	}
}

func TestCooldownRemaining(t *testing.T) {
	m, _, triggers, _ := newTestManager()
	addTrigger(triggers, "guild1", "trigger1")

	if remaining := m.CooldownRemaining("guild1", "user1"); remaining != 0 {
		t.Errorf("remaining before any creation = %s, want 0", remaining)
	}

	if tc := m.CreateTempChannel("guild1", "user1", "Usuario", "trigger1"); tc == nil {
		t.Fatal("creation failed")
	}

	remaining := m.CooldownRemaining("guild1", "user1")
	if remaining <= 0 || remaining > m.cooldownWindow {
		t.Errorf("remaining after creation = %s, want within (0, %s]", remaining, m.cooldownWindow)
	}

	// An expired stamp reports zero instead of a negative duration.
	m.cooldownMu.Lock()
	m.cooldowns[guardKey("guild1", "user1")] = time.Now().Add(-2 * m.cooldownWindow)
	m.cooldownMu.Unlock()
	if remaining := m.CooldownRemaining("guild1", "user1"); remaining != 0 {
		t.Errorf("remaining after expiry = %s, want 0", remaining)
	}
}
