package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

// TestCommandCreation verifies that commands can be created with the builder pattern
func TestCommandCreation(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("play", "Reproduce una canción", "music", handler)

	if cmd == nil {
		t.Fatal("NewCommand returned nil")
	}

	if cmd.Name != "play" {
		t.Errorf("Name = %v, want %v", cmd.Name, "play")
	}

	if cmd.Description != "Reproduce una canción" {
		t.Errorf("Description = %v, want %v", cmd.Description, "Reproduce una canción")
	}

	if cmd.Category != "music" {
		t.Errorf("Category = %v, want %v", cmd.Category, "music")
	}

	if cmd.Run == nil {
		t.Error("Run function is nil")
	}
}

// TestCommandWithOptions verifies the WithOptions builder method
func TestCommandWithOptions(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "query",
		Description: "Canción o URL a reproducir",
		Required:    true,
	}

	cmd := NewCommand("play", "Reproduce una canción", "music", handler).
		WithOptions(option)

	if cmd.Options == nil {
		t.Fatal("Options is nil")
	}

	if len(cmd.Options) != 1 {
		t.Fatalf("Options length = %v, want %v", len(cmd.Options), 1)
	}

	if cmd.Options[0].Name != "query" {
		t.Errorf("Option name = %v, want %v", cmd.Options[0].Name, "query")
	}
}

// TestCommandWithPermissions verifies the permission builder methods
func TestCommandWithPermissions(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("setup", "Configura el canal generador", "autovoice", handler).
		WithUserPermissions(discordgo.PermissionAdministrator).
		WithBotPermissions(discordgo.PermissionManageChannels)

	if cmd.UserPermissions != discordgo.PermissionAdministrator {
		t.Errorf("UserPermissions = %v, want %v", cmd.UserPermissions, discordgo.PermissionAdministrator)
	}

	if cmd.BotPermissions != discordgo.PermissionManageChannels {
		t.Errorf("BotPermissions = %v, want %v", cmd.BotPermissions, discordgo.PermissionManageChannels)
	}
}

// TestCommandRequiresVoice verifies the RequiresVoice builder method
func TestCommandRequiresVoice(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("play", "Reproduce una canción", "music", handler).RequiresVoice()

	if !cmd.InVoiceChannel {
		t.Error("InVoiceChannel should be true after calling RequiresVoice()")
	}
}

// TestCommandAsDev verifies the AsDev builder method
func TestCommandAsDev(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("eval", "Evalúa código", "dev", handler).AsDev()

	if !cmd.IsDev {
		t.Error("IsDev should be true after calling AsDev()")
	}
}

// TestToApplicationCommand verifies conversion to Discord application command
func TestToApplicationCommand(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "query",
		Description: "Canción o URL a reproducir",
		Required:    true,
	}

	cmd := NewCommand("play", "Reproduce una canción", "music", handler).
		WithOptions(option)

	appCmd := cmd.ToApplicationCommand()

	if appCmd == nil {
		t.Fatal("ToApplicationCommand returned nil")
	}

	if appCmd.Name != "play" {
		t.Errorf("ApplicationCommand Name = %v, want %v", appCmd.Name, "play")
	}

	if len(appCmd.Options) != 1 {
		t.Fatalf("ApplicationCommand Options length = %v, want %v", len(appCmd.Options), 1)
	}
}

// TestCommandCollection verifies the command collection operations
func TestCommandCollection(t *testing.T) {
	cc := NewCommandCollection()

	handler := func(ctx *CommandContext) error {
		return nil
	}

	cc.Set("play", NewCommand("play", "Reproduce una canción", "music", handler))
	cc.Set("autovoice.setup", NewCommand("setup", "Configura el canal generador", "autovoice", handler))

	if cc.Size() != 2 {
		t.Fatalf("Size = %v, want %v", cc.Size(), 2)
	}

	if _, ok := cc.Get("play"); !ok {
		t.Error("Get(play) failed")
	}

	if _, ok := cc.Get("autovoice.setup"); !ok {
		t.Error("Get(autovoice.setup) failed")
	}

	if _, ok := cc.Get("missing"); ok {
		t.Error("Get(missing) should fail")
	}
}

// TestToApplicationCommandPermissions verifies gated commands carry their
// permission requirement to Discord
func TestToApplicationCommandPermissions(t *testing.T) {
	cmd := NewCommand("setup", "Configura el canal generador", "autovoice", func(ctx *CommandContext) error {
		return nil
	}).WithUserPermissions(discordgo.PermissionAdministrator)

	appCmd := cmd.ToApplicationCommand()
	if appCmd.DefaultMemberPermissions == nil {
		t.Fatal("DefaultMemberPermissions should be set for gated commands")
	}
	if *appCmd.DefaultMemberPermissions != discordgo.PermissionAdministrator {
		t.Errorf("DefaultMemberPermissions = %v, want %v",
			*appCmd.DefaultMemberPermissions, discordgo.PermissionAdministrator)
	}

	open := NewCommand("queue", "Muestra la cola", "music", func(ctx *CommandContext) error {
		return nil
	})
	if open.ToApplicationCommand().DefaultMemberPermissions != nil {
		t.Error("ungated commands should not set DefaultMemberPermissions")
	}
}

// TestCanRun verifies the dispatch-time permission check
func TestCanRun(t *testing.T) {
	gated := NewCommand("setup", "Configura el canal generador", "autovoice", func(ctx *CommandContext) error {
		return nil
	}).WithUserPermissions(discordgo.PermissionAdministrator)

	open := NewCommand("queue", "Muestra la cola", "music", func(ctx *CommandContext) error {
		return nil
	})

	interactionWith := func(perms int64) *discordgo.InteractionCreate {
		return &discordgo.InteractionCreate{
			Interaction: &discordgo.Interaction{
				Member: &discordgo.Member{Permissions: perms},
			},
		}
	}

	t.Run("member without permission", func(t *testing.T) {
		if gated.CanRun(interactionWith(discordgo.PermissionVoiceConnect)) {
			t.Error("member without admin must not run gated commands")
		}
	})

	t.Run("member with permission", func(t *testing.T) {
		if !gated.CanRun(interactionWith(discordgo.PermissionAdministrator)) {
			t.Error("admin member should run gated commands")
		}
	})

	t.Run("no member", func(t *testing.T) {
		noMember := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}
		if gated.CanRun(noMember) {
			t.Error("gated commands need a member to check")
		}
		if !open.CanRun(noMember) {
			t.Error("ungated commands run regardless")
		}
	})
}
