package commands

import (
	"github.com/NovaStudios/NovaBotGo/internal/music"
	"github.com/NovaStudios/NovaBotGo/pkg/discord"
	"github.com/NovaStudios/NovaBotGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// minVolumeFloat is the minimum volume value for Discord command options
var minVolumeFloat = 0.0

// commandMember builds the requester identity the playback operations expect.
func commandMember(ctx *discord.CommandContext) music.Member {
	name := ctx.User().Username
	if m := ctx.Member(); m != nil && m.Nick != "" {
		name = m.Nick
	}

	return music.Member{
		ID:             ctx.User().ID,
		DisplayName:    name,
		VoiceChannelID: ctx.VoiceChannelID(),
	}
}

// RegisterMusicCommands registers all music commands
func RegisterMusicCommands(client *discord.ExtendedClient, deps Deps) {
	// Play command
	playCmd := discord.NewCommand(
		"play",
		"Reproduce una canción o la añade a la cola",
		"music",
		func(ctx *discord.CommandContext) error {
			query := ctx.GetStringOption("query")
			if query == "" {
				return ctx.ReplyEphemeral("❌ | Debes proporcionar una canción para reproducir.")
			}

			// Resolving the query can take a moment
			ctx.Defer()

			go func() {
				defer errors.RecoverMiddleware()()
				ctx.EditReply(deps.Music.Play(ctx.Interaction.GuildID, commandMember(ctx), query))
			}()
			return nil
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "query",
			Description: "Nombre de la canción o URL",
			Required:    true,
		},
	).RequiresVoice()
	client.CommandHandler.RegisterCommand(playCmd)

	// Stop command
	stopCmd := discord.NewCommand(
		"stop",
		"Detiene la reproducción y limpia la cola",
		"music",
		func(ctx *discord.CommandContext) error {
			return ctx.Reply(deps.Music.Stop(ctx.Interaction.GuildID))
		},
	).RequiresVoice()
	client.CommandHandler.RegisterCommand(stopCmd)

	// Next command
	nextCmd := discord.NewCommand(
		"next",
		"Salta a la siguiente canción de la cola",
		"music",
		func(ctx *discord.CommandContext) error {
			return ctx.Reply(deps.Music.Next(ctx.Interaction.GuildID))
		},
	).RequiresVoice()
	client.CommandHandler.RegisterCommand(nextCmd)

	// Previous command
	previousCmd := discord.NewCommand(
		"previous",
		"Vuelve a reproducir la canción anterior",
		"music",
		func(ctx *discord.CommandContext) error {
			return ctx.Reply(deps.Music.Previous(ctx.Interaction.GuildID))
		},
	).RequiresVoice()
	client.CommandHandler.RegisterCommand(previousCmd)

	// Pause command
	pauseCmd := discord.NewCommand(
		"pause",
		"Pausa la reproducción actual",
		"music",
		func(ctx *discord.CommandContext) error {
			return ctx.Reply(deps.Music.Pause(ctx.Interaction.GuildID))
		},
	).RequiresVoice()
	client.CommandHandler.RegisterCommand(pauseCmd)

	// Resume command
	resumeCmd := discord.NewCommand(
		"resume",
		"Reanuda la reproducción pausada",
		"music",
		func(ctx *discord.CommandContext) error {
			return ctx.Reply(deps.Music.Resume(ctx.Interaction.GuildID))
		},
	).RequiresVoice()
	client.CommandHandler.RegisterCommand(resumeCmd)

	// Volume command
	volumeCmd := discord.NewCommand(
		"volume",
		"Ajusta el volumen de reproducción",
		"music",
		func(ctx *discord.CommandContext) error {
			level := int(ctx.GetIntOption("nivel"))
			return ctx.Reply(deps.Music.SetVolume(ctx.Interaction.GuildID, level))
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "nivel",
			Description: "Nivel de volumen (0-100)",
			Required:    true,
			MinValue:    &minVolumeFloat,
			MaxValue:    100,
		},
	).RequiresVoice()
	client.CommandHandler.RegisterCommand(volumeCmd)

	// NowPlaying command
	npCmd := discord.NewCommand(
		"nowplaying",
		"Muestra la canción que se está reproduciendo",
		"music",
		func(ctx *discord.CommandContext) error {
			return ctx.Reply(deps.Music.NowPlaying(ctx.Interaction.GuildID))
		},
	)
	client.CommandHandler.RegisterCommand(npCmd)

	// Queue command
	queueCmd := discord.NewCommand(
		"queue",
		"Muestra la cola de reproducción",
		"music",
		func(ctx *discord.CommandContext) error {
			return ctx.Reply(deps.Music.Queue(ctx.Interaction.GuildID))
		},
	)
	client.CommandHandler.RegisterCommand(queueCmd)
}
