package commands

import (
	"strings"

	"github.com/NovaStudios/NovaBotGo/internal/playlist"
	"github.com/NovaStudios/NovaBotGo/pkg/discord"
	"github.com/NovaStudios/NovaBotGo/pkg/errors"
	"github.com/NovaStudios/NovaBotGo/pkg/lavalink"
	"github.com/bwmarrin/discordgo"
)

// playlistIdentifier turns a raw query into a load identifier, prefixing
// plain search terms the same way playback does.
func playlistIdentifier(query string) string {
	if strings.HasPrefix(query, "http://") || strings.HasPrefix(query, "https://") {
		return query
	}
	for _, prefix := range []string{"ytsearch:", "ytmsearch:", "scsearch:", "dzsearch:", "spsearch:"} {
		if strings.HasPrefix(query, prefix) {
			return query
		}
	}
	return "ytsearch:" + query
}

// RegisterPlaylistCommands registers the /playlist command group
func RegisterPlaylistCommands(client *discord.ExtendedClient, deps Deps) {
	addCmd := discord.NewCommand(
		"add",
		"Añade una canción a una de tus playlists",
		"playlist",
		func(ctx *discord.CommandContext) error {
			name := ctx.GetStringOption("nombre")
			query := ctx.GetStringOption("query")
			if query == "" {
				return ctx.ReplyEphemeral("❌ | Debes indicar una canción.")
			}

			ctx.Defer()

			go func() {
				defer errors.RecoverMiddleware()()

				result, err := deps.Backend.LoadTracks(playlistIdentifier(query))
				if err != nil {
					ctx.EditReply("❌ | No se pudo buscar la canción, inténtalo de nuevo.")
					return
				}

				if result.Type == lavalink.LoadTypeError {
					ctx.EditReply("❌ | Error al cargar: " + result.ErrorMessage)
					return
				}
				if len(result.Tracks) == 0 {
					ctx.EditReply("❌ | No se encontraron resultados.")
					return
				}

				track := result.Tracks[0]
				ctx.EditReply(deps.Playlists.AddTrack(ctx.User().ID, name, playlist.Track{
					Title:      track.Info.Title,
					Author:     track.Info.Author,
					URI:        track.Info.URI,
					DurationMS: track.Info.Length,
				}))
			}()
			return nil
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "nombre",
			Description: "Nombre de la playlist",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "query",
			Description: "Nombre de la canción o URL",
			Required:    true,
		},
	)

	listCmd := discord.NewCommand(
		"list",
		"Lista tus playlists guardadas",
		"playlist",
		func(ctx *discord.CommandContext) error {
			return ctx.Reply(deps.Playlists.ListPlaylists(ctx.User().ID))
		},
	)

	tracksCmd := discord.NewCommand(
		"tracks",
		"Muestra las canciones de una playlist",
		"playlist",
		func(ctx *discord.CommandContext) error {
			name := ctx.GetStringOption("nombre")
			return ctx.Reply(deps.Playlists.ListTracks(ctx.User().ID, name))
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "nombre",
			Description: "Nombre de la playlist",
			Required:    true,
		},
	)

	removeCmd := discord.NewCommand(
		"remove",
		"Quita una canción de una playlist por posición",
		"playlist",
		func(ctx *discord.CommandContext) error {
			name := ctx.GetStringOption("nombre")
			position := int(ctx.GetIntOption("posicion"))
			return ctx.Reply(deps.Playlists.RemoveTrack(ctx.User().ID, name, position))
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "nombre",
			Description: "Nombre de la playlist",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "posicion",
			Description: "Posición de la canción a quitar",
			Required:    true,
		},
	)

	group := client.CommandHandler.BuildCommandGroup(
		"playlist",
		"Gestión de playlists personales",
		addCmd,
		listCmd,
		tracksCmd,
		removeCmd,
	)
	client.CommandHandler.AddGlobalCommand(group)
}
