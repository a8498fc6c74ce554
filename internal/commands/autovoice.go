package commands

import (
	"github.com/NovaStudios/NovaBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// maxUserLimitFloat bounds the user-limit option Discord-side
var (
	minUserLimitFloat = 0.0
	maxUserLimit      = float64(99)
)

// RegisterAutoVoiceCommands registers the /autovoice command group
func RegisterAutoVoiceCommands(client *discord.ExtendedClient, deps Deps) {
	setupCmd := discord.NewCommand(
		"setup",
		"Configura un canal generador de canales temporales",
		"autovoice",
		func(ctx *discord.CommandContext) error {
			trigger := ctx.GetChannelOption("canal")
			if trigger == nil {
				return ctx.ReplyEphemeral("❌ | Debes indicar el canal generador.")
			}

			categoryID := ""
			if category := ctx.GetChannelOption("categoria"); category != nil {
				categoryID = category.ID
			}

			limit := int(ctx.GetIntOption("limite"))
			return ctx.Reply(deps.AutoVoice.Setup(ctx.Interaction.GuildID, trigger.ID, categoryID, limit))
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "canal",
			Description:  "Canal de voz que actuará como generador",
			Required:     true,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildVoice},
		},
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "categoria",
			Description:  "Categoría donde crear los canales temporales",
			Required:     false,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "limite",
			Description: "Límite de usuarios de los canales creados (0 = sin límite)",
			Required:    false,
			MinValue:    &minUserLimitFloat,
			MaxValue:    maxUserLimit,
		},
	).WithUserPermissions(discordgo.PermissionAdministrator)

	removeCmd := discord.NewCommand(
		"remove",
		"Elimina un canal generador configurado",
		"autovoice",
		func(ctx *discord.CommandContext) error {
			trigger := ctx.GetChannelOption("canal")
			if trigger == nil {
				return ctx.ReplyEphemeral("❌ | Debes indicar el canal generador.")
			}
			return ctx.Reply(deps.AutoVoice.Remove(ctx.Interaction.GuildID, trigger.ID))
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "canal",
			Description:  "Canal generador a eliminar",
			Required:     true,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildVoice},
		},
	).WithUserPermissions(discordgo.PermissionAdministrator)

	listCmd := discord.NewCommand(
		"list",
		"Lista los canales generadores del servidor",
		"autovoice",
		func(ctx *discord.CommandContext) error {
			return ctx.Reply(deps.AutoVoice.List(ctx.Interaction.GuildID))
		},
	)

	lockCmd := discord.NewCommand(
		"lock",
		"Bloquea tu canal temporal",
		"autovoice",
		func(ctx *discord.CommandContext) error {
			channelID := ctx.VoiceChannelID()
			if channelID == "" {
				return ctx.ReplyEphemeral("❌ | Debes estar en tu canal temporal.")
			}
			return ctx.Reply(deps.AutoVoice.Lock(ctx.Interaction.GuildID, channelID, ctx.User().ID))
		},
	).RequiresVoice()

	unlockCmd := discord.NewCommand(
		"unlock",
		"Desbloquea tu canal temporal",
		"autovoice",
		func(ctx *discord.CommandContext) error {
			channelID := ctx.VoiceChannelID()
			if channelID == "" {
				return ctx.ReplyEphemeral("❌ | Debes estar en tu canal temporal.")
			}
			return ctx.Reply(deps.AutoVoice.Unlock(ctx.Interaction.GuildID, channelID, ctx.User().ID))
		},
	).RequiresVoice()

	renameCmd := discord.NewCommand(
		"rename",
		"Renombra tu canal temporal",
		"autovoice",
		func(ctx *discord.CommandContext) error {
			channelID := ctx.VoiceChannelID()
			if channelID == "" {
				return ctx.ReplyEphemeral("❌ | Debes estar en tu canal temporal.")
			}
			name := ctx.GetStringOption("nombre")
			return ctx.Reply(deps.AutoVoice.Rename(ctx.Interaction.GuildID, channelID, ctx.User().ID, name))
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "nombre",
			Description: "Nuevo nombre del canal",
			Required:    true,
		},
	).RequiresVoice()

	limitCmd := discord.NewCommand(
		"limit",
		"Cambia el límite de usuarios de tu canal temporal",
		"autovoice",
		func(ctx *discord.CommandContext) error {
			channelID := ctx.VoiceChannelID()
			if channelID == "" {
				return ctx.ReplyEphemeral("❌ | Debes estar en tu canal temporal.")
			}
			limit := int(ctx.GetIntOption("limite"))
			return ctx.Reply(deps.AutoVoice.SetLimit(ctx.Interaction.GuildID, channelID, ctx.User().ID, limit))
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "limite",
			Description: "Límite de usuarios (0 = sin límite)",
			Required:    true,
			MinValue:    &minUserLimitFloat,
			MaxValue:    maxUserLimit,
		},
	).RequiresVoice()

	transferCmd := discord.NewCommand(
		"transfer",
		"Transfiere tu canal temporal a otro miembro",
		"autovoice",
		func(ctx *discord.CommandContext) error {
			channelID := ctx.VoiceChannelID()
			if channelID == "" {
				return ctx.ReplyEphemeral("❌ | Debes estar en tu canal temporal.")
			}
			newOwner := ctx.GetUserOption("miembro")
			if newOwner == nil {
				return ctx.ReplyEphemeral("❌ | Debes indicar un miembro.")
			}
			return ctx.Reply(deps.AutoVoice.TransferOwnership(ctx.Interaction.GuildID, channelID, ctx.User().ID, newOwner.ID))
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "miembro",
			Description: "Nuevo dueño del canal",
			Required:    true,
		},
	).RequiresVoice()

	infoCmd := discord.NewCommand(
		"info",
		"Muestra información del canal temporal actual",
		"autovoice",
		func(ctx *discord.CommandContext) error {
			channelID := ctx.VoiceChannelID()
			if channelID == "" {
				return ctx.ReplyEphemeral("❌ | Debes estar en un canal de voz.")
			}
			return ctx.Reply(deps.AutoVoice.Info(ctx.Interaction.GuildID, channelID))
		},
	)

	group := client.CommandHandler.BuildCommandGroup(
		"autovoice",
		"Gestión de canales de voz temporales",
		setupCmd,
		removeCmd,
		listCmd,
		lockCmd,
		unlockCmd,
		renameCmd,
		limitCmd,
		transferCmd,
		infoCmd,
	)
	client.CommandHandler.AddGlobalCommand(group)
}
