package commands

import (
	"fmt"

	"github.com/NovaStudios/NovaBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// RegisterCreateChannelCommand registers /setcreatechannel, which marks a
// voice channel so joining it spawns an ephemeral personal channel.
func RegisterCreateChannelCommand(client *discord.ExtendedClient, deps Deps) {
	cmd := discord.NewCommand(
		"setcreatechannel",
		"Marca un canal de voz como creador de canales efímeros",
		"autovoice",
		func(ctx *discord.CommandContext) error {
			channel := ctx.GetChannelOption("canal")
			if channel == nil {
				return ctx.ReplyEphemeral("❌ | Debes indicar un canal de voz.")
			}

			deps.AutoVoice.SetCreateChannel(ctx.Interaction.GuildID, channel.ID)
			return ctx.Reply(fmt.Sprintf("✅ | Canal creador configurado: <#%s>", channel.ID))
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "canal",
			Description:  "Canal de voz que creará canales efímeros al entrar",
			Required:     true,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildVoice},
		},
	).WithUserPermissions(discordgo.PermissionAdministrator)

	client.CommandHandler.RegisterCommand(cmd)
}
