package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/NovaStudios/NovaBotGo/internal/autovoice"
	"github.com/NovaStudios/NovaBotGo/internal/music"
	"github.com/NovaStudios/NovaBotGo/pkg/config"
	"github.com/NovaStudios/NovaBotGo/pkg/discord"
	"github.com/NovaStudios/NovaBotGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// createStatsCommand creates the /utils stats subcommand
func createStatsCommand(registry *music.Registry, manager *autovoice.Manager) *discord.Command {
	return discord.NewCommand(
		"stats",
		"Muestra estadísticas del bot",
		"utils",
		func(ctx *discord.CommandContext) error {
			go func() {
				defer errors.RecoverMiddleware()()
				statsHandler(ctx, registry, manager)
			}()
			return nil
		},
	)
}

func statsHandler(ctx *discord.CommandContext, registry *music.Registry, manager *autovoice.Manager) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	numGoroutines := runtime.NumGoroutine()
	goVersion := strings.TrimPrefix(runtime.Version(), "go")

	guildCount := ctx.Client.GuildCount()
	memberCount := 0
	ctx.Session.State.RLock()
	for _, guild := range ctx.Session.State.Guilds {
		memberCount += guild.MemberCount
	}
	ctx.Session.State.RUnlock()

	tempChannels := int64(0)
	if n, err := manager.ActiveChannels(); err == nil {
		tempChannels = n
	}

	uptime := time.Since(ctx.Client.StartTime)

	embed := &discordgo.MessageEmbed{
		Title: "📊 Estadísticas del Bot",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Versión", Value: config.Version, Inline: true},
			{Name: "Go", Value: goVersion, Inline: true},
			{Name: "discordgo", Value: discordgo.VERSION, Inline: true},
			{Name: "Servidores", Value: fmt.Sprintf("%d", guildCount), Inline: true},
			{Name: "Miembros", Value: fmt.Sprintf("%d", memberCount), Inline: true},
			{Name: "Uptime", Value: uptime.Round(time.Second).String(), Inline: true},
			{Name: "Reproduciendo en", Value: fmt.Sprintf("%d servidores", registry.ActiveGuilds()), Inline: true},
			{Name: "Canales temporales", Value: fmt.Sprintf("%d", tempChannels), Inline: true},
			{Name: "Goroutines", Value: fmt.Sprintf("%d", numGoroutines), Inline: true},
			{Name: "Memoria", Value: fmt.Sprintf("%.1f MB", float64(m.Alloc)/1024/1024), Inline: true},
		},
	}

	ctx.ReplyEmbed(embed)
}
