// Package web provides API routes for the web server.
package web

import (
	"net/http"

	"github.com/NovaStudios/NovaBotGo/pkg/database"
	"github.com/NovaStudios/NovaBotGo/pkg/discord"
	"github.com/gin-gonic/gin"
)

// MusicStats exposes music playback statistics to the API
type MusicStats interface {
	ActiveGuilds() int
}

// AutoVoiceStats exposes temporary voice channel statistics to the API
type AutoVoiceStats interface {
	ActiveChannels() (int64, error)
}

// APIDeps holds the injected state providers for the API routes
type APIDeps struct {
	Music     MusicStats
	AutoVoice AutoVoiceStats
}

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, deps APIDeps) {
	api := s.Group("/api")
	{
		api.GET("/status", statusHandler)
		api.GET("/health", healthHandler)
		api.GET("/bot", botInfoHandler)
		api.GET("/stats", statsHandler(deps))
	}
}

// statusHandler returns the bot and database status
func statusHandler(c *gin.Context) {
	db := database.Get()
	client := discord.Get()

	dbStatus, dbOnline := db.GetStatus()

	botOnline := false
	if client != nil {
		botOnline = client.IsReady()
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"database": gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": gin.H{
			"isOnline": botOnline,
		},
	})
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "NovaBot Go is running",
	})
}

// botInfoHandler returns information about the bot
func botInfoHandler(c *gin.Context) {
	client := discord.Get()

	if client == nil || !client.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
		})
		return
	}

	user := client.Session.State.User

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"avatar":   user.Avatar,
		"guilds":   client.GuildCount(),
		"isReady":  client.IsReady(),
	})
}

// statsHandler returns music and autovoice activity counters
func statsHandler(deps APIDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		activeGuilds := 0
		if deps.Music != nil {
			activeGuilds = deps.Music.ActiveGuilds()
		}

		var activeChannels int64
		if deps.AutoVoice != nil {
			if n, err := deps.AutoVoice.ActiveChannels(); err == nil {
				activeChannels = n
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"music": gin.H{
				"activeGuilds": activeGuilds,
			},
			"autovoice": gin.H{
				"activeChannels": activeChannels,
			},
		})
	}
}
