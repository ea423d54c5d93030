// Package web provides API routes for the web server.
package web

import (
	"net/http"

	"github.com/CentinelaStudios/CentinelaBotGo/internal/security"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/database"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/discord"
	"github.com/gin-gonic/gin"
)

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, feed *SecurityFeed) {
	api := s.Group("/api")
	{
		api.GET("/status", statusHandler)
		api.GET("/health", healthHandler)
		api.GET("/bot", botInfoHandler)
	}

	sec := api.Group("/security")
	{
		sec.GET("/:guildId/config", securityConfigHandler)
		sec.GET("/:guildId/quarantines", quarantineListHandler)
		sec.GET("/feed", feed.Handler)
	}
}

// securityConfigHandler returns the effective security configuration of a
// guild, defaults included.
func securityConfigHandler(c *gin.Context) {
	svc := security.Get()
	if svc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "el servicio de seguridad no está inicializado"})
		return
	}

	cfg, err := svc.Configs.Get(c.Param("guildId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo leer la configuración"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// quarantineListHandler returns the guild's active quarantine records.
func quarantineListHandler(c *gin.Context) {
	svc := security.Get()
	if svc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "el servicio de seguridad no está inicializado"})
		return
	}

	records, err := svc.Quarantine.Active()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudieron listar las cuarentenas"})
		return
	}

	guildID := c.Param("guildId")
	filtered := records[:0]
	for _, rec := range records {
		if rec.GuildID == guildID {
			filtered = append(filtered, rec)
		}
	}
	c.JSON(http.StatusOK, gin.H{"guildId": guildID, "quarantines": filtered})
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
		"message": "CentinelaBot Go is running",
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
		"id":            user.ID,
		"username":      user.Username,
		"discriminator": user.Discriminator,
		"avatar":        user.Avatar,
		"guilds":        client.GuildCount(),
		"isReady":       client.IsReady(),
	})
}
