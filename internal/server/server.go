package server

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ottworks/streamserve/internal/config"
	"github.com/ottworks/streamserve/internal/database"
	"github.com/ottworks/streamserve/internal/events"
	"github.com/ottworks/streamserve/internal/logger"
	"github.com/ottworks/streamserve/internal/modules/modulemanager"

	"github.com/ottworks/streamserve/internal/modules/authmodule"

	// Modules self-register via their init functions.
	_ "github.com/ottworks/streamserve/internal/modules/activitymodule"
	_ "github.com/ottworks/streamserve/internal/modules/catalogmodule"
	_ "github.com/ottworks/streamserve/internal/modules/streammodule"
	_ "github.com/ottworks/streamserve/internal/modules/subscriptionmodule"
)

// SetupRouter wires the event bus, loads all registered modules against the
// initialized database, and returns the configured gin engine.
func SetupRouter() (*gin.Engine, error) {
	r := gin.Default()

	if config.Get().Server.EnableCORS {
		r.Use(corsMiddleware())
	}

	bus := events.NewBus(1000)
	if err := bus.Start(context.Background()); err != nil {
		return nil, err
	}
	events.SetGlobalEventBus(bus)

	r.Use(authmodule.Middleware())

	if err := modulemanager.LoadAll(database.GetDB()); err != nil {
		return nil, err
	}

	registerSystemRoutes(r)
	modulemanager.RegisterRoutes(r)

	if err := bus.PublishAsync(events.NewSystemEvent(
		events.EventSystemStarted, "System Started", "streamserve is up",
	)); err != nil {
		logger.Warn("Failed to publish startup event: %v", err)
	}

	return r, nil
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
