package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ottworks/streamserve/internal/modules/modulemanager"
)

func registerSystemRoutes(r *gin.Engine) {
	r.GET("/health", handleHealth)
	r.GET("/api/v1/system/modules", handleListModules)
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "streamserve",
	})
}

func handleListModules(c *gin.Context) {
	modules := modulemanager.ListModules()
	out := make([]gin.H, 0, len(modules))
	for _, m := range modules {
		out = append(out, gin.H{
			"id":   m.ID(),
			"name": m.Name(),
			"core": m.Core(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"modules": out})
}
