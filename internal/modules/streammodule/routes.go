package streammodule

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ottworks/streamserve/internal/modules/authmodule"
)

// RegisterRoutes sets up the streaming endpoint
func (m *Module) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/v1/stream/:id", m.handleStream)
}

func (m *Module) handleStream(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie ID"})
		return
	}

	var principal *Principal
	if user, ok := authmodule.CurrentUser(c); ok {
		principal = &Principal{ID: user.ID, Username: user.Username}
	}

	m.responder.ServeAsset(c, uint(id), principal)
}
