package activitymodule

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ottworks/streamserve/internal/modules/authmodule"
)

// RegisterRoutes sets up the activity API
func (m *Module) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/v1/users/me/activity", authmodule.RequireAuth(), m.getMyActivity)
}

// getMyActivity returns the caller's recent activity
func (m *Module) getMyActivity(c *gin.Context) {
	user, _ := authmodule.CurrentUser(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	records, err := GetLog().Recent(user.ID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": records, "count": len(records)})
}
