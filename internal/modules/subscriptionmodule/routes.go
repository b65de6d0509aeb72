package subscriptionmodule

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ottworks/streamserve/internal/config"
	"github.com/ottworks/streamserve/internal/database"
	"github.com/ottworks/streamserve/internal/events"
	"github.com/ottworks/streamserve/internal/modules/authmodule"
)

// RegisterRoutes sets up the subscription API
func (m *Module) RegisterRoutes(router *gin.Engine) {
	subs := router.Group("/api/v1/subscriptions")
	subs.Use(authmodule.RequireAuth())
	{
		subs.GET("/me", m.getMySubscription)
		subs.POST("", m.subscribe)
	}
}

// getMySubscription returns the caller's subscription state
func (m *Module) getMySubscription(c *gin.Context) {
	user, _ := authmodule.CurrentUser(c)

	sub, err := GetStore().GetForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription": sub,
		"is_active":    sub.IsActive(time.Now()),
	})
}

// subscribe creates or re-plans the caller's subscription and hands back the
// hosted checkout URL for the chosen plan
func (m *Module) subscribe(c *gin.Context) {
	user, _ := authmodule.CurrentUser(c)

	var req struct {
		Plan string `json:"plan" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plan is required"})
		return
	}

	sub, err := GetStore().Subscribe(user.ID, req.Plan)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if bus := events.GetGlobalEventBus(); bus != nil {
		ev := events.NewEvent(events.EventSubscriptionChanged, "system",
			"Subscription Changed", "Plan selected: "+sub.Plan)
		ev.Data = map[string]interface{}{"user_id": user.ID, "plan": sub.Plan}
		bus.PublishAsync(ev)
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription": sub,
		"checkout_url": checkoutURL(sub.Plan),
	})
}

func checkoutURL(plan string) string {
	cfg := config.Get()
	switch plan {
	case database.PlanBasic:
		return cfg.Plans.BasicCheckoutURL
	case database.PlanStandard:
		return cfg.Plans.StandardCheckoutURL
	case database.PlanPremium:
		return cfg.Plans.PremiumCheckoutURL
	}
	return ""
}
