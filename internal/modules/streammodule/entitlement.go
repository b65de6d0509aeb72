package streammodule

import (
	"time"

	"github.com/ottworks/streamserve/internal/database"
)

// CheckEntitlement decides whether a principal may stream. It is evaluated
// fresh on every request against a point-in-time subscription snapshot; no
// result is ever cached, since subscriptions expire between requests.
// It performs no I/O and must run before any storage access.
func CheckEntitlement(principal *Principal, sub *Subscription, now time.Time) Decision {
	if principal == nil {
		return Decision{Reason: DenyUnauthenticated}
	}
	if sub == nil {
		return Decision{Reason: DenyNoSubscription}
	}
	if !subscriptionActive(sub, now) {
		return Decision{Reason: DenySubscriptionExpired}
	}
	return Decision{Allowed: true}
}

// subscriptionActive mirrors database.Subscription.IsActive: status must be
// active and now strictly before the end date. At exact equality access is
// already gone.
func subscriptionActive(sub *Subscription, now time.Time) bool {
	if sub.Status != database.SubscriptionActive {
		return false
	}
	if sub.ActiveUntil == nil {
		return false
	}
	return now.Before(*sub.ActiveUntil)
}
