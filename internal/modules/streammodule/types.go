// Package streammodule implements subscription-gated byte-range video
// streaming: range resolution, chunked delivery with backpressure, and the
// per-stream activity side effects.
package streammodule

import (
	"errors"
	"io"
	"time"
)

var (
	// ErrAssetNotFound indicates the catalog has no entry for the asset id
	ErrAssetNotFound = errors.New("asset not found")

	// ErrFileMissing indicates the catalog entry exists but the video file
	// is absent from storage
	ErrFileMissing = errors.New("video file missing from storage")

	// ErrTruncatedRead indicates storage ran out before the advertised
	// length was delivered; an integrity fault, never swallowed
	ErrTruncatedRead = errors.New("storage truncated before advertised length")

	// ErrReaderClosed is returned by Next after Close
	ErrReaderClosed = errors.New("chunk reader closed")
)

// Asset identifies a streamable video resource
type Asset struct {
	ID    uint
	Title string
	Path  string // absolute path into storage
}

// Principal is the authenticated identity making a request, nil when the
// request carries no valid credentials
type Principal struct {
	ID       uint
	Username string
}

// Subscription is the per-request snapshot of a user's subscription record
type Subscription struct {
	Plan        string
	Status      string
	ActiveUntil *time.Time
}

// ActivityRecord captures one initiated stream for the activity feed
type ActivityRecord struct {
	EventID   string
	UserID    uint
	AssetID   uint
	Title     string
	IPAddress string
	UserAgent string
	Timestamp time.Time
}

// Catalog looks up assets by id
type Catalog interface {
	// LookupAsset returns ErrAssetNotFound when no catalog entry exists
	LookupAsset(id uint) (*Asset, error)
}

// SubscriptionStore supplies the subscription snapshot for a user.
// Returns (nil, nil) when the user has no subscription record.
type SubscriptionStore interface {
	GetSubscription(userID uint) (*Subscription, error)
}

// ActivityLog records stream initiations
type ActivityLog interface {
	AppendView(rec ActivityRecord) error
	IncrementViewCount(assetID uint) error
}

// Storage abstracts the byte store holding video files
type Storage interface {
	// Stat returns the total byte length, ErrFileMissing when absent
	Stat(path string) (int64, error)
	// Open returns a seekable handle, ErrFileMissing when absent
	Open(path string) (io.ReadSeekCloser, error)
}

// DenyReason explains a rejected entitlement check
type DenyReason string

const (
	DenyUnauthenticated     DenyReason = "unauthenticated"
	DenyNoSubscription      DenyReason = "no_subscription"
	DenySubscriptionExpired DenyReason = "subscription_expired"
)

// Decision is the outcome of an entitlement check
type Decision struct {
	Allowed bool
	Reason  DenyReason
}
