package streammodule

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/ottworks/streamserve/internal/events"
)

// Responder orchestrates one streaming request: entitlement check, range
// resolution, chunked delivery, and the per-stream side effects. All
// collaborators are injected; the responder holds no ambient state.
type Responder struct {
	logger        hclog.Logger
	catalog       Catalog
	subscriptions SubscriptionStore
	activity      ActivityLog
	storage       Storage
	chunkSize     int64
	now           func() time.Time
}

// NewResponder creates a streaming responder
func NewResponder(logger hclog.Logger, catalog Catalog, subscriptions SubscriptionStore, activity ActivityLog, storage Storage, chunkSize int64) *Responder {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Responder{
		logger:        logger.Named("stream-responder"),
		catalog:       catalog,
		subscriptions: subscriptions,
		activity:      activity,
		storage:       storage,
		chunkSize:     chunkSize,
		now:           time.Now,
	}
}

// ServeAsset handles GET /stream/:id for the given asset and principal.
//
// Every pre-stream failure resolves to a single status before any header is
// written. Denied access is reported as 404, identical to a missing asset,
// so unauthorized callers cannot probe the catalog.
func (r *Responder) ServeAsset(c *gin.Context, assetID uint, principal *Principal) {
	log := r.logger.With("asset_id", assetID, "principal_id", principalID(principal))

	asset, err := r.catalog.LookupAsset(assetID)
	if err != nil {
		if !errors.Is(err, ErrAssetNotFound) {
			log.Error("catalog lookup failed", "error", err)
		}
		r.reject(c, log, "asset not in catalog")
		return
	}

	// Entitlement runs strictly before any storage I/O: deny paths must
	// not open files or allocate streaming buffers.
	var sub *Subscription
	if principal != nil {
		sub, err = r.subscriptions.GetSubscription(principal.ID)
		if err != nil {
			log.Error("subscription lookup failed", "error", err)
			r.reject(c, log, "subscription lookup failed")
			return
		}
	}
	if decision := CheckEntitlement(principal, sub, r.now()); !decision.Allowed {
		r.reject(c, log, string(decision.Reason))
		return
	}

	// Authoritative length comes from storage at request time, never from
	// a cached catalog field.
	size, err := r.storage.Stat(asset.Path)
	if err != nil {
		log.Error("video file unavailable", "path", asset.Path, "error", err)
		r.reject(c, log, "file missing")
		return
	}

	res := ParseRange(c.GetHeader("Range"), size)
	if res.Kind == RangeUnsatisfiable {
		log.Info("range not satisfiable", "range", c.GetHeader("Range"), "size", size)
		c.Header("Content-Range", fmt.Sprintf("bytes */%d", size))
		c.AbortWithStatus(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	status := http.StatusOK
	offset, length := int64(0), size
	if res.Kind == RangeSatisfiable {
		status = http.StatusPartialContent
		offset, length = res.Range.Start, res.Range.Length()
	}

	src, err := r.storage.Open(asset.Path)
	if err != nil {
		log.Error("failed to open video file", "path", asset.Path, "error", err)
		r.reject(c, log, "file missing")
		return
	}
	reader, err := NewChunkReader(src, offset, length, r.chunkSize)
	if err != nil {
		src.Close()
		log.Error("failed to position stream", "offset", offset, "error", err)
		r.reject(c, log, "seek failed")
		return
	}
	defer reader.Close()

	// Once per initiated stream, before the first byte: the request was
	// legitimately started even if the client disconnects mid-transfer.
	r.recordView(c, log, asset, principal)

	c.Header("Content-Type", contentTypeForPath(asset.Path))
	c.Header("Content-Length", strconv.FormatInt(length, 10))
	if status == http.StatusPartialContent {
		c.Header("Accept-Ranges", "bytes")
		c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", res.Range.Start, res.Range.End, size))
	}
	c.Status(status)
	c.Writer.WriteHeaderNow()

	r.streamBody(c, log, reader)
}

// streamBody pulls chunks and writes them to the response in order. Chunk
// N+1 is not produced until chunk N has been accepted by the transport.
func (r *Responder) streamBody(c *gin.Context, log hclog.Logger, reader *ChunkReader) {
	w := c.Writer
	var written int64

	for {
		chunk, err := reader.Next()
		if err == io.EOF {
			log.Debug("stream complete", "bytes", written)
			return
		}
		if errors.Is(err, ErrTruncatedRead) {
			// Headers are committed; all we can do is cut the body.
			// Range-aware clients recover with a follow-up request.
			log.Error("storage truncated mid-stream", "bytes_written", written, "bytes_missing", reader.Remaining())
			return
		}
		if err != nil {
			log.Error("chunk read failed", "error", err, "bytes_written", written)
			return
		}

		n, werr := w.Write(chunk)
		written += int64(n)
		if werr != nil {
			// Client went away. Not retried, not surfaced; the broken
			// stream is the client's signal to re-request a range.
			log.Debug("client disconnected", "bytes_written", written, "error", werr)
			return
		}
		w.Flush()
	}
}

// recordView performs the two per-stream side effects in order: the view
// counter increment and the activity append. Failures are logged, never
// fatal; the stream itself is already authorized.
func (r *Responder) recordView(c *gin.Context, log hclog.Logger, asset *Asset, principal *Principal) {
	if err := r.activity.IncrementViewCount(asset.ID); err != nil {
		log.Warn("view count increment failed", "error", err)
	}

	rec := ActivityRecord{
		EventID:   uuid.NewString(),
		UserID:    principal.ID,
		AssetID:   asset.ID,
		Title:     asset.Title,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Timestamp: r.now(),
	}
	if err := r.activity.AppendView(rec); err != nil {
		log.Warn("activity append failed", "error", err)
	}

	if bus := events.GetGlobalEventBus(); bus != nil {
		ev := events.NewEvent(events.EventPlaybackStarted, fmt.Sprintf("user:%d", principal.ID),
			"Playback Started", fmt.Sprintf("Streaming %q", asset.Title))
		ev.Data = map[string]interface{}{"asset_id": asset.ID}
		if err := bus.PublishAsync(ev); err != nil {
			log.Debug("playback event not published", "error", err)
		}
	}
}

// reject answers 404 for every pre-stream failure, deliberately indistinct
// between missing assets and denied access
func (r *Responder) reject(c *gin.Context, log hclog.Logger, reason string) {
	log.Info("stream rejected", "reason", reason)
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

func principalID(p *Principal) interface{} {
	if p == nil {
		return "anonymous"
	}
	return p.ID
}

// contentTypeForPath derives the Content-Type from the file extension,
// defaulting to a generic video type
func contentTypeForPath(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "video/mp4"
}
