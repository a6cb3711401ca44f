package posts

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// viewBufferKey is the Redis hash holding not-yet-flushed increments
	viewBufferKey = "post_view_buffer"
	// viewFlushKey is the staging key the buffer is renamed to during a flush
	viewFlushKey = "post_view_buffer:flushing"
)

// ViewSink receives flushed view increments. Satisfied by Repository.
type ViewSink interface {
	AddViews(ctx context.Context, id string, delta int64) error
}

// ViewCounter buffers post view increments in a Redis hash and flushes them
// to the durable store periodically. View counts are best-effort by contract:
// increments buffered between flushes are lost on a crash, but the stored
// counter never decreases.
//
// When Redis is unavailable the counter degrades to writing through to the
// sink directly.
type ViewCounter struct {
	rdb      *redis.Client
	sink     ViewSink
	interval time.Duration
	logger   *slog.Logger

	started bool
	stop    chan struct{}
	done    chan struct{}
}

// NewViewCounter creates a view counter. rdb may be nil, in which case every
// Record writes through to the sink.
func NewViewCounter(rdb *redis.Client, sink ViewSink, interval time.Duration, logger *slog.Logger) *ViewCounter {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &ViewCounter{
		rdb:      rdb,
		sink:     sink,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Record registers one view for the post
func (c *ViewCounter) Record(ctx context.Context, postID string) error {
	if c.rdb == nil {
		return c.sink.AddViews(ctx, postID, 1)
	}
	if err := c.rdb.HIncrBy(ctx, viewBufferKey, postID, 1).Err(); err != nil {
		// Buffer unavailable: fall back to the durable store so the view
		// isn't silently dropped
		c.logger.Warn("view buffer unavailable, writing through", "post", postID, "error", err)
		return c.sink.AddViews(ctx, postID, 1)
	}
	return nil
}

// Flush drains the buffer into the sink. Concurrent Records keep landing in
// the live buffer key while the renamed snapshot is applied.
func (c *ViewCounter) Flush(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}

	if err := c.rdb.Rename(ctx, viewBufferKey, viewFlushKey).Err(); err != nil {
		if isRedisNoKey(err) {
			return nil // nothing buffered
		}
		return fmt.Errorf("failed to snapshot view buffer: %w", err)
	}

	counts, err := c.rdb.HGetAll(ctx, viewFlushKey).Result()
	if err != nil {
		return fmt.Errorf("failed to read view buffer snapshot: %w", err)
	}

	for postID, raw := range counts {
		delta, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || delta <= 0 {
			continue
		}
		if err := c.sink.AddViews(ctx, postID, delta); err != nil {
			// Push the delta back so the next flush retries it
			c.logger.Warn("failed to flush views, requeueing", "post", postID, "delta", delta, "error", err)
			if reErr := c.rdb.HIncrBy(ctx, viewBufferKey, postID, delta).Err(); reErr != nil {
				c.logger.Error("dropped buffered views", "post", postID, "delta", delta, "error", reErr)
			}
		}
	}

	if err := c.rdb.Del(ctx, viewFlushKey).Err(); err != nil {
		return fmt.Errorf("failed to clear view buffer snapshot: %w", err)
	}

	return nil
}

// Start launches the periodic flush loop. Call Close to stop it.
func (c *ViewCounter) Start() {
	c.started = true
	go func() {
		defer close(c.done)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), c.interval)
				if err := c.Flush(ctx); err != nil {
					c.logger.Warn("periodic view flush failed", "error", err)
				}
				cancel()
			case <-c.stop:
				return
			}
		}
	}()
}

// Close stops the flush loop and performs a final drain
func (c *ViewCounter) Close(ctx context.Context) error {
	if c.started {
		close(c.stop)
		<-c.done
	}
	return c.Flush(ctx)
}

func isRedisNoKey(err error) bool {
	// Rename on a missing key reports "no such key"
	return err != nil && err.Error() == "ERR no such key"
}
