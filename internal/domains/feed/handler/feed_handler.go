package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"homelibrary-backend/internal/domains/feed"
	"homelibrary-backend/internal/shared/response"
)

type FeedHandler struct {
	reconciler *feed.Reconciler
	subscriber *feed.Subscriber
	watcher    *feed.Watcher
}

func NewFeedHandler(rec *feed.Reconciler, sub *feed.Subscriber, watcher *feed.Watcher) *FeedHandler {
	return &FeedHandler{
		reconciler: rec,
		subscriber: sub,
		watcher:    watcher,
	}
}

// ════════════════════════════════════════════════════════════════
// SNAPSHOT: GET /v1/feed
// ════════════════════════════════════════════════════════════════

func (h *FeedHandler) Snapshot(c *gin.Context) {
	response.Success(c, http.StatusOK, h.reconciler.Snapshot())
}

// ════════════════════════════════════════════════════════════════
// STREAM: GET /v1/feed/stream
// ════════════════════════════════════════════════════════════════

// Server-sent events: one event per catalog delta.
func (h *FeedHandler) Stream(c *gin.Context) {
	ch, release := h.subscriber.Stream()
	defer release()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case delta, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(delta.Op), delta)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// ════════════════════════════════════════════════════════════════
// WATCH: GET /v1/books/:id/watch
// ════════════════════════════════════════════════════════════════

// Single-book delta stream. One watcher per book at a time; the handle
// is released when the client disconnects.
func (h *FeedHandler) Watch(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	handle, err := h.watcher.Attach(bookID.String())
	if err != nil {
		response.Conflict(c, err.Error())
		return
	}
	defer handle.Release()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case delta, ok := <-handle.Deltas():
			if !ok {
				return false
			}
			c.SSEvent(string(delta.Op), delta)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
