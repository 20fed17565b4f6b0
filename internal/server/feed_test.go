package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/procurahq/procura/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sseRecorder is a ResponseWriter safe to inspect while the stream
// handler is still writing from its own goroutine.
type sseRecorder struct {
	mu      sync.Mutex
	header  http.Header
	status  int
	body    bytes.Buffer
	flushed bool
}

func newSSERecorder() *sseRecorder {
	return &sseRecorder{header: make(http.Header)}
}

func (r *sseRecorder) Header() http.Header {
	return r.header
}

func (r *sseRecorder) Write(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.Write(b)
}

func (r *sseRecorder) WriteHeader(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == 0 {
		r.status = code
	}
}

func (r *sseRecorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushed = true
}

func (r *sseRecorder) BodyString() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.String()
}

func TestStreamProductFeedReplaysBacklog(t *testing.T) {
	feed := events.NewHub()
	feed.Publish(events.Event{Type: events.TypeProductCreated, ProductID: "101", Name: "Widget"})
	feed.Publish(events.Event{Type: events.TypeProductUpdated, ProductID: "101", Name: "Widget Mk2"})

	srv := newTestServerWithFeed(&fakeProductService{}, &fakeInvoiceService{}, feed)

	// A pre-cancelled context lets the stream write its backlog and
	// return on the first loop iteration instead of blocking forever.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/v1/products/feed", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	srv.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.True(t, rec.Flushed)

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "retry: 2000\n\n"))
	assert.Contains(t, body, `data: {"type":"product.created","product_id":"101","name":"Widget"`)
	assert.Contains(t, body, `data: {"type":"product.updated","product_id":"101","name":"Widget Mk2"`)
	assert.Zero(t, feed.SubscriberCount())
}

func TestStreamProductFeedDeliversLiveEvents(t *testing.T) {
	feed := events.NewHub()
	srv := newTestServerWithFeed(&fakeProductService{}, &fakeInvoiceService{}, feed)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/v1/products/feed", nil).WithContext(ctx)
	rec := newSSERecorder()

	done := make(chan struct{})
	go func() {
		srv.Engine().ServeHTTP(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return feed.SubscriberCount() == 1
	}, time.Second, 5*time.Millisecond)

	feed.Publish(events.Event{Type: events.TypeProductImported, ProductID: "102", Name: "Gadget"})

	require.Eventually(t, func() bool {
		return strings.Contains(rec.BodyString(), "product.imported")
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	assert.Contains(t, rec.BodyString(), `data: {"type":"product.imported","product_id":"102","name":"Gadget"`)
	assert.Zero(t, feed.SubscriberCount())
}

func TestStreamProductFeedUnavailableWithoutHub(t *testing.T) {
	srv := newTestServerWithFeed(&fakeProductService{}, &fakeInvoiceService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/products/feed", nil)
	rec := httptest.NewRecorder()

	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
