// Package analytics buffers index and search events and publishes them to
// Kafka in the background, so a slow or missing broker never stalls the
// interactive session.
package analytics

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/kafka"
)

// Publisher sends encoded events to the broker.
type Publisher interface {
	Publish(ctx context.Context, events ...kafka.Event) error
}

// Tracker accepts events. The session depends on this rather than on a
// Collector so analytics can be switched off.
type Tracker interface {
	Track(event any)
}

// Discard is a Tracker that drops every event.
type Discard struct{}

func (Discard) Track(any) {}

type Collector struct {
	publisher Publisher
	eventCh   chan any
	logger    *slog.Logger
	done      chan struct{}
	dropped   atomic.Int64
	published atomic.Int64
}

func NewCollector(publisher Publisher, bufferSize int) *Collector {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	return &Collector{
		publisher: publisher,
		eventCh:   make(chan any, bufferSize),
		logger:    slog.Default().With("component", "analytics-collector"),
		done:      make(chan struct{}),
	}
}

// Run publishes events until Close is called or ctx is cancelled, then
// publishes whatever is still buffered.
func (c *Collector) Run(ctx context.Context) error {
	defer close(c.done)
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh))
	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				return nil
			}
			c.publish(ctx, event)
		case <-ctx.Done():
			c.drainRemaining()
			return nil
		}
	}
}

// Track queues an event, dropping it when the buffer is full.
func (c *Collector) Track(event any) {
	select {
	case c.eventCh <- event:
	default:
		c.dropped.Add(1)
		c.logger.Warn("analytics event dropped (buffer full)")
	}
}

// Close stops accepting events and waits for Run to finish.
func (c *Collector) Close() {
	close(c.eventCh)
	<-c.done
}

// Stats returns how many events were published and dropped.
func (c *Collector) Stats() (published, dropped int64) {
	return c.published.Load(), c.dropped.Load()
}

func (c *Collector) publish(ctx context.Context, event any) {
	if err := c.publisher.Publish(ctx, kafka.Event{Key: eventKey(event), Value: event}); err != nil {
		c.logger.Error("failed to publish analytics event", "error", err)
		return
	}
	c.published.Add(1)
}

func (c *Collector) drainRemaining() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				return
			}
			c.publish(ctx, event)
		default:
			return
		}
	}
}

func eventKey(event any) string {
	switch e := event.(type) {
	case SearchEvent:
		return string(e.Type)
	case IndexEvent:
		return string(e.Type)
	default:
		return "analytics"
	}
}
