// Package queue delivers emails in the background so request handlers never
// wait on SMTP.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelier-numerique/agency-api/internal/core/ports"
	"github.com/atelier-numerique/agency-api/pkg/metrics"
)

const (
	defaultWorkers = 2
	channelBuffer  = 128
	sendTimeout    = 30 * time.Second
)

// Dispatcher feeds queued emails to a fixed pool of workers sharing one
// buffered channel.
type Dispatcher struct {
	queue  chan ports.Email
	mailer ports.Mailer
	log    zerolog.Logger

	workers int
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Dispatcher{
		queue:   make(chan ports.Email, channelBuffer),
		mailer:  mailer,
		log:     log,
		workers: numWorkers,
	}
}

var _ ports.Notifier = (*Dispatcher)(nil)

// Start launches the workers. They stop when ctx is cancelled; emails still
// queued at that point are dropped.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.runWorker(ctx, i)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue never blocks: when the buffer is full the email is dropped and
// false is returned.
func (d *Dispatcher) Enqueue(msg ports.Email) bool {
	select {
	case d.queue <- msg:
		metrics.MailQueueDepth.Set(float64(len(d.queue)))
		return true
	default:
		metrics.MailFailuresTotal.WithLabelValues(msg.Category, "queue_full").Inc()
		d.log.Warn().Str("category", msg.Category).Msg("mail queue full, email dropped")
		return false
	}
}

func (d *Dispatcher) runWorker(ctx context.Context, id int) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-d.queue:
			metrics.MailQueueDepth.Set(float64(len(d.queue)))
			d.deliver(ctx, id, msg)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, msg ports.Email) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := d.mailer.Send(sendCtx, msg); err != nil {
		metrics.MailFailuresTotal.WithLabelValues(msg.Category, "send").Inc()
		d.log.Error().Err(err).
			Str("category", msg.Category).
			Int("worker_id", id).
			Msg("email delivery failed")
		return
	}
	metrics.MailSentTotal.WithLabelValues(msg.Category).Inc()
}
