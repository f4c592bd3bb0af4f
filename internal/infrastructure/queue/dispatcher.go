package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/custommatt/account-api/internal/api/metrics"
	"github.com/custommatt/account-api/internal/core/ports"
)

const (
	defaultWorkers  = 4
	channelBuffer   = 256
	defaultAttempts = 3
	retryBase       = 500 * time.Millisecond
)

var (
	ErrQueueFull = errors.New("notification queue full")
	ErrStopped   = errors.New("notification dispatcher stopped")
)

// Dispatcher delivers welcome notifications on a fixed set of workers.
// Messages are sharded by recipient address so mails to one recipient are
// sent in order.
type Dispatcher struct {
	workers  []chan ports.WelcomeMessage
	mailer   ports.Mailer
	attempts uint64
	base     time.Duration
	log      zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.WelcomeMessage, numWorkers),
		mailer:   mailer,
		attempts: defaultAttempts,
		base:     retryBase,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.WelcomeMessage, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their channel and exit
// after Stop; ctx bounds in-flight deliveries.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Stop closes the queues and waits for the workers to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// NotifyWelcome enqueues msg for delivery. It blocks until there is room in
// the worker's buffer or ctx is done.
func (d *Dispatcher) NotifyWelcome(ctx context.Context, msg ports.WelcomeMessage) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		metrics.WelcomeEmailsTotal.WithLabelValues("dropped").Inc()
		return ErrStopped
	}

	idx := d.shardIndex(msg.Email)
	select {
	case d.workers[idx] <- msg:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	case <-ctx.Done():
		metrics.WelcomeEmailsTotal.WithLabelValues("dropped").Inc()
		return ErrQueueFull
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(email)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.WelcomeMessage) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for msg := range ch {
		metrics.NotificationQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		d.deliver(ctx, id, msg)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, workerID int, msg ports.WelcomeMessage) {
	start := time.Now()
	backoff := retry.WithMaxRetries(d.attempts-1, retry.NewExponential(d.base))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := d.mailer.SendWelcome(ctx, msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})

	result := "sent"
	if err != nil {
		result = "failed"
		d.log.Error().Err(err).
			Str("account_id", msg.AccountID).
			Int("worker_id", workerID).
			Msg("welcome email delivery failed")
	} else {
		d.log.Info().
			Str("account_id", msg.AccountID).
			Int("worker_id", workerID).
			Msg("welcome email sent")
	}
	metrics.WelcomeEmailsTotal.WithLabelValues(result).Inc()
	metrics.NotificationDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
