package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kryos/employee-accounts/internal/core/ports"
	"github.com/kryos/employee-accounts/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	sendTimeout    = 10 * time.Second
)

const (
	opEnqueueHash = "enqueue_hash"
	opSendHash    = "send_hash"
)

var (
	// ErrQueueFull is reported when a worker channel has no room left.
	ErrQueueFull = errors.New("hash notification queue full")
	// ErrStopped is reported for notifications submitted after Stop.
	ErrStopped = errors.New("hash notification dispatcher stopped")
)

// HashSender delivers one fingerprint to the registry.
type HashSender interface {
	SendHash(ctx context.Context, hash, referenceID string) error
}

type notification struct {
	hash        string
	referenceID string
}

// Dispatcher implements ports.HashNotifier. Notifications are routed to a
// fixed set of workers by hashing the reference id, so notifications for the
// same account are delivered in submission order. Delivery errors go to the
// ErrorReporter and are never returned to the caller.
type Dispatcher struct {
	workers  []chan notification
	sender   HashSender
	reporter ports.ErrorReporter
	log      zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender HashSender, reporter ports.ErrorReporter, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan notification, numWorkers),
		sender:   sender,
		reporter: reporter,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit when ctx is cancelled or
// after Stop has drained their channel.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Notify enqueues a notification without blocking. When the target worker is
// full, or the dispatcher is stopped, the notification is dropped and reported.
func (d *Dispatcher) Notify(ctx context.Context, hash, referenceID string) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.drop(ctx, ErrStopped, referenceID)
		return
	}

	idx := d.shardIndex(referenceID)
	select {
	case d.workers[idx] <- notification{hash: hash, referenceID: referenceID}:
		metrics.HashNotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(ctx, ErrQueueFull, referenceID)
	}
}

// Stop refuses new notifications, lets workers drain what is queued and
// waits for them to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) drop(ctx context.Context, err error, referenceID string) {
	metrics.HashNotificationsTotal.WithLabelValues("dropped").Inc()
	d.reporter.Report(ctx, err, opEnqueueHash, referenceID)
}

// shardIndex maps a reference id deterministically to a worker index.
func (d *Dispatcher) shardIndex(referenceID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(referenceID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan notification) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			metrics.HashNotificationQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.deliver(ctx, id, n)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, workerID int, n notification) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	start := time.Now()
	err := d.sender.SendHash(sendCtx, n.hash, n.referenceID)
	metrics.HashNotificationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.HashNotificationsTotal.WithLabelValues("error").Inc()
		d.reporter.Report(ctx, err, opSendHash, n.referenceID)
		return
	}

	metrics.HashNotificationsTotal.WithLabelValues("sent").Inc()
	d.log.Debug().
		Str("reference_id", n.referenceID).
		Int("worker_id", workerID).
		Msg("hash sent")
}
