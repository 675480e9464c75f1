package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/concert-booking/internal/api/metrics"
	"github.com/99minutos/concert-booking/internal/core/domain"
	"github.com/99minutos/concert-booking/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes booking events to a fixed set of workers using consistent
// hashing on the concert id, so events for one concert are recorded in order.
//
// Lifecycle: Start, then Stop once the HTTP server has drained. Stop closes
// the worker channels and waits for every buffered event to be recorded.
type Dispatcher struct {
	workers []chan domain.BookingEvent
	service ports.AuditService
	log     zerolog.Logger

	mu      sync.RWMutex // guards closed against Publish
	closed  bool
	running sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.BookingEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.BookingEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. ctx is handed to every Record call;
// cancel it only after Stop has returned or timed out.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.running.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Publish hands the event to the worker responsible for its concert. When that
// worker's buffer is full, or the dispatcher is stopped, the event is dropped
// and logged rather than blocking the request.
func (d *Dispatcher) Publish(event domain.BookingEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(event, -1, "audit dispatcher stopped, event dropped")
		return
	}

	idx := d.shardIndex(event.ConcertID)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(event, idx, "audit queue full, event dropped")
	}
}

// Stop refuses new events and waits until the workers have recorded what is
// already buffered, or until ctx expires. It is safe to call more than once.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		d.running.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		pending := 0
		for _, ch := range d.workers {
			pending += len(ch)
		}
		d.log.Warn().Int("pending", pending).Msg("audit drain timed out")
		return ctx.Err()
	}
}

func (d *Dispatcher) drop(event domain.BookingEvent, workerID int, msg string) {
	metrics.AuditErrorsTotal.WithLabelValues(string(event.Kind)).Inc()
	d.log.Warn().
		Str("booking_id", event.BookingID).
		Str("kind", string(event.Kind)).
		Int("worker_id", workerID).
		Msg(msg)
}

// shardIndex maps a concert id deterministically to a worker index.
func (d *Dispatcher) shardIndex(concertID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(concertID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.BookingEvent) {
	defer d.running.Done()

	label := strconv.Itoa(id)
	for event := range ch {
		metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		if err := d.service.Record(ctx, event); err != nil {
			d.log.Error().Err(err).
				Str("booking_id", event.BookingID).
				Str("concert_id", event.ConcertID).
				Int("worker_id", id).
				Msg("booking event recording failed")
		}
	}
}
