// Package dispatch carries samples, frames and log messages from the generator's main loop to
// the presentation layer.
//
// Each kind of event has its own bounded FIFO queue. Publishing never blocks: if a queue is
// full, its oldest element is dropped to make room for the new one. Frames supersede each
// other, so the frame queue is kept small; the sample queue is larger, so that samples are only
// dropped when the consumer falls far behind.
package dispatch

import (
	"sync"
	"sync/atomic"

	"github.com/ftl/scansim/core"
)

// Handler receives the events on the consumer's goroutine.
type Handler interface {
	OnSample(core.Sample)
	OnFrame(core.Frame)
	OnLog(string)
}

// Stats of the dispatcher.
type Stats struct {
	Samples QueueStats
	Frames  QueueStats
	Logs    QueueStats
}

// QueueStats of a single queue.
type QueueStats struct {
	Published uint64
	Dropped   uint64
	Queued    int
}

// New returns a new dispatcher with the given queue sizes.
func New(sampleBuffer, frameBuffer, logBuffer int) *Dispatcher {
	return &Dispatcher{
		samples: newQueue[core.Sample](sampleBuffer),
		frames:  newQueue[core.Frame](frameBuffer),
		logs:    newQueue[string](logBuffer),
	}
}

// Dispatcher between the producer and the consumer. The Publish methods must only be called
// from a single producer goroutine.
type Dispatcher struct {
	closeLock sync.RWMutex
	closed    bool

	samples *queue[core.Sample]
	frames  *queue[core.Frame]
	logs    *queue[string]
}

// PublishSample enqueues the given sample.
func (d *Dispatcher) PublishSample(sample core.Sample) {
	d.closeLock.RLock()
	defer d.closeLock.RUnlock()
	if d.closed {
		return
	}
	d.samples.put(sample)
}

// PublishFrame enqueues the given frame. The frame must not be modified afterwards.
func (d *Dispatcher) PublishFrame(frame core.Frame) {
	d.closeLock.RLock()
	defer d.closeLock.RUnlock()
	if d.closed {
		return
	}
	d.frames.put(frame)
}

// PublishLog enqueues the given log message.
func (d *Dispatcher) PublishLog(message string) {
	d.closeLock.RLock()
	defer d.closeLock.RUnlock()
	if d.closed {
		return
	}
	d.logs.put(message)
}

// Samples channel, closed when the dispatcher is closed.
func (d *Dispatcher) Samples() <-chan core.Sample {
	return d.samples.items
}

// Frames channel, closed when the dispatcher is closed.
func (d *Dispatcher) Frames() <-chan core.Frame {
	return d.frames.items
}

// Logs channel, closed when the dispatcher is closed.
func (d *Dispatcher) Logs() <-chan string {
	return d.logs.items
}

// Stats returns a snapshot of the queue statistics.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Samples: d.samples.stats(),
		Frames:  d.frames.stats(),
		Logs:    d.logs.stats(),
	}
}

// Close all queues. Events that are still queued can be received until the channels are
// drained. Publishing after Close is a no-op.
func (d *Dispatcher) Close() {
	d.closeLock.Lock()
	defer d.closeLock.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	close(d.samples.items)
	close(d.frames.items)
	close(d.logs.items)
}

// Serve delivers all events to the given handler on the calling goroutine, until stop is closed
// or the dispatcher is closed and drained.
func (d *Dispatcher) Serve(stop <-chan struct{}, handler Handler) {
	samples := d.Samples()
	frames := d.Frames()
	logs := d.Logs()
	for samples != nil || frames != nil || logs != nil {
		select {
		case sample, ok := <-samples:
			if !ok {
				samples = nil
				continue
			}
			handler.OnSample(sample)
		case frame, ok := <-frames:
			if !ok {
				frames = nil
				continue
			}
			handler.OnFrame(frame)
		case message, ok := <-logs:
			if !ok {
				logs = nil
				continue
			}
			handler.OnLog(message)
		case <-stop:
			return
		}
	}
}

type queue[T any] struct {
	items     chan T
	published atomic.Uint64
	dropped   atomic.Uint64
}

func newQueue[T any](size int) *queue[T] {
	if size < 1 {
		size = 1
	}
	return &queue[T]{
		items: make(chan T, size),
	}
}

// put never blocks. If the queue is full, the oldest item is removed first. The consumer may
// receive concurrently, so the loop retries until the item fits.
func (q *queue[T]) put(item T) {
	q.published.Add(1)
	for {
		select {
		case q.items <- item:
			return
		default:
		}
		select {
		case <-q.items:
			q.dropped.Add(1)
		default:
		}
	}
}

func (q *queue[T]) stats() QueueStats {
	return QueueStats{
		Published: q.published.Load(),
		Dropped:   q.dropped.Load(),
		Queued:    len(q.items),
	}
}
