package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// Buffer decouples callers from transporters. Entries are queued on a bounded
// channel and delivered by one worker; when the queue is full the oldest
// entry is discarded so logging never blocks a caller.
type Buffer struct {
	queue        chan Entry
	transporters []Transporter
	fallback     io.Writer

	dropped atomic.Int64
	closed  atomic.Bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewBuffer starts the delivery worker.
func NewBuffer(capacity int, transporters ...Transporter) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	b := &Buffer{
		queue:        make(chan Entry, capacity),
		transporters: transporters,
		fallback:     os.Stderr,
		stop:         make(chan struct{}),
	}
	b.wg.Add(1)
	go b.run()
	return b
}

// Send enqueues entry, evicting the oldest queued entry if necessary.
func (b *Buffer) Send(entry Entry) {
	if b.closed.Load() {
		return
	}
	for attempt := 0; attempt < 2; attempt++ {
		select {
		case b.queue <- entry:
			return
		default:
		}
		select {
		case <-b.queue:
			b.dropped.Add(1)
		default:
		}
	}
	b.dropped.Add(1)
}

// DroppedCount is the number of entries lost to overflow.
func (b *Buffer) DroppedCount() int64 {
	return b.dropped.Load()
}

// Close stops the worker, delivers whatever is still queued and closes the
// transporters. Subsequent calls are no-ops.
func (b *Buffer) Close() {
	if !b.closed.CompareAndSwap(false, true) {
		return
	}
	close(b.stop)
	b.wg.Wait()

	for {
		select {
		case entry := <-b.queue:
			b.deliver(entry)
		default:
			for _, t := range b.transporters {
				_ = t.Close()
			}
			return
		}
	}
}

func (b *Buffer) run() {
	defer b.wg.Done()
	for {
		select {
		case entry := <-b.queue:
			b.deliver(entry)
		case <-b.stop:
			return
		}
	}
}

func (b *Buffer) deliver(entry Entry) {
	for _, t := range b.transporters {
		if err := t.Write(entry); err != nil {
			fmt.Fprintf(b.fallback, "log transporter %q: %v\n", t.Name(), err)
		}
	}
}
