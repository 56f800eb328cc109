package internal

import (
	"context"
	"sync"
)

// FrameQueue is a mutex-guarded FIFO of audio frames shared between the
// channel event handler (producer) and the playback loop (consumer). Drain
// is atomic with respect to concurrent pushes: no frame pushed before the
// drain survives it.
type FrameQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	frames [][]byte
	closed bool
}

// NewFrameQueue returns an empty queue.
func NewFrameQueue() *FrameQueue {
	q := &FrameQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends a frame. Pushes after Close are dropped.
func (q *FrameQueue) Push(frame []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.frames = append(q.frames, frame)
	q.cond.Signal()
}

// Pop removes and returns the oldest frame, blocking until one is available,
// the queue is closed, or ctx is done. It returns nil when no frame will be
// delivered.
func (q *FrameQueue) Pop(ctx context.Context) []byte {
	// Wake the cond wait when the context ends.
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.frames) == 0 {
		if q.closed || ctx.Err() != nil {
			return nil
		}
		q.cond.Wait()
	}

	frame := q.frames[0]
	q.frames = q.frames[1:]
	return frame
}

// TryPop removes and returns the oldest frame without blocking, or nil.
func (q *FrameQueue) TryPop() []byte {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.frames) == 0 {
		return nil
	}
	frame := q.frames[0]
	q.frames = q.frames[1:]
	return frame
}

// Drain discards every queued frame and returns how many were dropped.
// Frames already popped for playback are not recalled.
func (q *FrameQueue) Drain() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.frames)
	q.frames = nil
	return n
}

// Pending returns the number of queued frames.
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.frames)
}

// Close marks the queue closed and wakes all blocked consumers.
func (q *FrameQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}
