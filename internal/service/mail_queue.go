package service

import (
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// Dispatcher accepts emails for delivery without waiting for the result
type Dispatcher interface {
	Dispatch(e Email)
}

// MailQueue is a bounded queue drained by a fixed pool of workers. Delivery
// failures are logged and never reported back to the caller.
type MailQueue struct {
	jobs    chan Email
	sender  Sender
	workers int

	wg      conc.WaitGroup
	mu      sync.RWMutex
	closed  bool
	pending atomic.Int32
}

// NewMailQueue makes a queue holding at most size unsent emails
func NewMailQueue(s Sender, size, workers int) *MailQueue {
	if size <= 0 {
		size = 100
	}
	if workers <= 0 {
		workers = 2
	}

	zap.L().Debug("Initializing mail queue", zap.Int("size", size), zap.Int("workers", workers))

	return &MailQueue{
		jobs:    make(chan Email, size),
		sender:  s,
		workers: workers,
	}
}

func (q *MailQueue) Start() {
	for range q.workers {
		q.wg.Go(q.worker)
	}
}

func (q *MailQueue) worker() {
	for e := range q.jobs {
		err := q.sender.Send(e)
		q.pending.Add(-1)

		if err != nil {
			zap.L().Error("Failed to send email",
				zap.Error(err),
				zap.String("to", e.To),
				zap.String("subject", e.Subject))
			continue
		}

		zap.L().Debug("Email sent", zap.String("to", e.To), zap.String("subject", e.Subject))
	}
}

// Dispatch enqueues e. A full or stopped queue drops the email.
func (q *MailQueue) Dispatch(e Email) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		zap.L().Warn("Mail queue stopped, dropping email", zap.String("to", e.To))
		return
	}

	q.pending.Add(1)

	select {
	case q.jobs <- e:
	default:
		q.pending.Add(-1)
		zap.L().Error("Mail queue full, dropping email", zap.String("to", e.To), zap.String("subject", e.Subject))
	}
}

// Pending returns the number of queued or in-flight emails
func (q *MailQueue) Pending() int {
	return int(q.pending.Load())
}

// Stop refuses new emails and waits for the queued ones to be sent
func (q *MailQueue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
}
