package telegram

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	queueCapacity  = 256
	deliverTimeout = 15 * time.Second
)

// Sender is the outbound surface the queue needs. Implemented by Client.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text, parseMode string) error
}

type outbound struct {
	chatID    int64
	text      string
	parseMode string
}

// DeliveryQueue decouples reply delivery from the webhook response: Enqueue
// never blocks, workers deliver out of band, and a failing Telegram API only
// produces log lines. A slow send can therefore never delay or fail the
// webhook acknowledgement.
type DeliveryQueue struct {
	sender Sender
	jobs   chan outbound
	wg     sync.WaitGroup
	once   sync.Once
}

// NewDeliveryQueue creates the queue and starts its delivery workers
func NewDeliveryQueue(sender Sender, workers int) *DeliveryQueue {
	if workers <= 0 {
		workers = 2
	}
	q := &DeliveryQueue{
		sender: sender,
		jobs:   make(chan outbound, queueCapacity),
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

// Enqueue queues one reply for out-of-band delivery. Drops (and logs) when
// the buffer is full rather than blocking the webhook path.
func (q *DeliveryQueue) Enqueue(chatID int64, text, parseMode string) {
	select {
	case q.jobs <- outbound{chatID: chatID, text: text, parseMode: parseMode}:
	default:
		log.Printf("⚠️  Delivery queue full, dropping reply to chat %d", chatID)
	}
}

func (q *DeliveryQueue) worker() {
	defer q.wg.Done()
	for job := range q.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
		if err := q.sender.SendMessage(ctx, job.chatID, job.text, job.parseMode); err != nil {
			log.Printf("⚠️  Failed to deliver reply to chat %d: %v", job.chatID, err)
		}
		cancel()
	}
}

// Close stops accepting work and waits for in-flight deliveries
func (q *DeliveryQueue) Close() {
	q.once.Do(func() {
		close(q.jobs)
	})
	q.wg.Wait()
}
