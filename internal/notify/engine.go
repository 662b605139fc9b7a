package notify

import (
	"container/heap"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidTriggerTime = errors.New("notify: invalid trigger time")

type armedAlert struct {
	handle  string
	content Content
	trigger Trigger
}

type queueItem struct {
	alert armedAlert
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].alert.trigger.At.Before(pq[j].alert.trigger.At)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// Engine is the in-process Platform implementation: a min-heap of armed
// alerts drained by a single timer goroutine. Cancellation is lazy; a
// cancelled handle is dropped when it reaches the front of the queue.
type Engine struct {
	mu        sync.Mutex
	queue     priorityQueue
	cancelled map[string]bool
	out       chan Delivery
	wakeup    chan struct{}
	stopCh    chan struct{}
	doneCh    chan struct{}
	started   bool
	stopped   bool
	dropped   uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:     make(priorityQueue, 0),
		cancelled: make(map[string]bool),
		out:       make(chan Delivery, bufferSize),
		wakeup:    make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

func (e *Engine) Deliveries() <-chan Delivery {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) Schedule(_ context.Context, content Content, trigger Trigger) (string, error) {
	if trigger.At.IsZero() {
		return "", ErrInvalidTriggerTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return "", errors.New("notify: engine stopped")
	}

	handle := uuid.NewString()
	heap.Push(&e.queue, queueItem{alert: armedAlert{handle: handle, content: content, trigger: trigger}})
	e.signalWakeup()
	return handle, nil
}

func (e *Engine) Cancel(_ context.Context, handle string) error {
	if handle == "" {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, item := range e.queue {
		if item.alert.handle == handle {
			e.cancelled[handle] = true
			break
		}
	}
	return nil
}

func (e *Engine) CancelAll(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, item := range e.queue {
		e.cancelled[item.alert.handle] = true
	}
	return nil
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.trigger.At)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now().UTC())
			for _, alert := range due {
				delivery := Delivery{
					Handle:  alert.handle,
					Title:   alert.content.Title,
					Body:    alert.content.Body,
					Payload: alert.content.Payload,
					FiredAt: time.Now().UTC(),
				}
				select {
				case e.out <- delivery:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (armedAlert, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return armedAlert{}, false
	}
	return e.queue[0].alert, true
}

// popDue drains every fired alert, skipping cancelled handles and
// re-pushing daily repeats for their next occurrence.
func (e *Engine) popDue(now time.Time) []armedAlert {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]armedAlert, 0)
	for len(e.queue) > 0 {
		next := e.queue[0].alert
		if next.trigger.At.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		alert := item.alert
		if e.cancelled[alert.handle] {
			delete(e.cancelled, alert.handle)
			continue
		}
		out = append(out, alert)
		if alert.trigger.RepeatDaily {
			repeat := alert
			repeat.trigger.At = alert.trigger.At.Add(24 * time.Hour)
			// Skip days missed while the process was down so a stale
			// repeat fires once, not once per missed day.
			for !repeat.trigger.At.After(now) {
				repeat.trigger.At = repeat.trigger.At.Add(24 * time.Hour)
			}
			heap.Push(&e.queue, queueItem{alert: repeat})
		}
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
