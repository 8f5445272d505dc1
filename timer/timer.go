// timer/timer.go
package timer

import (
	"container/heap"
	"sync"
	"time"
)

// task is one scheduled callback. interval > 0 means it re-arms
// itself after firing.
type task struct {
	id       int64
	execute  time.Time
	interval time.Duration
	callback func()
	index    int
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	return q[i].execute.Before(q[j].execute)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x interface{}) {
	n := len(*q)
	t := x.(*task)
	t.index = n
	*q = append(*q, t)
}

func (q *taskQueue) Pop() interface{} {
	old := *q
	n := len(old)
	t := old[n-1]
	t.index = -1
	*q = old[0 : n-1]
	return t
}

// Manager drives deferred and recurring callbacks off a single
// coarse-grained tick. Callbacks run on their own goroutine, so a
// slow one cannot stall the queue.
type Manager struct {
	queue    taskQueue
	nextID   int64
	tick     time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	mutex    sync.Mutex
}

// NewManager starts a scheduler ticking every 50ms.
func NewManager() *Manager {
	m := &Manager{
		queue:    make(taskQueue, 0),
		nextID:   1,
		tick:     50 * time.Millisecond,
		stopChan: make(chan struct{}),
	}
	heap.Init(&m.queue)
	go m.process()
	return m
}

// Schedule runs fn once after delay and returns the task ID.
func (m *Manager) Schedule(delay time.Duration, fn func()) int64 {
	return m.add(delay, 0, fn)
}

// Recurring runs fn every interval until cancelled.
func (m *Manager) Recurring(interval time.Duration, fn func()) int64 {
	return m.add(interval, interval, fn)
}

func (m *Manager) add(delay, interval time.Duration, fn func()) int64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	t := &task{
		id:       m.nextID,
		execute:  time.Now().Add(delay),
		interval: interval,
		callback: fn,
	}
	m.nextID++

	heap.Push(&m.queue, t)
	return t.id
}

// Cancel drops a pending task. A task already fired (or currently
// firing) is unaffected.
func (m *Manager) Cancel(taskID int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for i, t := range m.queue {
		if t.id == taskID {
			heap.Remove(&m.queue, i)
			break
		}
	}
}

// Stop halts the scheduler. Pending tasks never fire.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
}

func (m *Manager) process() {
	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, t := range m.takeDue() {
				go t.callback()
			}
		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) takeDue() []*task {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := time.Now()
	var due []*task
	for m.queue.Len() > 0 {
		t := m.queue[0]
		if t.execute.After(now) {
			break
		}
		heap.Pop(&m.queue)
		due = append(due, t)

		if t.interval > 0 {
			t.execute = now.Add(t.interval)
			heap.Push(&m.queue, t)
		}
	}
	return due
}
