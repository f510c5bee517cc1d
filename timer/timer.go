// timer/timer.go
package timer

import (
	"container/heap"
	"sync"
	"time"
)

// Task is a scheduled callback. A non-zero Interval makes it repeat until
// cancelled.
type Task struct {
	ID       int64
	Execute  time.Time
	Interval time.Duration
	Callback func()
	index    int
}

type taskQueue []*Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	return q[i].Execute.Before(q[j].Execute)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x interface{}) {
	n := len(*q)
	task := x.(*Task)
	task.index = n
	*q = append(*q, task)
}

func (q *taskQueue) Pop() interface{} {
	old := *q
	n := len(old)
	task := old[n-1]
	task.index = -1
	*q = old[0 : n-1]
	return task
}

// Manager runs scheduled tasks off a single scan loop. Cancellation removes
// the task from the queue; an already-fired callback may still be in flight,
// so callers guard their callbacks with their own generation checks.
type Manager struct {
	queue    taskQueue
	mutex    sync.Mutex
	nextID   int64
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewManager() *Manager {
	manager := &Manager{
		queue:    make(taskQueue, 0),
		nextID:   1,
		stopChan: make(chan struct{}),
	}
	heap.Init(&manager.queue)
	go manager.process()
	return manager
}

// Schedule registers callback to run after delay, then every interval if
// interval > 0. Returns the task id for Cancel.
func (m *Manager) Schedule(delay, interval time.Duration, callback func()) int64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	task := &Task{
		ID:       m.nextID,
		Execute:  time.Now().Add(delay),
		Interval: interval,
		Callback: callback,
	}
	m.nextID++

	heap.Push(&m.queue, task)
	return task.ID
}

func (m *Manager) Cancel(taskID int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for i, task := range m.queue {
		if task.ID == taskID {
			heap.Remove(&m.queue, i)
			break
		}
	}
}

// Shutdown stops the scan loop. Pending tasks never fire afterwards.
func (m *Manager) Shutdown() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
}

func (m *Manager) process() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.runDue(time.Now())
		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) runDue(now time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for m.queue.Len() > 0 {
		task := m.queue[0]
		if task.Execute.After(now) {
			break
		}

		heap.Pop(&m.queue)
		go task.Callback()

		if task.Interval > 0 {
			task.Execute = task.Execute.Add(task.Interval)
			heap.Push(&m.queue, task)
		}
	}
}
