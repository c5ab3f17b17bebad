package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory keeps one timer per task in process
type Memory struct {
	mu      sync.Mutex
	timers  map[uuid.UUID]*time.Timer
	pending map[uuid.UUID]Reminder
	handler Handler
}

func NewMemory(handler Handler) *Memory {
	return &Memory{
		timers:  make(map[uuid.UUID]*time.Timer),
		pending: make(map[uuid.UUID]Reminder),
		handler: handler,
	}
}

func (m *Memory) Schedule(_ context.Context, r Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stop(r.TaskID)
	m.pending[r.TaskID] = r

	var timer *time.Timer
	timer = time.AfterFunc(time.Until(r.FireAt), func() {
		m.mu.Lock()
		// a later Schedule or Cancel may have replaced this timer
		if m.timers[r.TaskID] != timer {
			m.mu.Unlock()
			return
		}
		delete(m.timers, r.TaskID)
		delete(m.pending, r.TaskID)
		m.mu.Unlock()

		if m.handler != nil {
			m.handler(r)
		}
	})
	m.timers[r.TaskID] = timer
	return nil
}

func (m *Memory) Cancel(_ context.Context, taskID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop(taskID)
	return nil
}

// Pending returns the reminder scheduled for a task, if any
func (m *Memory) Pending(taskID uuid.UUID) (Reminder, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.pending[taskID]
	return r, ok
}

func (m *Memory) stop(taskID uuid.UUID) {
	if t, ok := m.timers[taskID]; ok {
		t.Stop()
		delete(m.timers, taskID)
		delete(m.pending, taskID)
	}
}
