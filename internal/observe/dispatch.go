package observe

import "sync"

// Dispatcher decides which goroutine runs requery jobs
type Dispatcher interface {
	Dispatch(job func())
}

// Inline runs jobs right away on the goroutine that committed
type Inline struct{}

func (Inline) Dispatch(job func()) { job() }

// Queue holds jobs until the owning goroutine drains them. The UI loop
// drains it so that published collections only change on that loop.
type Queue struct {
	mu    sync.Mutex
	jobs  []func()
	ready chan struct{}
}

func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

func (q *Queue) Dispatch(job func()) {
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled when jobs are waiting
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Drain runs queued jobs in order, including any queued while draining,
// and returns how many ran
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		jobs := q.jobs
		q.jobs = nil
		q.mu.Unlock()

		if len(jobs) == 0 {
			return n
		}
		for _, job := range jobs {
			job()
			n++
		}
	}
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}
