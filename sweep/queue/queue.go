// Package queue holds the FIFO of pending jobs shared by all workers of a sweep.
package queue

import (
	"sync"

	"github.com/hongyusu/random-spanning-tree-approximation/common/stats"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/domain"
)

// JobQueue is an unbounded FIFO, safe for concurrent use. Push never fails
// and never deduplicates; TryPop never blocks.
//
// A requeued job goes to the tail, so FIFO order holds only for jobs pushed
// by a single goroutine.
type JobQueue struct {
	mu   sync.Mutex
	jobs []domain.Job
	stat stats.StatsReceiver
}

func NewJobQueue(stat stats.StatsReceiver) *JobQueue {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return &JobQueue{stat: stat}
}

// Push appends job to the tail.
func (q *JobQueue) Push(job domain.Job) {
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	size := len(q.jobs)
	q.mu.Unlock()

	q.stat.Counter(stats.QueuePushCounter).Inc(1)
	q.stat.Gauge(stats.QueueSizeGauge).Update(int64(size))
}

// TryPop removes and returns the head job. ok is false when the queue is
// empty, which is a normal condition for callers, not an error.
func (q *JobQueue) TryPop() (job domain.Job, ok bool) {
	q.mu.Lock()
	if len(q.jobs) == 0 {
		q.mu.Unlock()
		return domain.Job{}, false
	}
	job = q.jobs[0]
	q.jobs[0] = domain.Job{}
	q.jobs = q.jobs[1:]
	size := len(q.jobs)
	if size == 0 {
		// release the backing array once drained
		q.jobs = nil
	}
	q.mu.Unlock()

	q.stat.Counter(stats.QueuePopCounter).Inc(1)
	q.stat.Gauge(stats.QueueSizeGauge).Update(int64(size))
	return job, true
}

func (q *JobQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Snapshot returns a copy of the pending jobs, head first.
func (q *JobQueue) Snapshot() []domain.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]domain.Job(nil), q.jobs...)
}
