package queue

import (
	"sort"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongyusu/random-spanning-tree-approximation/common/stats"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/domain"
)

func job(seq int, dataset string) domain.Job {
	return domain.NewJob(seq, domain.Identity{Dataset: dataset, GraphType: "tree", T: 1, Fold: 1, LNorm: "2", Kappa: "2", SlackC: "1"})
}

func TestFIFO(t *testing.T) {
	q := NewJobQueue(nil)
	_, ok := q.TryPop()
	assert.False(t, ok)

	q.Push(job(1, "a"))
	q.Push(job(2, "b"))
	q.Push(job(1, "a"))
	assert.Equal(t, 3, q.Len())

	j, ok := q.TryPop()
	require.True(t, ok)
	assert.Equal(t, 1, j.SequenceID)
	q.Push(j)
	assert.Equal(t, []int{2, 1, 1}, seqs(q.Snapshot()))

	for i := 0; i < 3; i++ {
		_, ok = q.TryPop()
		assert.True(t, ok)
	}
	_, ok = q.TryPop()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Len())
}

func TestQueueStats(t *testing.T) {
	stat := stats.DefaultStatsReceiver()
	q := NewJobQueue(stat)
	q.Push(job(1, "a"))
	q.Push(job(2, "a"))
	q.TryPop()
	q.TryPop()
	q.TryPop()

	assert.Equal(t, int64(2), stat.Counter(stats.QueuePushCounter).Count())
	assert.Equal(t, int64(2), stat.Counter(stats.QueuePopCounter).Count())
	assert.Equal(t, int64(0), stat.Gauge(stats.QueueSizeGauge).Value())
}

// Concurrent consumers, each requeueing a job the first time it sees it,
// never lose or duplicate an element.
func TestConcurrentNoLossNoDup(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("every job is consumed exactly once after one requeue", prop.ForAll(
		func(jobs []domain.Job, consumers int) bool {
			q := NewJobQueue(nil)
			for _, j := range jobs {
				q.Push(j)
			}

			var mu sync.Mutex
			seen := map[int]int{}
			var consumed []int
			var wg sync.WaitGroup
			for c := 0; c < consumers; c++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for {
						j, ok := q.TryPop()
						if !ok {
							return
						}
						mu.Lock()
						seen[j.SequenceID]++
						first := seen[j.SequenceID] == 1
						if !first {
							consumed = append(consumed, j.SequenceID)
						}
						mu.Unlock()
						if first {
							q.Push(j)
						}
					}
				}()
			}
			wg.Wait()

			if q.Len() != 0 || len(consumed) != len(jobs) {
				return false
			}
			sort.Ints(consumed)
			for i, seq := range consumed {
				if seq != i+1 || seen[seq] != 2 {
					return false
				}
			}
			return true
		},
		domain.GenJobs(),
		gen.IntRange(1, 8),
	))
	properties.TestingRun(t)
}

func seqs(jobs []domain.Job) []int {
	out := []int{}
	for _, j := range jobs {
		out = append(out, j.SequenceID)
	}
	return out
}
