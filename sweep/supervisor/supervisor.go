// Package supervisor runs a whole sweep: fill the queue, find nodes, run one
// worker per node and wait for all of them.
package supervisor

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/hongyusu/random-spanning-tree-approximation/cloud/cluster"
	"github.com/hongyusu/random-spanning-tree-approximation/common"
	"github.com/hongyusu/random-spanning-tree-approximation/common/stats"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/generator"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/queue"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/worker"
)

// Summary describes a finished run. Reports are in node order.
type Summary struct {
	RunID          string
	Enqueued       int
	Nodes          int
	WorkersStarted int
	Reports        []worker.Report
	Elapsed        time.Duration
}

type Supervisor struct {
	generator  *generator.Generator
	space      generator.Space
	fetcher    cluster.Fetcher
	queue      *queue.JobQueue
	dispatcher worker.Dispatcher
	stagger    time.Duration
	workerOpts []worker.Option
	stat       stats.StatsReceiver
}

type Option func(*Supervisor)

// WithStagger sets the delay between successive worker starts.
func WithStagger(d time.Duration) Option {
	return func(s *Supervisor) { s.stagger = d }
}

// WithWorkerOptions are applied to every worker.
func WithWorkerOptions(opts ...worker.Option) Option {
	return func(s *Supervisor) { s.workerOpts = append(s.workerOpts, opts...) }
}

func WithStats(stat stats.StatsReceiver) Option {
	return func(s *Supervisor) { s.stat = stat }
}

func NewSupervisor(
	gen *generator.Generator,
	space generator.Space,
	fetcher cluster.Fetcher,
	q *queue.JobQueue,
	d worker.Dispatcher,
	opts ...Option,
) *Supervisor {
	s := &Supervisor{
		generator:  gen,
		space:      space,
		fetcher:    fetcher,
		queue:      q,
		dispatcher: d,
		stagger:    common.DefaultWorkerStagger,
		stat:       stats.NilStatsReceiver(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run generates the queue, fetches nodes once and starts a worker per node,
// one every stagger, then waits for every worker to find the queue empty.
// No worker is started once the queue is empty, so with zero nodes, or
// nothing to do, Run returns right after generation.
//
// The only error is a failed node fetch. ctx bounds remote launches and the
// stagger wait; cancelling it stops further worker starts but does not stop
// running workers.
func (s *Supervisor) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	summary := Summary{RunID: common.GenUUID()}
	logger := log.WithField("runID", summary.RunID)

	summary.Enqueued = s.generator.Generate(s.space)
	logger.WithFields(log.Fields{"jobs": s.queue.Len()}).Info("Processing jobs")

	nodes, err := s.fetcher.Fetch()
	if err != nil {
		return summary, errors.Wrap(err, "fetching nodes")
	}
	summary.Nodes = len(nodes)
	s.stat.Gauge(stats.SupervisorNodesGauge).Update(int64(len(nodes)))
	logger.WithFields(log.Fields{"nodes": len(nodes)}).Info("Fetched nodes")

	limit := rate.Inf
	if s.stagger > 0 {
		limit = rate.Every(s.stagger)
	}
	limiter := rate.NewLimiter(limit, 1)

	var wg sync.WaitGroup
	var mu sync.Mutex
	running := int64(0)
	track := func(delta int64) {
		mu.Lock()
		defer mu.Unlock()
		running += delta
		s.stat.Gauge(stats.WorkerRunningGauge).Update(running)
	}
	reports := make([]worker.Report, len(nodes))
	for i, node := range nodes {
		if err := limiter.Wait(ctx); err != nil {
			logger.WithField("err", err).Warn("Stopped starting workers")
			break
		}
		if s.queue.Len() == 0 {
			logger.WithField("started", summary.WorkersStarted).Info("Queue empty, not starting more workers")
			break
		}
		w := worker.NewWorker(node.Id(), s.queue, s.dispatcher, s.workerOpts...)
		summary.WorkersStarted++
		s.stat.Counter(stats.SupervisorWorkersStartedCounter).Inc(1)
		track(1)

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reports[i] = w.Run(ctx)
			track(-1)
		}(i)
	}
	wg.Wait()

	summary.Reports = reports[:summary.WorkersStarted]
	summary.Elapsed = time.Since(start)
	logger.WithFields(log.Fields{
		"workers": summary.WorkersStarted,
		"left":    s.queue.Len(),
		"elapsed": summary.Elapsed,
	}).Info("All workers finished")
	return summary, nil
}
