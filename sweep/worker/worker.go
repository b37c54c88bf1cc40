// Package worker runs the dispatch loop of a single node.
package worker

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/hongyusu/random-spanning-tree-approximation/cloud/cluster"
	"github.com/hongyusu/random-spanning-tree-approximation/common/stats"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/dispatcher"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/domain"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/queue"
)

type State int32

const (
	Backoff State = iota
	Dispatching
	Finished
)

func (s State) String() string {
	switch s {
	case Backoff:
		return "Backoff"
	case Dispatching:
		return "Dispatching"
	case Finished:
		return "Finished"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Dispatcher is implemented by *dispatcher.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, node cluster.NodeId, job domain.Job) dispatcher.Outcome
}

// Report summarizes a finished worker.
type Report struct {
	Node        cluster.NodeId
	Handled     int
	AlreadyDone int
	Dispatched  int
	Failed      int
	Penalty     Penalty
	Elapsed     time.Duration
}

type Worker struct {
	node     cluster.NodeId
	queue    *queue.JobQueue
	dispatch Dispatcher
	backoff  BackoffConfig
	sleep    func(time.Duration)
	rnd      *rand.Rand
	stat     stats.StatsReceiver

	state   int32
	penalty Penalty
}

type Option func(*Worker)

func WithBackoff(c BackoffConfig) Option {
	return func(w *Worker) { w.backoff = c }
}

// WithSleep replaces time.Sleep, for tests.
func WithSleep(sleep func(time.Duration)) Option {
	return func(w *Worker) { w.sleep = sleep }
}

// WithSeed makes the jitter sequence reproducible.
func WithSeed(seed int64) Option {
	return func(w *Worker) { w.rnd = rand.New(rand.NewSource(seed)) }
}

// WithStats records the worker's penalty under the node's scope.
func WithStats(stat stats.StatsReceiver) Option {
	return func(w *Worker) { w.stat = stat }
}

// NewWorker returns a worker for node, in state Backoff with no penalty.
func NewWorker(node cluster.NodeId, q *queue.JobQueue, d Dispatcher, opts ...Option) *Worker {
	w := &Worker{
		node:     node,
		queue:    q,
		dispatch: d,
		backoff:  DefaultBackoffConfig(),
		sleep:    time.Sleep,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		stat:     stats.NilStatsReceiver(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Worker) Node() cluster.NodeId { return w.node }

// State may be called from any goroutine.
func (w *Worker) State() State {
	return State(atomic.LoadInt32(&w.state))
}

func (w *Worker) setState(s State) {
	atomic.StoreInt32(&w.state, int32(s))
}

// Run loops until the worker finds the queue empty: back off, pop a job,
// dispatch it to the node, adjust the penalty. Once Run returns the worker
// is Finished for good. ctx only bounds remote launches; it does not stop
// the loop.
func (w *Worker) Run(ctx context.Context) Report {
	start := time.Now()
	report := Report{Node: w.node}
	logger := log.WithField("node", w.node)
	logger.Info("Worker started")
	penaltyGauge := w.stat.Scope(string(w.node)).Gauge(stats.WorkerPenaltyGauge)

	for {
		w.sleep(w.backoff.Delay(w.penalty, w.rnd))
		job, ok := w.queue.TryPop()
		if !ok {
			break
		}

		w.setState(Dispatching)
		outcome := w.dispatch.Dispatch(ctx, w.node, job)
		w.penalty = w.penalty.Apply(Delta(outcome))
		penaltyGauge.Update(int64(w.penalty))

		report.Handled++
		switch outcome {
		case dispatcher.AlreadyDone:
			report.AlreadyDone++
		case dispatcher.Dispatched:
			report.Dispatched++
		case dispatcher.Failed:
			report.Failed++
		}
		logger.WithFields(log.Fields{"seq": job.SequenceID, "outcome": outcome, "penalty": w.penalty}).Debug("Handled job")
		w.setState(Backoff)
	}

	w.setState(Finished)
	w.stat.Counter(stats.WorkerFinishedCounter).Inc(1)
	report.Penalty = w.penalty
	report.Elapsed = time.Since(start)
	logger.WithFields(log.Fields{
		"handled":     report.Handled,
		"alreadyDone": report.AlreadyDone,
		"dispatched":  report.Dispatched,
		"failed":      report.Failed,
		"penalty":     report.Penalty,
	}).Info("Worker finished, queue empty")
	return report
}
