// Package dispatcher hands one job to one node and reports what happened.
package dispatcher

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/hongyusu/random-spanning-tree-approximation/cloud/cluster"
	"github.com/hongyusu/random-spanning-tree-approximation/common"
	"github.com/hongyusu/random-spanning-tree-approximation/common/stats"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/artifacts"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/domain"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/queue"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/remote"
)

type Outcome int

const (
	// A result already exists; the job is dropped.
	AlreadyDone Outcome = iota
	// Launched, and the primary result was visible right after.
	Dispatched
	// Not launched, or launched with no result visible yet. The job was requeued.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case AlreadyDone:
		return "AlreadyDone"
	case Dispatched:
		return "Dispatched"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

type Dispatcher struct {
	checker  artifacts.Checker
	launcher remote.Launcher
	queue    *queue.JobQueue
	pause    time.Duration
	sleep    func(time.Duration)
	stat     stats.StatsReceiver
}

type Option func(*Dispatcher)

// WithPause sets the fixed pause after every handled job.
func WithPause(d time.Duration) Option {
	return func(disp *Dispatcher) { disp.pause = d }
}

// WithSleep replaces time.Sleep, for tests.
func WithSleep(sleep func(time.Duration)) Option {
	return func(disp *Dispatcher) { disp.sleep = sleep }
}

func WithStats(stat stats.StatsReceiver) Option {
	return func(disp *Dispatcher) { disp.stat = stat }
}

// NewDispatcher returns a Dispatcher that requeues failed jobs onto q.
// One Dispatcher is shared by all workers.
func NewDispatcher(checker artifacts.Checker, launcher remote.Launcher, q *queue.JobQueue, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		checker:  checker,
		launcher: launcher,
		queue:    q,
		pause:    common.DefaultPostDispatchPause,
		sleep:    time.Sleep,
		stat:     stats.NilStatsReceiver(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch handles a job popped from the queue by the worker owning node.
//
// A job with an artifact in any location is AlreadyDone. Otherwise it is
// launched on node. If the launch fails, or the primary artifact is not
// there right after the launch, the job is pushed back onto the queue once
// and the outcome is Failed. Since remote runs outlast the launch, Failed is
// the usual outcome of a good launch too; the job is dropped on a later pop
// once its artifact shows up.
//
// Dispatch always pauses before returning. It never returns an error.
func (d *Dispatcher) Dispatch(ctx context.Context, node cluster.NodeId, job domain.Job) Outcome {
	defer d.sleep(d.pause)
	logger := log.WithFields(job.Fields()).WithField("node", node)

	if d.checker.Exists(job.Identity) {
		logger.Info("Skipping job, result already exists")
		d.stat.Counter(stats.DispatchAlreadyDoneCounter).Inc(1)
		return AlreadyDone
	}

	logger.Info("Dispatching job")
	d.stat.Counter(stats.DispatchLaunchCounter).Inc(1)
	latency := d.stat.Scope(string(node)).Latency(stats.DispatchLaunchLatency_ms).Time()
	err := d.launcher.Launch(ctx, node, job)
	latency.Stop()
	if err != nil {
		d.queue.Push(job)
		logger.WithField("err", err).Warn("Requeued job, launch failed")
		d.stat.Counter(stats.DispatchLaunchErrCounter).Inc(1)
		return Failed
	}

	if !d.checker.ExistsPrimary(job.Identity) {
		d.queue.Push(job)
		logger.Info("Requeued job, no result yet after launch")
		d.stat.Counter(stats.DispatchArtifactMissingCounter).Inc(1)
		return Failed
	}

	logger.Info("Dispatched job")
	d.stat.Counter(stats.DispatchDispatchedCounter).Inc(1)
	return Dispatched
}
