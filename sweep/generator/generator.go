// Package generator enumerates the parameter space of a sweep and queues the
// configurations that have no result yet.
package generator

import (
	log "github.com/sirupsen/logrus"

	"github.com/hongyusu/random-spanning-tree-approximation/common"
	"github.com/hongyusu/random-spanning-tree-approximation/common/stats"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/artifacts"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/domain"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/queue"
)

// Space lists the values of each parameter dimension. The product of all
// dimensions is the set of configurations.
type Space struct {
	SlackCs    []string
	Folds      []int
	Datasets   []string
	GraphTypes []string
	Kappas     []string
	LNorms     []string
	Ts         []int
}

// Size is the number of configurations in s.
func (s Space) Size() int {
	return len(s.SlackCs) * len(s.Folds) * len(s.Datasets) * len(s.GraphTypes) *
		len(s.Kappas) * len(s.LNorms) * len(s.Ts)
}

// Each calls fn for every configuration, slack constant outermost and t
// innermost. A t of 0 is visited as 1.
func (s Space) Each(fn func(domain.Identity)) {
	for _, c := range s.SlackCs {
		for _, fold := range s.Folds {
			for _, dataset := range s.Datasets {
				for _, graph := range s.GraphTypes {
					for _, kappa := range s.Kappas {
						for _, l := range s.LNorms {
							for _, t := range s.Ts {
								if t == 0 {
									t = 1
								}
								fn(domain.Identity{
									Dataset:   dataset,
									GraphType: graph,
									T:         t,
									Fold:      fold,
									LNorm:     l,
									Kappa:     kappa,
									SlackC:    c,
								})
							}
						}
					}
				}
			}
		}
	}
}

type Generator struct {
	checker   artifacts.Checker
	queue     *queue.JobQueue
	stat      stats.StatsReceiver
	milestone int
}

// NewGenerator returns a Generator pushing onto q. A milestone <= 0 uses
// common.DefaultQueueMilestone.
func NewGenerator(checker artifacts.Checker, q *queue.JobQueue, stat stats.StatsReceiver, milestone int) *Generator {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	if milestone <= 0 {
		milestone = common.DefaultQueueMilestone
	}
	return &Generator{checker: checker, queue: q, stat: stat, milestone: milestone}
}

// Generate queues every configuration of space that has no artifact in any
// location, with sequence ids counting up from 1, and returns how many were
// queued.
func (g *Generator) Generate(space Space) int {
	log.WithFields(log.Fields{"configurations": space.Size()}).Info("Generating job queue")
	seq, skipped := 0, 0
	space.Each(func(id domain.Identity) {
		if g.checker.Exists(id) {
			skipped++
			g.stat.Counter(stats.GeneratorJobsSkippedCounter).Inc(1)
			return
		}
		seq++
		g.queue.Push(domain.NewJob(seq, id))
		g.stat.Counter(stats.GeneratorJobsEnqueuedCounter).Inc(1)
		if seq%g.milestone == 0 {
			log.WithFields(log.Fields{"queued": seq, "skipped": skipped, "queueSize": g.queue.Len()}).Info("Generating job queue")
		}
	})
	log.WithFields(log.Fields{"queued": seq, "skipped": skipped, "queueSize": g.queue.Len()}).Info("Generated job queue")
	return seq
}
