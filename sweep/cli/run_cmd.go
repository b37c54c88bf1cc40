package cli

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hongyusu/random-spanning-tree-approximation/cloud/cluster"
	"github.com/hongyusu/random-spanning-tree-approximation/common"
	"github.com/hongyusu/random-spanning-tree-approximation/common/endpoints"
	"github.com/hongyusu/random-spanning-tree-approximation/common/errors"
	"github.com/hongyusu/random-spanning-tree-approximation/common/stats"
	"github.com/hongyusu/random-spanning-tree-approximation/config/sweepconfig"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/dispatcher"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/generator"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/queue"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/remote"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/supervisor"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/worker"
)

type runCmd struct {
	httpAddr string
	nodes    string
}

func (c *runCmd) registerFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "run",
		Short: "Queue every configuration without a result and dispatch them to free nodes until the queue is empty",
	}
	r.Flags().StringVar(&c.httpAddr, "http_addr", "", "if set, serve /health and /admin/metrics.json on this address")
	r.Flags().StringVar(&c.nodes, "nodes", "", "comma separated nodes to use instead of node discovery")
	return r
}

func (c *runCmd) run(cl *simpleCLIClient, cmd *cobra.Command, args []string) error {
	conf, err := cl.loadConfig()
	if err != nil {
		return err
	}
	launcher, err := conf.Launcher()
	if err != nil {
		return errors.NewError(err, errors.LauncherFailureExitCode)
	}
	fetcher, err := c.fetcher(conf)
	if err != nil {
		return errors.NewError(err, errors.ConfigFailureExitCode)
	}

	stat := stats.DefaultStatsReceiver().Precision(time.Millisecond).Scope("sweep")
	q := queue.NewJobQueue(stat.Scope("queue"))

	if c.httpAddr != "" {
		server := endpoints.NewTwitterServer(c.httpAddr, stat)
		server.AddJSON("/sweep/queue.json", func() interface{} {
			return map[string]interface{}{"size": q.Len(), "jobs": q.Snapshot()}
		})
		if _, err := server.Listen(); err != nil {
			return errors.NewError(err, errors.EndpointFailureExitCode)
		}
		defer server.Close()
	}

	summary, err := newSupervisor(conf, q, launcher, fetcher, stat).Run(context.Background())
	if err != nil {
		return errors.NewError(err, errors.DiscoveryFailureExitCode)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s: %d jobs queued, %d nodes, %d workers, %d jobs left, %v\n",
		summary.RunID, summary.Enqueued, summary.Nodes, summary.WorkersStarted, q.Len(), summary.Elapsed.Round(time.Second))
	for _, r := range summary.Reports {
		fmt.Fprintf(out, "  %-20s handled=%d alreadyDone=%d dispatched=%d failed=%d penalty=%d\n",
			r.Node, r.Handled, r.AlreadyDone, r.Dispatched, r.Failed, r.Penalty)
	}
	fmt.Fprintf(out, "%s\n", stat.Render(true))
	return nil
}

func (c *runCmd) fetcher(conf *sweepconfig.Config) (cluster.Fetcher, error) {
	if c.nodes != "" {
		return cluster.StaticFetcher(common.SplitCommaSep(c.nodes)...), nil
	}
	return conf.Fetcher()
}

// newSupervisor wires the run's components from conf.
func newSupervisor(
	conf *sweepconfig.Config,
	q *queue.JobQueue,
	launcher remote.Launcher,
	fetcher cluster.Fetcher,
	stat stats.StatsReceiver,
	workerOpts ...worker.Option,
) *supervisor.Supervisor {
	checker := conf.Checker()
	disp := dispatcher.NewDispatcher(checker, launcher, q,
		dispatcher.WithPause(conf.Pause()),
		dispatcher.WithStats(stat.Scope("dispatch")))
	gen := generator.NewGenerator(checker, q, stat.Scope("generator"), conf.Sweep.QueueMilestone)

	log.WithFields(log.Fields{
		"primary": conf.Artifacts.Primary,
		"legacy":  len(conf.Artifacts.Legacy),
		"stagger": conf.Stagger(),
		"pause":   conf.Pause(),
	}).Info("Starting sweep")
	opts := append([]worker.Option{
		worker.WithBackoff(conf.Backoff()),
		worker.WithStats(stat.Scope("worker")),
	}, workerOpts...)
	return supervisor.NewSupervisor(gen, conf.Space(), fetcher, q, disp,
		supervisor.WithStagger(conf.Stagger()),
		supervisor.WithStats(stat.Scope("supervisor")),
		supervisor.WithWorkerOptions(opts...))
}
