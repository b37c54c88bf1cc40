package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hongyusu/random-spanning-tree-approximation/sweep/generator"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/queue"
)

type planCmd struct {
	list bool
}

func (c *planCmd) registerFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "plan",
		Short: "Print how many configurations have no result yet, without dispatching anything",
	}
	r.Flags().BoolVar(&c.list, "list", false, "also print each pending job")
	return r
}

func (c *planCmd) run(cl *simpleCLIClient, cmd *cobra.Command, args []string) error {
	conf, err := cl.loadConfig()
	if err != nil {
		return err
	}
	q := queue.NewJobQueue(nil)
	space := conf.Space()
	n := generator.NewGenerator(conf.Checker(), q, nil, conf.Sweep.QueueMilestone).Generate(space)

	out := cmd.OutOrStdout()
	if c.list {
		for _, job := range q.Snapshot() {
			fmt.Fprintf(out, "%d\t%s\n", job.SequenceID, job.Tag())
		}
	}
	fmt.Fprintf(out, "%d of %d configurations pending\n", n, space.Size())
	return nil
}
