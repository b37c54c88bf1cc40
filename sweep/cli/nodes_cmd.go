package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hongyusu/random-spanning-tree-approximation/common/errors"
)

type nodesCmd struct{}

func (c *nodesCmd) registerFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "nodes",
		Short: "Print the nodes node discovery currently returns",
	}
}

func (c *nodesCmd) run(cl *simpleCLIClient, cmd *cobra.Command, args []string) error {
	conf, err := cl.loadConfig()
	if err != nil {
		return err
	}
	fetcher, err := conf.Fetcher()
	if err != nil {
		return errors.NewError(err, errors.ConfigFailureExitCode)
	}
	nodes, err := fetcher.Fetch()
	if err != nil {
		return errors.NewError(err, errors.DiscoveryFailureExitCode)
	}
	out := cmd.OutOrStdout()
	for _, n := range nodes {
		if n.Status() != "" {
			fmt.Fprintf(out, "%s\t%s\n", n.Id(), n.Status())
		} else {
			fmt.Fprintf(out, "%s\n", n.Id())
		}
	}
	return nil
}
