// Package cli is the command-line surface of the sweep binary.
package cli

import (
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hongyusu/random-spanning-tree-approximation/common/errors"
	"github.com/hongyusu/random-spanning-tree-approximation/config/sweepconfig"
)

// CLIClient runs the sweep commands.
type CLIClient interface {
	Exec() error
	SetArgs(args []string)
	SetOutput(w io.Writer)
}

type simpleCLIClient struct {
	rootCmd *cobra.Command

	configFlag string
	logLevel   string
}

func (c *simpleCLIClient) Exec() error {
	return c.rootCmd.Execute()
}

func (c *simpleCLIClient) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

func (c *simpleCLIClient) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

func NewSimpleCLIClient() CLIClient {
	c := &simpleCLIClient{}
	c.rootCmd = &cobra.Command{
		Use:               "sweep",
		Short:             "sweep dispatches a parameter sweep of the spanning tree solver over free cluster nodes",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setLogLevel,
	}
	c.rootCmd.PersistentFlags().StringVar(&c.configFlag, "config", sweepconfig.DefaultConfig,
		"config asset name, path to a JSON file, or literal JSON")
	c.rootCmd.PersistentFlags().StringVar(&c.logLevel, "log_level", "info", "log everything at this level and above (error|warn|info|debug)")

	c.addCmd(&runCmd{})
	c.addCmd(&planCmd{})
	c.addCmd(&nodesCmd{})
	return c
}

func (c *simpleCLIClient) setLogLevel(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(c.logLevel)
	if err != nil {
		return errors.NewError(err, errors.ConfigFailureExitCode)
	}
	log.SetLevel(level)
	return nil
}

func (c *simpleCLIClient) loadConfig() (*sweepconfig.Config, error) {
	conf, err := sweepconfig.LoadFlag(c.configFlag)
	if err != nil {
		return nil, errors.NewError(err, errors.ConfigFailureExitCode)
	}
	return conf, nil
}

func (c *simpleCLIClient) addCmd(cmd command) {
	cobraCmd := cmd.registerFlags()
	cobraCmd.RunE = func(innerCmd *cobra.Command, args []string) error {
		return cmd.run(c, innerCmd, args)
	}
	c.rootCmd.AddCommand(cobraCmd)
}

type command interface {
	registerFlags() *cobra.Command
	run(cl *simpleCLIClient, cmd *cobra.Command, args []string) error
}
