package remote

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/hongyusu/random-spanning-tree-approximation/cloud/cluster"
	"github.com/hongyusu/random-spanning-tree-approximation/common"
	"github.com/hongyusu/random-spanning-tree-approximation/common/os/exec"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/domain"
)

var DefaultSSHOptions = []string{"-o", "StrictHostKeyChecking=no"}

// ShellLauncher runs the job command through the local ssh binary, so it
// picks up the user's ssh config, agent and ControlMaster settings.
type ShellLauncher struct {
	ex      exec.OsExec
	binary  string
	options []string
	timeout time.Duration
	cmds    *CommandBuilder
}

// NewShellLauncher returns a launcher running '<binary> <options...> <node> <cmd>'.
// Empty values take the defaults: "ssh", DefaultSSHOptions, DefaultLaunchTimeout.
func NewShellLauncher(ex exec.OsExec, binary string, options []string, timeout time.Duration, cmds *CommandBuilder) *ShellLauncher {
	if binary == "" {
		binary = "ssh"
	}
	if options == nil {
		options = DefaultSSHOptions
	}
	if timeout == 0 {
		timeout = common.DefaultLaunchTimeout
	}
	return &ShellLauncher{ex: ex, binary: binary, options: options, timeout: timeout, cmds: cmds}
}

func (l *ShellLauncher) Launch(ctx context.Context, node cluster.NodeId, job domain.Job) error {
	cmd, err := l.cmds.Build(job)
	if err != nil {
		return err
	}
	args := append(append([]string{}, l.options...), string(node), cmd)

	streamLog := log.WithFields(log.Fields{"node": node, "seq": job.SequenceID}).WriterLevel(log.DebugLevel)
	defer streamLog.Close()

	rr := exec.RunKillableCommand(l.ex.Command(l.binary, args...), ctx.Done(), time.Second, streamLog, l.timeout)
	if ctx.Err() != nil {
		return errors.Wrapf(ctx.Err(), "%s %s", l.binary, node)
	}
	if err := rr.Err(); err != nil {
		return errors.Wrapf(err, "%s %s", l.binary, node)
	}
	return nil
}

var _ Launcher = (*ShellLauncher)(nil)
