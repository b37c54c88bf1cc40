// Package remote starts the solver for a job on a compute node.
package remote

//go:generate mockgen -source=launcher.go -package=remote -destination=launcher_mock.go

import (
	"context"

	"github.com/hongyusu/random-spanning-tree-approximation/cloud/cluster"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/domain"
)

// Launcher starts a detached remote computation for job on node. It returns
// once the command has been issued, long before the computation ends. An
// error means the job was not launched, or may not have been.
type Launcher interface {
	Launch(ctx context.Context, node cluster.NodeId, job domain.Job) error
}
