package local

import (
	"github.com/hongyusu/random-spanning-tree-approximation/cloud/cluster"
	"github.com/hongyusu/random-spanning-tree-approximation/common"
	"github.com/hongyusu/random-spanning-tree-approximation/common/os/exec"
)

// ClusterLocalConfig configures discovery through a local command, ex:
//
//	{"Type": "command", "Command": ["get_free_nodes"], "NodePattern": "^(ukko\\d+)"}
//
// Retries defaults to common.DefaultDiscoveryRetries; a negative value disables retries.
type ClusterLocalConfig struct {
	Type        string
	Command     []string
	NodePattern string
	Retries     int
}

func (c *ClusterLocalConfig) Create() (cluster.Fetcher, error) {
	retries := c.Retries
	if retries == 0 {
		retries = common.DefaultDiscoveryRetries
	} else if retries < 0 {
		retries = 0
	}
	return MakeFetcher(exec.NewOsExec(), c.Command, c.NodePattern, retries)
}
