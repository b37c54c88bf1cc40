package sweepconfig

import (
	"net/http"
	"time"

	"github.com/hongyusu/random-spanning-tree-approximation/cloud/cluster"
	"github.com/hongyusu/random-spanning-tree-approximation/cloud/cluster/httpfetch"
	"github.com/hongyusu/random-spanning-tree-approximation/cloud/cluster/local"
	"github.com/hongyusu/random-spanning-tree-approximation/common/os/exec"
	"github.com/hongyusu/random-spanning-tree-approximation/config/jsonconfig"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/remote"
)

// FetcherConfig is implemented by every "Cluster" implementation.
type FetcherConfig interface {
	Create() (cluster.Fetcher, error)
}

// LauncherConfig is implemented by every "Remote" implementation.
type LauncherConfig interface {
	Create() (remote.Launcher, error)
}

// A fixed node list, ex: {"Type": "static", "Nodes": ["ukko001", "ukko002"]}
type ClusterStaticConfig struct {
	Type  string
	Nodes []string
}

func (c *ClusterStaticConfig) Create() (cluster.Fetcher, error) {
	return cluster.StaticFetcher(c.Nodes...), nil
}

// Nodes listed by a monitoring endpoint, ex: {"Type": "http", "URL": "http://monitor/free"}
type ClusterHTTPConfig struct {
	Type  string
	URL   string
	Tries int
}

func (c *ClusterHTTPConfig) Create() (cluster.Fetcher, error) {
	var client httpfetch.Client = http.DefaultClient
	if c.Tries != 1 {
		client = httpfetch.MakePesterClient(c.Tries)
	}
	return httpfetch.MakeFetcher(c.URL, client), nil
}

// Fields shared by both launchers, used to render the remote command.
type CommandConfig struct {
	// text/template over remote.CommandVars; empty means remote.DefaultCommandTemplate.
	CommandTemplate string
	WorkDir         string
	LogDir          string
	FoldMarker      string
}

func (c CommandConfig) Builder() (*remote.CommandBuilder, error) {
	return remote.NewCommandBuilder(c.CommandTemplate, c.WorkDir, c.LogDir, c.FoldMarker)
}

// Launch over the native ssh client.
type RemoteSSHConfig struct {
	Type string
	CommandConfig
	User             string
	Port             int
	KeyFiles         []string
	KnownHosts       []string
	InsecureHostKey  bool
	LaunchTimeoutSec int
}

func (c *RemoteSSHConfig) Create() (remote.Launcher, error) {
	b, err := c.Builder()
	if err != nil {
		return nil, err
	}
	return remote.NewSSHLauncher(remote.SSHConfig{
		User:            c.User,
		Port:            c.Port,
		KeyFiles:        c.KeyFiles,
		KnownHosts:      c.KnownHosts,
		InsecureHostKey: c.InsecureHostKey,
		Timeout:         time.Duration(c.LaunchTimeoutSec) * time.Second,
	}, b)
}

// Launch through the local ssh binary.
type RemoteShellConfig struct {
	Type string
	CommandConfig
	Binary           string
	Options          []string
	LaunchTimeoutSec int
}

func (c *RemoteShellConfig) Create() (remote.Launcher, error) {
	b, err := c.Builder()
	if err != nil {
		return nil, err
	}
	return remote.NewShellLauncher(exec.NewOsExec(), c.Binary, c.Options,
		time.Duration(c.LaunchTimeoutSec)*time.Second, b), nil
}

func schema() jsonconfig.Schema {
	return jsonconfig.Schema{
		"Cluster": {
			"static":  &ClusterStaticConfig{},
			"command": &local.ClusterLocalConfig{},
			"http":    &ClusterHTTPConfig{},
			"":        &ClusterStaticConfig{Type: "static"},
		},
		"Remote": {
			"ssh":   &RemoteSSHConfig{},
			"shell": &RemoteShellConfig{},
			"":      &RemoteShellConfig{Type: "shell"},
		},
	}
}

var (
	_ FetcherConfig  = (*ClusterStaticConfig)(nil)
	_ FetcherConfig  = (*ClusterHTTPConfig)(nil)
	_ FetcherConfig  = (*local.ClusterLocalConfig)(nil)
	_ LauncherConfig = (*RemoteSSHConfig)(nil)
	_ LauncherConfig = (*RemoteShellConfig)(nil)
)
