// Package sweepconfig is the typed configuration of a sweep run, read from
// JSON and turned into the components of the run.
package sweepconfig

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/hongyusu/random-spanning-tree-approximation/cloud/cluster"
	"github.com/hongyusu/random-spanning-tree-approximation/config/jsonconfig"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/artifacts"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/generator"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/remote"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/worker"
)

const DefaultConfig = "default.json"

// The parameter domains.
type SweepConfig struct {
	Datasets       []string
	GraphTypes     []string
	SlackCs        []string
	Folds          []int
	Kappas         []string
	LNorms         []string
	Ts             []int
	QueueMilestone int
}

// Where results are looked for.
type ArtifactsConfig struct {
	Primary string
	Legacy  []string
	Suffix  string
}

// Worker pacing.
type WorkerConfig struct {
	JitterMinMs    int
	JitterMaxMs    int
	PenaltyUnitSec int
	PauseSec       int
	StaggerSec     int
}

type Config struct {
	Sweep     SweepConfig
	Artifacts ArtifactsConfig
	Worker    WorkerConfig
	Cluster   FetcherConfig
	Remote    LauncherConfig
}

// plain holds the sections without a "Type" discriminator.
type plain struct {
	Sweep     SweepConfig
	Artifacts ArtifactsConfig
	Worker    WorkerConfig
}

// Load reads the built-in defaults, overlays text on top of them and
// validates the result. Sections of text replace default sections field by
// field; Cluster and Remote are replaced whole.
func Load(text []byte) (*Config, error) {
	defaults, err := Asset("config/" + DefaultConfig)
	if err != nil {
		return nil, errors.Wrap(err, "reading built-in defaults")
	}
	var p plain
	if err := json.Unmarshal(defaults, &p); err != nil {
		return nil, errors.Wrap(err, "parsing built-in defaults")
	}
	if len(text) > 0 {
		if err := json.Unmarshal(text, &p); err != nil {
			return nil, errors.Wrap(err, "parsing config")
		}
	}

	implText, err := overlayImpls(defaults, text)
	if err != nil {
		return nil, err
	}
	conf, err := schema().Parse(implText)
	if err != nil {
		return nil, err
	}

	c := &Config{
		Sweep:     p.Sweep,
		Artifacts: p.Artifacts,
		Worker:    p.Worker,
		Cluster:   conf["Cluster"].(FetcherConfig),
		Remote:    conf["Remote"].(LauncherConfig),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFlag resolves a --config value (asset name, file or literal JSON) and loads it.
func LoadFlag(configFlag string) (*Config, error) {
	if configFlag == "" {
		configFlag = DefaultConfig
	}
	text, err := jsonconfig.GetConfigText(configFlag, Asset)
	if err != nil {
		return nil, err
	}
	return Load(text)
}

// overlayImpls returns the Cluster and Remote sections of defaults, each
// replaced by the one in text if text has it.
func overlayImpls(defaults, text []byte) ([]byte, error) {
	var base, top map[string]json.RawMessage
	if err := json.Unmarshal(defaults, &base); err != nil {
		return nil, errors.Wrap(err, "parsing built-in defaults")
	}
	if len(text) > 0 {
		if err := json.Unmarshal(text, &top); err != nil {
			return nil, errors.Wrap(err, "parsing config")
		}
	}
	merged := map[string]json.RawMessage{}
	for _, section := range []string{"Cluster", "Remote"} {
		if raw, ok := top[section]; ok {
			merged[section] = raw
		} else if raw, ok := base[section]; ok {
			merged[section] = raw
		}
	}
	return json.Marshal(merged)
}

func (c *Config) Validate() error {
	s := c.Sweep
	for _, d := range []struct {
		name string
		n    int
	}{
		{"SlackCs", len(s.SlackCs)},
		{"Folds", len(s.Folds)},
		{"Datasets", len(s.Datasets)},
		{"GraphTypes", len(s.GraphTypes)},
		{"Kappas", len(s.Kappas)},
		{"LNorms", len(s.LNorms)},
		{"Ts", len(s.Ts)},
	} {
		if d.n == 0 {
			return errors.Errorf("Sweep.%s is empty", d.name)
		}
	}
	if c.Artifacts.Primary == "" {
		return errors.New("Artifacts.Primary is empty")
	}
	w := c.Worker
	if w.JitterMinMs < 0 || w.PenaltyUnitSec < 0 || w.PauseSec < 0 || w.StaggerSec < 0 {
		return errors.New("Worker durations must not be negative")
	}
	if w.JitterMaxMs < w.JitterMinMs {
		return errors.Errorf("Worker.JitterMaxMs %d is less than JitterMinMs %d", w.JitterMaxMs, w.JitterMinMs)
	}
	return c.validateRemote()
}

func (c *Config) validateRemote() error {
	var cc CommandConfig
	switch r := c.Remote.(type) {
	case *RemoteSSHConfig:
		cc = r.CommandConfig
	case *RemoteShellConfig:
		cc = r.CommandConfig
	}
	if _, err := cc.Builder(); err != nil {
		return errors.Wrap(err, "Remote.CommandTemplate")
	}
	return nil
}

func (c *Config) Space() generator.Space {
	s := c.Sweep
	return generator.Space{
		SlackCs:    s.SlackCs,
		Folds:      s.Folds,
		Datasets:   s.Datasets,
		GraphTypes: s.GraphTypes,
		Kappas:     s.Kappas,
		LNorms:     s.LNorms,
		Ts:         s.Ts,
	}
}

func (c *Config) Backoff() worker.BackoffConfig {
	return worker.BackoffConfig{
		JitterMin:   time.Duration(c.Worker.JitterMinMs) * time.Millisecond,
		JitterMax:   time.Duration(c.Worker.JitterMaxMs) * time.Millisecond,
		PenaltyUnit: time.Duration(c.Worker.PenaltyUnitSec) * time.Second,
	}
}

func (c *Config) Pause() time.Duration {
	return time.Duration(c.Worker.PauseSec) * time.Second
}

func (c *Config) Stagger() time.Duration {
	return time.Duration(c.Worker.StaggerSec) * time.Second
}

func (c *Config) Checker() *artifacts.DirChecker {
	return artifacts.NewDirChecker(c.Artifacts.Primary, c.Artifacts.Legacy, c.Artifacts.Suffix)
}

func (c *Config) Fetcher() (cluster.Fetcher, error) {
	f, err := c.Cluster.Create()
	return f, errors.Wrap(err, "creating node fetcher")
}

func (c *Config) Launcher() (remote.Launcher, error) {
	l, err := c.Remote.Create()
	return l, errors.Wrap(err, "creating launcher")
}
