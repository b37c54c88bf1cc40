package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongyusu/random-spanning-tree-approximation/common/errors"
)

// testConfig runs the "remote" command locally: sh evaluates the rendered
// command, which writes the job's result straight into the primary dir.
func testConfig(t *testing.T) (string, string, string) {
	root := t.TempDir()
	primary := filepath.Join(root, "outputs")
	legacy := filepath.Join(primary, "phase6")
	require.NoError(t, os.MkdirAll(legacy, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(legacy, "toy10_tree_1_f2_l2_k2_c1_RSTAs.log"), nil, 0644))

	conf := fmt.Sprintf(`{
 "Sweep": {"Datasets": ["toy10"], "SlackCs": ["1"], "Folds": [1, 2], "Kappas": ["2"], "Ts": [0, 10]},
 "Artifacts": {"Primary": %q, "Legacy": [%q]},
 "Worker": {"JitterMinMs": 0, "JitterMaxMs": 0, "PenaltyUnitSec": 0, "PauseSec": 0, "StaggerSec": 0},
 "Cluster": {"Type": "static", "Nodes": ["ukko1", "ukko2"]},
 "Remote": {
  "Type": "shell",
  "Binary": "sh",
  "Options": ["-c", "eval \"$2\"", "sh"],
  "WorkDir": %q,
  "CommandTemplate": "touch {{.WorkDir}}/{{.Tag}}_RSTAs.log"
 }
}`, primary, legacy, primary)
	return conf, primary, legacy
}

func execute(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	c := NewSimpleCLIClient()
	c.SetArgs(args)
	c.SetOutput(&out)
	err := c.Exec()
	return out.String(), err
}

func TestPlan(t *testing.T) {
	conf, _, _ := testConfig(t)
	out, err := execute(t, "plan", "--config", conf, "--list")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"1\ttoy10_tree_1_f1_l2_k2_c1",
		"2\ttoy10_tree_10_f1_l2_k2_c1",
		"3\ttoy10_tree_10_f2_l2_k2_c1",
		"3 of 4 configurations pending",
		"",
	}, "\n"), out)
}

func TestNodes(t *testing.T) {
	conf, _, _ := testConfig(t)
	out, err := execute(t, "nodes", "--config", conf)
	require.NoError(t, err)
	assert.Equal(t, "ukko1\nukko2\n", out)
}

func TestRun(t *testing.T) {
	conf, primary, _ := testConfig(t)
	out, err := execute(t, "run", "--config", conf, "--nodes", "localhost", "--log_level", "warn")
	require.NoError(t, err)

	assert.Contains(t, out, "3 jobs queued, 1 nodes, 1 workers, 0 jobs left")
	assert.Contains(t, out, "handled=3 alreadyDone=0 dispatched=3 failed=0 penalty=0")
	assert.Contains(t, out, `"sweep/dispatch/dispatchedCounter": 3`)
	for _, tag := range []string{"toy10_tree_1_f1_l2_k2_c1", "toy10_tree_10_f1_l2_k2_c1", "toy10_tree_10_f2_l2_k2_c1"} {
		assert.FileExists(t, filepath.Join(primary, tag+"_RSTAs.log"))
	}

	out, err = execute(t, "plan", "--config", conf)
	require.NoError(t, err)
	assert.Equal(t, "0 of 4 configurations pending\n", out)
}

func TestExitCodes(t *testing.T) {
	_, err := execute(t, "plan", "--config", `{"Sweep": {"Datasets": []}}`)
	var exitErr *errors.ExitCodeError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, errors.ConfigFailureExitCode, exitErr.GetExitCode())

	_, err = execute(t, "nodes", "--config", `{"Cluster": {"Type": "command", "Command": ["/nonexistent/get_free_nodes"], "Retries": -1}}`)
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, errors.DiscoveryFailureExitCode, exitErr.GetExitCode())

	_, err = execute(t, "plan", "--log_level", "loud")
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, errors.ConfigFailureExitCode, exitErr.GetExitCode())
}
