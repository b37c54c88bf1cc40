package jsonconfig_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongyusu/random-spanning-tree-approximation/config/jsonconfig"
)

type staticConfig struct {
	Type  string
	Nodes []string
}

type commandConfig struct {
	Type    string
	Command []string
}

type sshConfig struct {
	Type string
	User string
	Port int
}

type shellConfig struct {
	Type    string
	Options []string
}

const (
	defaultConfig = `{
 "Cluster": {
  "Type": "static",
  "Nodes": [
   "localhost"
  ]
 },
 "Remote": {
  "Type": "ssh",
  "User": "",
  "Port": 22
 }
}`
	config1 = `{
 "Cluster": {
  "Type": "command",
  "Command": [
   "get_free_nodes",
   "-n"
  ]
 },
 "Remote": {
  "Type": "shell",
  "Options": [
   "-o",
   "BatchMode=yes"
  ]
 }
}`
	config2 = `{
 "Cluster": {"Type": "command", "Command": ["get_free_nodes", "-n"]},
 "Remote": {"Type": "shell", "Options": ["-o", "BatchMode=yes"]},
 "Worker": {"PauseSec": 10}
}`
)

func schema() jsonconfig.Schema {
	return jsonconfig.Schema{
		"Cluster": {
			"static":  &staticConfig{},
			"command": &commandConfig{},
			"":        &staticConfig{Type: "static", Nodes: []string{"localhost"}},
		},
		"Remote": {
			"ssh":   &sshConfig{},
			"shell": &shellConfig{},
			"":      &sshConfig{Type: "ssh", Port: 22},
		},
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input  string
		output string
	}{
		{defaultConfig, defaultConfig},
		{"", defaultConfig},
		{"{}", defaultConfig},
		{config1, config1},
		{config2, config1},
	}
	for _, test := range tests {
		m, err := schema().Parse([]byte(test.input))
		require.NoError(t, err, test.input)
		bytes, err := json.MarshalIndent(&m, "", " ")
		require.NoError(t, err)
		assert.Equal(t, test.output, string(bytes))
	}
}

func TestParseErrors(t *testing.T) {
	_, err := schema().Parse([]byte(`{"Cluster": {"Type": "slurm"}}`))
	assert.Error(t, err)
	_, err = schema().Parse([]byte(`{"Cluster": {"Type": 3}}`))
	assert.Error(t, err)
	_, err = schema().Parse([]byte(`{"Cluster": `))
	assert.Error(t, err)
	_, err = schema().Parse([]byte(`{"Remote": {"Type": "ssh", "Port": "22"}}`))
	assert.Error(t, err)
}

func TestGetConfigText(t *testing.T) {
	assets := func(name string) ([]byte, error) {
		if name == "config/default.json" {
			return []byte(`{"asset": true}`), nil
		}
		return nil, errors.New("not found")
	}

	text, err := jsonconfig.GetConfigText("default.json", assets)
	require.NoError(t, err)
	assert.Equal(t, `{"asset": true}`, string(text))

	path := filepath.Join(t.TempDir(), "sweep.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"file": true}`), 0644))
	text, err = jsonconfig.GetConfigText(path, assets)
	require.NoError(t, err)
	assert.Equal(t, `{"file": true}`, string(text))

	text, err = jsonconfig.GetConfigText(`{"literal": true}`, assets)
	require.NoError(t, err)
	assert.Equal(t, `{"literal": true}`, string(text))

	_, err = jsonconfig.GetConfigText("missing.json", assets)
	assert.Error(t, err)
}
