package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongyusu/random-spanning-tree-approximation/sweep/domain"
)

var scene = domain.NewJob(12, domain.Identity{Dataset: "scene", GraphType: "tree", T: 20, Fold: 4, LNorm: "2", Kappa: "16", SlackC: "0.05"})

func TestDefaultCommand(t *testing.T) {
	b, err := NewCommandBuilder("", "/cs/work/inference_codes/", "", "")
	require.NoError(t, err)

	cmd, err := b.Build(scene)
	require.NoError(t, err)
	assert.Equal(t,
		`cd /cs/work/inference_codes/; rm -rf /var/tmp/.matlab; export OMP_NUM_THREADS=32; `+
			`nohup matlab -nodisplay -r "run_RSTA 'scene' 'tree' '20' '0' '4' '2' '16' '0.05'" `+
			`> /var/tmp/tmp_scene_tree_20_f4_l2_k16_c0.05_RSTAs 2>&1 < /dev/null &`,
		cmd)
}

func TestCustomCommand(t *testing.T) {
	b, err := NewCommandBuilder("run {{.Dataset}} {{.Fold}} {{.FoldMarker}} > {{.LogPath}}", "", "/tmp/logs", "3")
	require.NoError(t, err)
	cmd, err := b.Build(scene)
	require.NoError(t, err)
	assert.Equal(t, "run scene 4 3 > /tmp/logs/tmp_scene_tree_20_f4_l2_k16_c0.05_RSTAs", cmd)
}

func TestBadTemplates(t *testing.T) {
	_, err := NewCommandBuilder("run {{.Dataset", "", "", "")
	assert.Error(t, err)
	_, err = NewCommandBuilder("run {{.NoSuchField}}", "", "", "")
	assert.Error(t, err)
}
