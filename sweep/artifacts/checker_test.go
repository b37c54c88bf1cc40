package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongyusu/random-spanning-tree-approximation/sweep/domain"
)

var yeast = domain.Identity{Dataset: "yeast", GraphType: "tree", T: 10, Fold: 2, LNorm: "2", Kappa: "8", SlackC: "0.1"}

func touch(t *testing.T, dir, name string) {
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("done"), 0644))
}

func TestDirChecker(t *testing.T) {
	root := t.TempDir()
	primary := filepath.Join(root, "outputs")
	phase6 := filepath.Join(primary, "phase6")
	phase7 := filepath.Join(primary, "phase7")
	c := NewDirChecker(primary, []string{phase6, phase7}, "")

	assert.Equal(t, "yeast_tree_10_f2_l2_k8_c0.1_RSTAs.log", c.Name(yeast))
	assert.False(t, c.Exists(yeast))
	assert.False(t, c.ExistsPrimary(yeast))

	touch(t, phase7, c.Name(yeast))
	assert.True(t, c.Exists(yeast))
	assert.False(t, c.ExistsPrimary(yeast))

	touch(t, primary, c.Name(yeast))
	assert.True(t, c.ExistsPrimary(yeast))

	other := yeast
	other.Fold = 3
	assert.False(t, c.Exists(other))
}

func TestDirCheckerIgnoresDirectories(t *testing.T) {
	root := t.TempDir()
	c := NewDirChecker(root, nil, ".out")
	require.NoError(t, os.MkdirAll(filepath.Join(root, yeast.Tag()+".out"), 0755))
	assert.False(t, c.Exists(yeast))

	touch(t, root, yeast.Tag()+".log")
	assert.False(t, c.Exists(yeast), "suffix must match")
}

func TestDirCheckerMissingDirs(t *testing.T) {
	c := NewDirChecker("/nonexistent/outputs", []string{"/nonexistent/phase6"}, "")
	assert.False(t, c.Exists(yeast))
}
