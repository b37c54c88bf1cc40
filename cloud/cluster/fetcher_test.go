package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticFetcherKeepsOrder(t *testing.T) {
	f := StaticFetcher("ukko3", "ukko1", "ukko2")
	nodes, err := f.Fetch()
	assert.NoError(t, err)
	assert.Equal(t, []NodeId{"ukko3", "ukko1", "ukko2"}, Ids(nodes))

	// callers can't mutate the fetcher's list
	nodes[0] = NewIdNode("other")
	again, _ := f.Fetch()
	assert.Equal(t, NodeId("ukko3"), again[0].Id())
}

func TestStaticFetcherEmpty(t *testing.T) {
	nodes, err := StaticFetcher().Fetch()
	assert.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestDedup(t *testing.T) {
	nodes := []Node{NewIdNode("a"), NewIdStatusNode("b", "load=0.1"), NewIdNode("a"), NewIdNode("c")}
	deduped := Dedup(nodes)
	assert.Equal(t, []NodeId{"a", "b", "c"}, Ids(deduped))
	assert.Equal(t, "load=0.1", deduped[1].Status())
}
