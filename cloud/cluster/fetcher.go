package cluster

// Fetcher returns the ordered list of nodes currently considered free.
// A sweep calls Fetch once, before starting its workers.
type Fetcher interface {
	Fetch() ([]Node, error)
}

// StaticFetcher always returns the same nodes, in the given order.
func StaticFetcher(ids ...string) Fetcher {
	nodes := make([]Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, NewIdNode(id))
	}
	return &staticFetcher{nodes: nodes}
}

type staticFetcher struct {
	nodes []Node
}

func (f *staticFetcher) Fetch() ([]Node, error) {
	return append([]Node(nil), f.nodes...), nil
}

// Dedup drops repeated node ids, keeping the first occurrence. Discovery
// scripts sometimes list a host once per free slot; a sweep wants one worker
// per host.
func Dedup(nodes []Node) []Node {
	seen := make(map[NodeId]bool, len(nodes))
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if seen[n.Id()] {
			continue
		}
		seen[n.Id()] = true
		out = append(out, n)
	}
	return out
}
