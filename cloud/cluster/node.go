// Package cluster describes the compute nodes a sweep is dispatched to and
// how they are discovered.
package cluster

// NodeId is an opaque remote-execution target, usually a hostname or 'host:port'.
type NodeId string

type Node interface {
	// A unique node identifier, usable as an ssh target.
	Id() NodeId

	// Status info reported by discovery, like load or free slots, depending on the fetcher.
	Status() string
}

type idNode struct {
	id     NodeId
	status string
}

func (n *idNode) String() string {
	return string(n.id)
}

func NewIdNode(id string) Node {
	return &idNode{id: NodeId(id), status: ""}
}

func NewIdStatusNode(id, status string) Node {
	return &idNode{id: NodeId(id), status: status}
}

func (n *idNode) Id() NodeId {
	return n.id
}

func (n *idNode) Status() string {
	return n.status
}

var _ Node = (*idNode)(nil)

// Ids returns the ids of nodes, preserving order.
func Ids(nodes []Node) []NodeId {
	ids := make([]NodeId, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.Id())
	}
	return ids
}
