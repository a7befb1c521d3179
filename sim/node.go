package sim

import "fmt"

// Node is one server of the pool. It processes at most one task at a time.
type Node struct {
	ID      int
	Current *Task   // task occupying the node; nil when free
	History []*Task // every task ever assigned, in assignment order
}

// Free reports whether the node can accept a task.
func (n *Node) Free() bool {
	return n.Current == nil
}

// assign makes t the node's current task. The node must be free.
func (n *Node) assign(t *Task) {
	if n.Current != nil {
		panic(fmt.Sprintf("assign: node %d is busy with task %d", n.ID, n.Current.ID))
	}
	n.Current = t
	n.History = append(n.History, t)
}

// release frees the node and marks its task completed.
func (n *Node) release() *Task {
	t := n.Current
	if t == nil {
		return nil
	}
	t.State = TaskCompleted
	n.Current = nil
	return t
}

func (n Node) String() string {
	if n.Current == nil {
		return fmt.Sprintf("Node: (ID: %d, free, served: %d)", n.ID, len(n.History))
	}
	return fmt.Sprintf("Node: (ID: %d, busy with %d, served: %d)", n.ID, n.Current.ID, len(n.History))
}

// NodePool owns the nodes of a run, indexed by id. The pool size is fixed.
type NodePool struct {
	nodes []*Node
}

// NewNodePool creates count free nodes with ids 0..count-1.
func NewNodePool(count int) *NodePool {
	nodes := make([]*Node, count)
	for i := range nodes {
		nodes[i] = &Node{ID: i}
	}
	return &NodePool{nodes: nodes}
}

// Len returns the number of nodes.
func (p *NodePool) Len() int {
	return len(p.nodes)
}

// Get returns node id. Panics on an unknown id.
func (p *NodePool) Get(id int) *Node {
	return p.nodes[id]
}

// Nodes returns the pool's nodes in id order.
// Callers within the sim package MUST NOT append to or reslice it.
func (p *NodePool) Nodes() []*Node {
	return p.nodes
}

// FreeNodes returns the free nodes in ascending id order.
func (p *NodePool) FreeNodes() []*Node {
	free := make([]*Node, 0, len(p.nodes))
	for _, n := range p.nodes {
		if n.Free() {
			free = append(free, n)
		}
	}
	return free
}

// AllFree reports whether no node is processing a task.
func (p *NodePool) AllFree() bool {
	for _, n := range p.nodes {
		if !n.Free() {
			return false
		}
	}
	return true
}
