package network

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qusimlab/qusim/internal/qsim/entangle"
	"github.com/qusimlab/qusim/internal/qsim/gene"
	"github.com/qusimlab/qusim/internal/qsim/quantum"
)

// NodeStatus represents the lifecycle state of a network node
type NodeStatus string

const (
	NodeActive    NodeStatus = "active"
	NodeSuspended NodeStatus = "suspended"
	NodeClosed    NodeStatus = "closed"
)

// Node is one participant occupying a fabric qubit
type Node struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Qubit    int        `json:"qubit"`
	Status   NodeStatus `json:"status"`
	Profile  *gene.Gene `json:"-"`
	JoinedAt time.Time  `json:"joined_at"`
}

// Network hosts nodes on a shared register fabric and tracks their
// entanglement links
type Network struct {
	fabric  *quantum.Register
	graph   *entangle.Graph
	channel Channel

	nodes   map[uuid.UUID]*Node
	byName  map[string]uuid.UUID
	byQubit map[int]uuid.UUID
	mu      sync.RWMutex

	capacity int
	src      quantum.Source
}

// Topology is a point-in-time view of the network
type Topology struct {
	Capacity int             `json:"capacity"`
	Channel  string          `json:"channel"`
	Nodes    []Node          `json:"nodes"`
	Links    []entangle.Link `json:"links"`
}

// Custom errors
type NetworkError struct {
	Message string
}

func (e *NetworkError) Error() string {
	return e.Message
}

var (
	ErrInvalidCapacity = &NetworkError{"capacity must be between 1 and 24"}
	ErrNetworkFull     = &NetworkError{"no free fabric qubit"}
	ErrDuplicateName   = &NetworkError{"node name already in use"}
	ErrNodeNotFound    = &NetworkError{"node not found"}
	ErrNodeSuspended   = &NetworkError{"node is not active"}
	ErrSameNode        = &NetworkError{"cannot connect a node to itself"}
	ErrLinkNotFound    = &NetworkError{"no link between the nodes"}
	ErrBadTopology     = &NetworkError{"invalid topology file"}
)

// NewNetwork creates a network with the given fabric capacity
func NewNetwork(capacity int, channel Channel) (*Network, error) {
	fabric := quantum.NewRegister(capacity)
	if fabric == nil {
		return nil, ErrInvalidCapacity
	}

	if channel == nil {
		channel = PerfectChannel{}
	}

	return &Network{
		fabric:   fabric,
		graph:    entangle.NewGraph(),
		channel:  channel,
		nodes:    make(map[uuid.UUID]*Node),
		byName:   make(map[string]uuid.UUID),
		byQubit:  make(map[int]uuid.UUID),
		capacity: capacity,
	}, nil
}

// SetRandomSource injects the randomness used by the fabric and the
// fidelity estimator
func (n *Network) SetRandomSource(src quantum.Source) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.src = src
	n.fabric.SetRandomSource(src)
}

// Capacity returns the number of fabric qubits
func (n *Network) Capacity() int {
	return n.capacity
}

// Channel returns the transmission medium
func (n *Network) Channel() Channel {
	return n.channel
}

// Join attaches a node to the lowest free fabric qubit. The profile is
// optional.
func (n *Network) Join(name string, profile *gene.Gene) (*Node, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, taken := n.byName[name]; taken {
		return nil, ErrDuplicateName
	}

	qubit := -1
	for q := 0; q < n.capacity; q++ {
		if _, used := n.byQubit[q]; !used {
			qubit = q
			break
		}
	}
	if qubit < 0 {
		return nil, ErrNetworkFull
	}

	node := &Node{
		ID:       uuid.New(),
		Name:     name,
		Qubit:    qubit,
		Status:   NodeActive,
		Profile:  profile,
		JoinedAt: time.Now(),
	}

	n.nodes[node.ID] = node
	n.byName[name] = node.ID
	n.byQubit[qubit] = node.ID

	return node, nil
}

// Leave detaches a node and drops its links. The departing qubit is
// measured so the slot holds a definite value for the next joiner.
func (n *Network) Leave(nodeID uuid.UUID) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	node, exists := n.nodes[nodeID]
	if !exists {
		return ErrNodeNotFound
	}

	n.fabric.Measure(node.Qubit)
	for _, link := range n.graph.Touching(node.Qubit) {
		n.graph.Remove(link.A, link.B)
	}

	delete(n.nodes, nodeID)
	delete(n.byName, node.Name)
	delete(n.byQubit, node.Qubit)
	node.Status = NodeClosed

	return nil
}

// Suspend pauses a node without freeing its qubit
func (n *Network) Suspend(nodeID uuid.UUID) error {
	return n.setStatus(nodeID, NodeSuspended)
}

// Resume reactivates a suspended node
func (n *Network) Resume(nodeID uuid.UUID) error {
	return n.setStatus(nodeID, NodeActive)
}

func (n *Network) setStatus(nodeID uuid.UUID, status NodeStatus) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	node, exists := n.nodes[nodeID]
	if !exists {
		return ErrNodeNotFound
	}

	node.Status = status

	return nil
}

// Node returns the node with the given ID
func (n *Network) Node(nodeID uuid.UUID) (*Node, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	node, exists := n.nodes[nodeID]
	if !exists {
		return nil, ErrNodeNotFound
	}

	return node, nil
}

// NodeByName returns the node with the given name
func (n *Network) NodeByName(name string) (*Node, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	nodeID, exists := n.byName[name]
	if !exists {
		return nil, ErrNodeNotFound
	}

	return n.nodes[nodeID], nil
}

// Connect entangles two nodes' fabric qubits and records the link
// strength that survives the channel
func (n *Network) Connect(a, b uuid.UUID) (*entangle.Link, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.connectLocked(a, b)
}

func (n *Network) connectLocked(a, b uuid.UUID) (*entangle.Link, error) {
	if a == b {
		return nil, ErrSameNode
	}

	nodeA, exists := n.nodes[a]
	if !exists {
		return nil, ErrNodeNotFound
	}

	nodeB, exists := n.nodes[b]
	if !exists {
		return nil, ErrNodeNotFound
	}

	if nodeA.Status != NodeActive || nodeB.Status != NodeActive {
		return nil, ErrNodeSuspended
	}

	n.fabric.ApplyHadamard(nodeA.Qubit)
	n.fabric.ApplyCNOT(nodeA.Qubit, nodeB.Qubit)

	strength := n.fabric.Entanglement(nodeA.Qubit, nodeB.Qubit)
	strength = n.channel.Degrade(strength)

	n.graph.Add(nodeA.Qubit, nodeB.Qubit, strength)

	return n.graph.Find(nodeA.Qubit, nodeB.Qubit), nil
}

// Disconnect removes the link between two nodes
func (n *Network) Disconnect(a, b uuid.UUID) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	nodeA, exists := n.nodes[a]
	if !exists {
		return ErrNodeNotFound
	}

	nodeB, exists := n.nodes[b]
	if !exists {
		return ErrNodeNotFound
	}

	if n.graph.Find(nodeA.Qubit, nodeB.Qubit) == nil {
		return ErrLinkNotFound
	}

	n.graph.Remove(nodeA.Qubit, nodeB.Qubit)

	return nil
}

// Measure collapses a node's fabric qubit and propagates the collapse
// along its links
func (n *Network) Measure(nodeID uuid.UUID) (int, float64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	node, exists := n.nodes[nodeID]
	if !exists {
		return -1, 0, ErrNodeNotFound
	}

	if node.Status != NodeActive {
		return -1, 0, ErrNodeSuspended
	}

	outcome, probability := n.fabric.Measure(node.Qubit)
	entangle.Propagate(n.graph, n.fabric, node.Qubit)

	return outcome, probability, nil
}

// OptimizeTopology prunes links weaker than min, then reconnects active
// nodes the pruning left isolated. Returns the pruned and reconnected
// counts.
func (n *Network) OptimizeTopology(min float64) (pruned, reconnected int) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, link := range n.graph.Links() {
		if link.Strength < min {
			n.graph.Remove(link.A, link.B)
			pruned++
		}
	}

	active := make([]*Node, 0, len(n.nodes))
	for _, node := range n.nodes {
		if node.Status == NodeActive {
			active = append(active, node)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].Qubit < active[j].Qubit
	})

	if len(active) < 2 {
		return pruned, reconnected
	}

	for _, node := range active {
		if len(n.graph.Touching(node.Qubit)) > 0 {
			continue
		}

		// Attach the isolated node to the least connected active peer.
		var partner *Node
		for _, candidate := range active {
			if candidate == node {
				continue
			}
			if partner == nil || len(n.graph.Touching(candidate.Qubit)) < len(n.graph.Touching(partner.Qubit)) {
				partner = candidate
			}
		}

		if _, err := n.connectLocked(node.ID, partner.ID); err == nil {
			reconnected++
		}
	}

	return pruned, reconnected
}

// Topology returns a sorted copy of the node table and link set
func (n *Network) Topology() Topology {
	n.mu.RLock()
	defer n.mu.RUnlock()

	snapshot := Topology{
		Capacity: n.capacity,
		Channel:  n.channel.Name(),
		Nodes:    make([]Node, 0, len(n.nodes)),
		Links:    make([]entangle.Link, 0, n.graph.Count()),
	}

	for _, node := range n.nodes {
		snapshot.Nodes = append(snapshot.Nodes, *node)
	}
	sort.Slice(snapshot.Nodes, func(i, j int) bool {
		return snapshot.Nodes[i].Qubit < snapshot.Nodes[j].Qubit
	})

	for _, link := range n.graph.Links() {
		snapshot.Links = append(snapshot.Links, *link)
	}
	sort.Slice(snapshot.Links, func(i, j int) bool {
		if snapshot.Links[i].A != snapshot.Links[j].A {
			return snapshot.Links[i].A < snapshot.Links[j].A
		}
		return snapshot.Links[i].B < snapshot.Links[j].B
	})

	return snapshot
}

// EstimateFidelity estimates Bell-pair fidelity between two nodes over
// the channel. Each trial prepares a fresh pair, measures both halves,
// and flips the transmitted half with probability 1 - quality.
func (n *Network) EstimateFidelity(a, b uuid.UUID, trials int) (float64, error) {
	n.mu.RLock()
	_, okA := n.nodes[a]
	_, okB := n.nodes[b]
	src := n.src
	quality := n.channel.Quality()
	n.mu.RUnlock()

	if !okA || !okB {
		return 0, ErrNodeNotFound
	}
	if a == b {
		return 0, ErrSameNode
	}

	if trials < 1 {
		trials = 100
	}
	if src == nil {
		src = quantum.DefaultSource()
	}

	flipProbability := 1 - quality
	matches := 0

	for trial := 0; trial < trials; trial++ {
		pair := quantum.NewRegister(2)
		pair.SetRandomSource(src)
		pair.ApplyHadamard(0)
		pair.ApplyCNOT(0, 1)

		sent, _ := pair.Measure(0)
		received, _ := pair.Measure(1)

		if src.Float64() < flipProbability {
			received ^= 1
		}

		if sent == received {
			matches++
		}
	}

	return float64(matches) / float64(trials), nil
}
