package network

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/qusimlab/qusim/internal/qsim/gene"
	"github.com/qusimlab/qusim/internal/qsim/quantum"
)

func newTestNetwork(t *testing.T, capacity int) *Network {
	t.Helper()

	n, err := NewNetwork(capacity, PerfectChannel{})
	if err != nil {
		t.Fatalf("NewNetwork failed: %v", err)
	}
	n.SetRandomSource(quantum.NewSeededSource(42))

	return n
}

func join(t *testing.T, n *Network, name string) *Node {
	t.Helper()

	node, err := n.Join(name, nil)
	if err != nil {
		t.Fatalf("Join(%s) failed: %v", name, err)
	}

	return node
}

func TestNewNetworkRejectsBadCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, 25} {
		if _, err := NewNetwork(capacity, nil); err != ErrInvalidCapacity {
			t.Errorf("NewNetwork(%d) error = %v, want ErrInvalidCapacity", capacity, err)
		}
	}
}

func TestJoinAssignsLowestFreeQubit(t *testing.T) {
	n := newTestNetwork(t, 3)

	alice := join(t, n, "alice")
	bob := join(t, n, "bob")

	if alice.Qubit != 0 || bob.Qubit != 1 {
		t.Errorf("qubits = %d, %d, want 0, 1", alice.Qubit, bob.Qubit)
	}
	if alice.Status != NodeActive {
		t.Errorf("status = %q, want %q", alice.Status, NodeActive)
	}
}

func TestJoinRejectsDuplicateNames(t *testing.T) {
	n := newTestNetwork(t, 2)
	join(t, n, "alice")

	if _, err := n.Join("alice", nil); err != ErrDuplicateName {
		t.Errorf("duplicate join error = %v, want ErrDuplicateName", err)
	}
}

func TestJoinFullNetwork(t *testing.T) {
	n := newTestNetwork(t, 1)
	join(t, n, "alice")

	if _, err := n.Join("bob", nil); err != ErrNetworkFull {
		t.Errorf("join on full network error = %v, want ErrNetworkFull", err)
	}
}

func TestLeaveFreesSlotAndLinks(t *testing.T) {
	n := newTestNetwork(t, 2)
	alice := join(t, n, "alice")
	bob := join(t, n, "bob")

	if _, err := n.Connect(alice.ID, bob.ID); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if err := n.Leave(alice.ID); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}

	if _, err := n.Node(alice.ID); err != ErrNodeNotFound {
		t.Errorf("departed node lookup error = %v, want ErrNodeNotFound", err)
	}
	if got := n.Topology(); len(got.Links) != 0 {
		t.Errorf("links after leave = %d, want 0", len(got.Links))
	}

	// The freed qubit goes to the next joiner.
	carol := join(t, n, "carol")
	if carol.Qubit != 0 {
		t.Errorf("reused qubit = %d, want 0", carol.Qubit)
	}
}

func TestSuspendBlocksOperations(t *testing.T) {
	n := newTestNetwork(t, 2)
	alice := join(t, n, "alice")
	bob := join(t, n, "bob")

	if err := n.Suspend(alice.ID); err != nil {
		t.Fatalf("Suspend failed: %v", err)
	}

	if _, err := n.Connect(alice.ID, bob.ID); err != ErrNodeSuspended {
		t.Errorf("connect with suspended node error = %v, want ErrNodeSuspended", err)
	}
	if _, _, err := n.Measure(alice.ID); err != ErrNodeSuspended {
		t.Errorf("measure of suspended node error = %v, want ErrNodeSuspended", err)
	}

	if err := n.Resume(alice.ID); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if _, err := n.Connect(alice.ID, bob.ID); err != nil {
		t.Errorf("connect after resume failed: %v", err)
	}
}

func TestConnectRecordsFullStrengthOnPerfectChannel(t *testing.T) {
	n := newTestNetwork(t, 2)
	alice := join(t, n, "alice")
	bob := join(t, n, "bob")

	link, err := n.Connect(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	// A fresh pair becomes a Bell pair, and the perfect channel keeps
	// the whole metric.
	if math.Abs(link.Strength-1) > 1e-9 {
		t.Errorf("link strength = %v, want 1", link.Strength)
	}
	if link.A != 0 || link.B != 1 {
		t.Errorf("link endpoints = (%d, %d), want (0, 1)", link.A, link.B)
	}
}

func TestConnectThroughFiberDegradesStrength(t *testing.T) {
	n, err := NewNetwork(2, NewFiberChannel(10))
	if err != nil {
		t.Fatalf("NewNetwork failed: %v", err)
	}
	n.SetRandomSource(quantum.NewSeededSource(42))

	alice := join(t, n, "alice")
	bob := join(t, n, "bob")

	link, err := n.Connect(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	want := math.Exp(-0.02 * 10)
	if math.Abs(link.Strength-want) > 1e-6 {
		t.Errorf("link strength = %v, want %v", link.Strength, want)
	}
}

func TestConnectValidation(t *testing.T) {
	n := newTestNetwork(t, 2)
	alice := join(t, n, "alice")

	if _, err := n.Connect(alice.ID, alice.ID); err != ErrSameNode {
		t.Errorf("self connect error = %v, want ErrSameNode", err)
	}
	if _, err := n.Connect(alice.ID, uuid.New()); err != ErrNodeNotFound {
		t.Errorf("unknown peer error = %v, want ErrNodeNotFound", err)
	}
}

func TestDisconnect(t *testing.T) {
	n := newTestNetwork(t, 2)
	alice := join(t, n, "alice")
	bob := join(t, n, "bob")

	n.Connect(alice.ID, bob.ID)

	if err := n.Disconnect(alice.ID, bob.ID); err != nil {
		t.Fatalf("Disconnect failed: %v", err)
	}
	if err := n.Disconnect(alice.ID, bob.ID); err != ErrLinkNotFound {
		t.Errorf("second disconnect error = %v, want ErrLinkNotFound", err)
	}
}

func TestMeasurePropagatesOverStrongLink(t *testing.T) {
	n := newTestNetwork(t, 2)
	alice := join(t, n, "alice")
	bob := join(t, n, "bob")

	n.Connect(alice.ID, bob.ID)

	outcome, probability, err := n.Measure(alice.ID)
	if err != nil {
		t.Fatalf("Measure failed: %v", err)
	}
	if outcome != 0 && outcome != 1 {
		t.Fatalf("outcome = %d", outcome)
	}
	if math.Abs(probability-0.5) > 1e-9 {
		t.Errorf("probability = %v, want 0.5", probability)
	}

	// The Bell pair collapses to matching bits, then the full-strength
	// link forwards the collapse as CNOT(alice, bob), cancelling bob's
	// bit either way. Bob is therefore deterministically |0⟩.
	partnerOutcome, partnerProbability, err := n.Measure(bob.ID)
	if err != nil {
		t.Fatalf("Measure(bob) failed: %v", err)
	}
	if partnerOutcome != 0 {
		t.Errorf("partner outcome = %d, want 0", partnerOutcome)
	}
	if math.Abs(partnerProbability-1) > 1e-9 {
		t.Errorf("partner probability = %v, want 1", partnerProbability)
	}
}

func TestOptimizeTopologyPrunesAndReconnects(t *testing.T) {
	n := newTestNetwork(t, 3)
	join(t, n, "alice")
	join(t, n, "bob")
	join(t, n, "carol")

	n.graph.Add(0, 1, 0.1)
	n.graph.Add(1, 2, 0.9)

	pruned, reconnected := n.OptimizeTopology(0.3)
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}
	if reconnected != 1 {
		t.Errorf("reconnected = %d, want 1", reconnected)
	}

	topology := n.Topology()
	if len(topology.Links) != 2 {
		t.Fatalf("link count = %d, want 2", len(topology.Links))
	}
	if topology.Links[0].A != 0 || topology.Links[0].B != 1 {
		t.Errorf("reconnected link endpoints = (%d, %d), want (0, 1)",
			topology.Links[0].A, topology.Links[0].B)
	}
	if topology.Links[0].Strength < 0.3 {
		t.Errorf("reconnected strength = %v, want a fresh strong link", topology.Links[0].Strength)
	}
}

func TestOptimizeTopologySkipsSuspendedNodes(t *testing.T) {
	n := newTestNetwork(t, 2)
	alice := join(t, n, "alice")
	join(t, n, "bob")

	n.Suspend(alice.ID)

	if _, reconnected := n.OptimizeTopology(0.5); reconnected != 0 {
		t.Errorf("reconnected = %d, want 0 with one active node", reconnected)
	}
}

func TestTopologySnapshotIsSorted(t *testing.T) {
	n := newTestNetwork(t, 3)
	join(t, n, "alice")
	join(t, n, "bob")
	join(t, n, "carol")

	n.graph.Add(2, 0, 0.4)
	n.graph.Add(1, 0, 0.6)

	topology := n.Topology()
	if topology.Capacity != 3 || topology.Channel != "perfect" {
		t.Errorf("topology header = %+v", topology)
	}

	for i := 1; i < len(topology.Nodes); i++ {
		if topology.Nodes[i-1].Qubit > topology.Nodes[i].Qubit {
			t.Fatal("nodes are not sorted by qubit")
		}
	}
	if topology.Links[0].B != 1 || topology.Links[1].B != 2 {
		t.Errorf("links = %+v, want sorted by endpoints", topology.Links)
	}
}

func TestEstimateFidelityPerfectChannel(t *testing.T) {
	n := newTestNetwork(t, 2)
	alice := join(t, n, "alice")
	bob := join(t, n, "bob")

	fidelity, err := n.EstimateFidelity(alice.ID, bob.ID, 500)
	if err != nil {
		t.Fatalf("EstimateFidelity failed: %v", err)
	}
	if fidelity != 1 {
		t.Errorf("fidelity = %v, want exactly 1 on a perfect channel", fidelity)
	}
}

func TestEstimateFidelityNoisyChannel(t *testing.T) {
	src := quantum.NewSeededSource(7)
	n, err := NewNetwork(2, NoisyChannel{Base: 0.8, Src: src})
	if err != nil {
		t.Fatalf("NewNetwork failed: %v", err)
	}
	n.SetRandomSource(src)

	alice := join(t, n, "alice")
	bob := join(t, n, "bob")

	trials := 2000
	fidelity, err := n.EstimateFidelity(alice.ID, bob.ID, trials)
	if err != nil {
		t.Fatalf("EstimateFidelity failed: %v", err)
	}

	// Matches happen at the channel quality rate, 0.8.
	if math.Abs(fidelity-0.8) > 0.05 {
		t.Errorf("fidelity = %v, want 0.8 ± 0.05 over %d trials", fidelity, trials)
	}
	t.Logf("estimated fidelity %.4f over %d trials", fidelity, trials)
}

func TestEstimateFidelityValidation(t *testing.T) {
	n := newTestNetwork(t, 2)
	alice := join(t, n, "alice")

	if _, err := n.EstimateFidelity(alice.ID, uuid.New(), 10); err != ErrNodeNotFound {
		t.Errorf("unknown node error = %v, want ErrNodeNotFound", err)
	}
	if _, err := n.EstimateFidelity(alice.ID, alice.ID, 10); err != ErrSameNode {
		t.Errorf("same node error = %v, want ErrSameNode", err)
	}
}

func TestJoinWithProfile(t *testing.T) {
	n := newTestNetwork(t, 1)

	profile := gene.NewGene("alice", 0, 0)
	profile.AddTrait("resilience")

	node, err := n.Join("alice", profile)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if node.Profile == nil || len(node.Profile.TraitNames()) != 1 {
		t.Error("profile was not attached")
	}
}
