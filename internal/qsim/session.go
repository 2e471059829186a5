package qsim

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qusimlab/qusim/internal/models/sim"
	"github.com/qusimlab/qusim/internal/qsim/entangle"
	"github.com/qusimlab/qusim/internal/qsim/quantum"
	"github.com/qusimlab/qusim/internal/qsim/trace"
)

// Manager owns the live simulation sessions and serializes access to
// their registers and entanglement graphs
type Manager struct {
	sessions  map[uuid.UUID]*sim.SimulationSession
	registers map[uuid.UUID]*registerState
	mu        sync.RWMutex

	// Configuration
	maxSessions  int
	historyLimit int
}

// registerState pairs the runtime objects behind one session
type registerState struct {
	register *quantum.Register
	graph    *entangle.Graph
	history  []sim.MeasurementRecord
}

// NewManager creates a new simulation manager
func NewManager() *Manager {
	return &Manager{
		sessions:     make(map[uuid.UUID]*sim.SimulationSession),
		registers:    make(map[uuid.UUID]*registerState),
		maxSessions:  64,  // Maximum concurrent registers
		historyLimit: 256, // Measurement records kept per session
	}
}

// CreateSession allocates a register and an empty entanglement graph for
// a new simulation
func (m *Manager) CreateSession(req *sim.SessionCreateRequest) (*sim.SimulationSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.maxSessions {
		return nil, sim.ErrTooManySessions
	}

	register := quantum.NewRegister(req.Qubits)
	if register == nil {
		return nil, sim.ErrInvalidQubitCount
	}

	if req.Seed != nil {
		register.SetRandomSource(quantum.NewSeededSource(*req.Seed))
	}

	now := time.Now()
	session := &sim.SimulationSession{
		SessionID:  uuid.New(),
		Name:       req.Name,
		Qubits:     req.Qubits,
		Status:     sim.SimActive,
		Seed:       req.Seed,
		CreatedAt:  now,
		LastUsedAt: now,
		ExpiresAt:  now.Add(time.Duration(req.TTLMinutes) * time.Minute),
	}

	m.sessions[session.SessionID] = session
	m.registers[session.SessionID] = &registerState{
		register: register,
		graph:    entangle.NewGraph(),
	}

	return session, nil
}

// GetSession retrieves a session by ID, lazily expiring it when its TTL
// has passed
func (m *Manager) GetSession(sessionID uuid.UUID) (*sim.SimulationSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, sim.ErrSessionNotFound
	}

	if session.Status == sim.SimActive && time.Now().After(session.ExpiresAt) {
		m.expireLocked(session)
	}

	return session, nil
}

// ListSessions returns every known session
func (m *Manager) ListSessions() []*sim.SimulationSession {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]*sim.SimulationSession, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}

	return sessions
}

// ApplyGate applies one gate to a session register
func (m *Manager) ApplyGate(sessionID uuid.UUID, req *sim.GateRequest) (*sim.SimulationSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session, state, err := m.activeLocked(sessionID)
	if err != nil {
		return nil, err
	}

	for _, q := range req.Qubits {
		if q >= session.Qubits {
			return nil, sim.ErrInvalidQubitIndex
		}
	}

	applyGate(state.register, req)

	session.GateCount++
	session.LastUsedAt = time.Now()

	return session, nil
}

// Measure collapses one qubit, records the outcome, and propagates the
// collapse through the session's entanglement graph
func (m *Manager) Measure(sessionID uuid.UUID, req *sim.MeasureRequest) (*sim.MeasureResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session, state, err := m.activeLocked(sessionID)
	if err != nil {
		return nil, err
	}

	if req.Qubit >= session.Qubits {
		return nil, sim.ErrInvalidQubitIndex
	}

	outcome, probability := state.register.Measure(req.Qubit)
	entangle.Propagate(state.graph, state.register, req.Qubit)

	propagated := 0
	for _, link := range state.graph.Touching(req.Qubit) {
		if link.Strength > entangle.TierPhase {
			propagated++
		}
	}

	m.recordLocked(state, session, sim.MeasurementRecord{
		Qubit:       req.Qubit,
		Outcome:     outcome,
		Probability: probability,
		MeasuredAt:  time.Now(),
	})
	session.LastUsedAt = time.Now()

	return &sim.MeasureResponse{
		SessionID:   sessionID.String(),
		Qubit:       req.Qubit,
		Outcome:     outcome,
		Probability: probability,
		Propagated:  propagated,
	}, nil
}

// RunCircuit applies a sequence of operations to a session register,
// measuring wherever the circuit says to
func (m *Manager) RunCircuit(sessionID uuid.UUID, ops []sim.CircuitOp) (*sim.SimulationSession, []sim.MeasurementRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, state, err := m.activeLocked(sessionID)
	if err != nil {
		return nil, nil, err
	}

	file := sim.CircuitFile{Qubits: session.Qubits, Ops: ops}
	if err := file.Validate(); err != nil {
		return nil, nil, err
	}

	var records []sim.MeasurementRecord
	for _, op := range ops {
		if op.Gate == quantum.GateMeasure {
			outcome, probability := state.register.Measure(op.Qubits[0])
			entangle.Propagate(state.graph, state.register, op.Qubits[0])

			record := sim.MeasurementRecord{
				Qubit:       op.Qubits[0],
				Outcome:     outcome,
				Probability: probability,
				MeasuredAt:  time.Now(),
			}
			records = append(records, record)
			m.recordLocked(state, session, record)
			continue
		}

		req := sim.GateRequest{Gate: op.Gate, Qubits: op.Qubits, Angle: op.Angle}
		applyGate(state.register, &req)
		session.GateCount++
	}

	session.LastUsedAt = time.Now()

	return session, records, nil
}

// Entanglement computes the pairwise entanglement metric for two qubits
func (m *Manager) Entanglement(sessionID uuid.UUID, a, b int) (*sim.EntanglementResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, state, err := m.activeLocked(sessionID)
	if err != nil {
		return nil, err
	}

	if a < 0 || b < 0 || a >= session.Qubits || b >= session.Qubits {
		return nil, sim.ErrInvalidQubitIndex
	}

	return &sim.EntanglementResponse{
		SessionID:    sessionID.String(),
		A:            a,
		B:            b,
		Entanglement: state.register.Entanglement(a, b),
	}, nil
}

// AddEdge declares an entanglement link between two qubits of a session
func (m *Manager) AddEdge(sessionID uuid.UUID, req *sim.EdgeRequest) (*sim.EdgeInfo, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session, state, err := m.activeLocked(sessionID)
	if err != nil {
		return nil, err
	}

	if req.A >= session.Qubits || req.B >= session.Qubits {
		return nil, sim.ErrInvalidQubitIndex
	}

	state.graph.Add(req.A, req.B, req.Strength)
	session.EdgeCount = state.graph.Count()
	session.LastUsedAt = time.Now()

	link := state.graph.Find(req.A, req.B)

	return &sim.EdgeInfo{
		A:        link.A,
		B:        link.B,
		Strength: link.Strength,
		Tier:     entangle.TierLabel(link.Strength),
	}, nil
}

// RemoveEdge deletes an entanglement link from a session
func (m *Manager) RemoveEdge(sessionID uuid.UUID, a, b int) (*sim.SimulationSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, state, err := m.activeLocked(sessionID)
	if err != nil {
		return nil, err
	}

	if state.graph.Find(a, b) == nil {
		return nil, sim.ErrLinkNotFound
	}

	state.graph.Remove(a, b)
	session.EdgeCount = state.graph.Count()
	session.LastUsedAt = time.Now()

	return session, nil
}

// Edges lists a session's entanglement links with their propagation tiers
func (m *Manager) Edges(sessionID uuid.UUID) ([]sim.EdgeInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, state, err := m.activeLocked(sessionID)
	if err != nil {
		return nil, err
	}

	links := state.graph.Links()
	edges := make([]sim.EdgeInfo, 0, len(links))
	for _, link := range links {
		edges = append(edges, sim.EdgeInfo{
			A:        link.A,
			B:        link.B,
			Strength: link.Strength,
			Tier:     entangle.TierLabel(link.Strength),
		})
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})

	return edges, nil
}

// Snapshot captures the register state, optionally with full amplitudes
func (m *Manager) Snapshot(sessionID uuid.UUID, includeAmplitudes bool) (*sim.StateSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, state, err := m.activeLocked(sessionID)
	if err != nil {
		return nil, err
	}

	amps := state.register.Amplitudes()
	snapshot := &sim.StateSnapshot{
		SessionID:   sessionID,
		Qubits:      session.Qubits,
		Fingerprint: trace.Fingerprint(amps),
		CreatedAt:   time.Now(),
	}

	if includeAmplitudes {
		snapshot.Amplitudes = make([]sim.Amplitude, len(amps))
		for i, amp := range amps {
			snapshot.Amplitudes[i] = sim.Amplitude{
				Index:       i,
				Real:        real(amp),
				Imag:        imag(amp),
				Probability: real(amp)*real(amp) + imag(amp)*imag(amp),
			}
		}
	}

	return snapshot, nil
}

// History returns a copy of the recorded measurement outcomes for a session
func (m *Manager) History(sessionID uuid.UUID) ([]sim.MeasurementRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, state, err := m.activeLocked(sessionID)
	if err != nil {
		return nil, err
	}

	history := make([]sim.MeasurementRecord, len(state.history))
	copy(history, state.history)

	return history, nil
}

// ReleaseSession frees a session's register memory and marks it released
func (m *Manager) ReleaseSession(sessionID uuid.UUID) (*sim.SimulationSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, sim.ErrSessionNotFound
	}

	if session.Status == sim.SimReleased {
		return nil, sim.ErrSessionReleased
	}

	if state, ok := m.registers[sessionID]; ok {
		state.register.Release()
		delete(m.registers, sessionID)
	}

	session.Status = sim.SimReleased

	return session, nil
}

// CleanupExpiredSessions drops expired and released sessions and returns
// how many were removed
func (m *Manager) CleanupExpiredSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	removed := 0

	for sessionID, session := range m.sessions {
		if session.Status == sim.SimActive && now.After(session.ExpiresAt) {
			m.expireLocked(session)
		}

		if session.Status != sim.SimActive {
			delete(m.sessions, sessionID)
			removed++
		}
	}

	return removed
}

// activeLocked looks up a session and its runtime state, lazily expiring
// sessions whose TTL has passed. Callers must hold the write lock.
func (m *Manager) activeLocked(sessionID uuid.UUID) (*sim.SimulationSession, *registerState, error) {
	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, nil, sim.ErrSessionNotFound
	}

	if session.Status == sim.SimActive && time.Now().After(session.ExpiresAt) {
		m.expireLocked(session)
	}

	switch session.Status {
	case sim.SimExpired:
		return nil, nil, sim.ErrSessionExpired
	case sim.SimReleased:
		return nil, nil, sim.ErrSessionReleased
	}

	return session, m.registers[sessionID], nil
}

// expireLocked marks a session expired and frees its register memory
func (m *Manager) expireLocked(session *sim.SimulationSession) {
	session.Status = sim.SimExpired

	if state, ok := m.registers[session.SessionID]; ok {
		state.register.Release()
		delete(m.registers, session.SessionID)
	}
}

// recordLocked appends a measurement record, trimming old entries past
// the history limit
func (m *Manager) recordLocked(state *registerState, session *sim.SimulationSession, record sim.MeasurementRecord) {
	state.history = append(state.history, record)
	if len(state.history) > m.historyLimit {
		state.history = state.history[len(state.history)-m.historyLimit:]
	}

	session.MeasureCount++
}

// applyGate dispatches a validated gate request onto a register
func applyGate(r *quantum.Register, req *sim.GateRequest) {
	q := req.Qubits

	switch req.Gate {
	case quantum.GateHadamard:
		r.ApplyHadamard(q[0])
	case quantum.GatePauliX:
		r.ApplyPauliX(q[0])
	case quantum.GateCNOT:
		r.ApplyCNOT(q[0], q[1])
	case quantum.GateCZ:
		r.ApplyCZ(q[0], q[1])
	case quantum.GateToffoli:
		r.ApplyToffoli(q[0], q[1], q[2])
	case quantum.GateSwap:
		r.ApplySwap(q[0], q[1])
	case quantum.GateControlledPhase:
		r.ApplyControlledPhase(q[0], q[1], req.Angle)
	}
}
