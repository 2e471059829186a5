package sim

import (
	"time"

	"github.com/google/uuid"
)

// SimStatus represents the current state of a simulation session
type SimStatus string

const (
	SimActive   SimStatus = "active"
	SimReleased SimStatus = "released"
	SimExpired  SimStatus = "expired"
)

// MaxQubits caps API-created registers well below the engine limit so a
// single request cannot exhaust service memory.
const MaxQubits = 16

// SimulationSession describes one live register together with its
// entanglement graph and bookkeeping counters
type SimulationSession struct {
	SessionID    uuid.UUID `json:"session_id"`
	Name         string    `json:"name,omitempty"`
	Qubits       int       `json:"qubits"`
	Status       SimStatus `json:"status"`
	Seed         *int64    `json:"seed,omitempty"`
	GateCount    int       `json:"gate_count"`
	MeasureCount int       `json:"measure_count"`
	EdgeCount    int       `json:"edge_count"`
	CreatedAt    time.Time `json:"created_at"`
	LastUsedAt   time.Time `json:"last_used_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SessionCreateRequest asks for a new simulation register
type SessionCreateRequest struct {
	Name       string `json:"name,omitempty"`
	Qubits     int    `json:"qubits"`
	Seed       *int64 `json:"seed,omitempty"`
	TTLMinutes int    `json:"ttl_minutes,omitempty"`
}

// GateRequest applies one gate to a session register
type GateRequest struct {
	Gate   string  `json:"gate"`
	Qubits []int   `json:"qubits"`
	Angle  float64 `json:"angle,omitempty"`
}

// MeasureRequest collapses one qubit of a session register
type MeasureRequest struct {
	Qubit int `json:"qubit"`
}

// EdgeRequest declares an entanglement strength between two qubits
type EdgeRequest struct {
	A        int     `json:"a"`
	B        int     `json:"b"`
	Strength float64 `json:"strength"`
}

// EdgeInfo reports one entanglement link with its propagation tier
type EdgeInfo struct {
	A        int     `json:"a"`
	B        int     `json:"b"`
	Strength float64 `json:"strength"`
	Tier     string  `json:"tier"`
}

// Amplitude is one basis-state coefficient in a snapshot
type Amplitude struct {
	Index       int     `json:"index"`
	Real        float64 `json:"real"`
	Imag        float64 `json:"imag"`
	Probability float64 `json:"probability"`
}

// StateSnapshot carries a defensive copy of a register state plus a
// fingerprint that identifies it
type StateSnapshot struct {
	SessionID   uuid.UUID   `json:"session_id"`
	Qubits      int         `json:"qubits"`
	Amplitudes  []Amplitude `json:"amplitudes,omitempty"`
	Fingerprint string      `json:"fingerprint"`
	CreatedAt   time.Time   `json:"created_at"`
}

// MeasurementRecord is one collapse event in a session's history
type MeasurementRecord struct {
	Qubit       int       `json:"qubit"`
	Outcome     int       `json:"outcome"`
	Probability float64   `json:"probability"`
	MeasuredAt  time.Time `json:"measured_at"`
}

// SessionResponse wraps a session for create and query endpoints
type SessionResponse struct {
	Session *SimulationSession `json:"session"`
	Error   string             `json:"error,omitempty"`
}

// MeasureResponse reports a measurement and the propagation it caused
type MeasureResponse struct {
	SessionID   string  `json:"session_id"`
	Qubit       int     `json:"qubit"`
	Outcome     int     `json:"outcome"`
	Probability float64 `json:"probability"`
	Propagated  int     `json:"propagated_links"`
}

// EntanglementResponse reports the computed metric for a qubit pair
type EntanglementResponse struct {
	SessionID    string  `json:"session_id"`
	A            int     `json:"a"`
	B            int     `json:"b"`
	Entanglement float64 `json:"entanglement"`
}

// gateArity maps each accepted gate name to its operand count.
var gateArity = map[string]int{
	"h":      1,
	"x":      1,
	"cnot":   2,
	"cz":     2,
	"ccx":    3,
	"swap":   2,
	"cphase": 2,
}

// Validate validates a session create request and fills in defaults
func (r *SessionCreateRequest) Validate() error {
	if r.Qubits < 1 || r.Qubits > MaxQubits {
		return ErrInvalidQubitCount
	}

	// Default TTL if not specified (30 minutes)
	if r.TTLMinutes == 0 {
		r.TTLMinutes = 30
	}

	if r.TTLMinutes < 1 || r.TTLMinutes > 1440 { // Max 24 hours
		return ErrInvalidTTL
	}

	return nil
}

// Validate validates a gate request against the accepted gate set
func (r *GateRequest) Validate() error {
	arity, ok := gateArity[r.Gate]
	if !ok {
		return ErrUnknownGate
	}

	if len(r.Qubits) != arity {
		return ErrWrongOperandCount
	}

	for _, q := range r.Qubits {
		if q < 0 {
			return ErrInvalidQubitIndex
		}
	}

	return nil
}

// Validate validates a measure request
func (r *MeasureRequest) Validate() error {
	if r.Qubit < 0 {
		return ErrInvalidQubitIndex
	}

	return nil
}

// Validate validates an edge request
func (r *EdgeRequest) Validate() error {
	if r.A < 0 || r.B < 0 {
		return ErrInvalidQubitIndex
	}

	if r.A == r.B {
		return ErrSamePair
	}

	if r.Strength < 0 || r.Strength > 1 {
		return ErrInvalidStrength
	}

	return nil
}

// Custom errors
type SimError struct {
	Message string
}

func (e *SimError) Error() string {
	return e.Message
}

var (
	ErrInvalidQubitCount = &SimError{"qubit count must be between 1 and 16"}
	ErrInvalidTTL        = &SimError{"TTL must be between 1 and 1440 minutes"}
	ErrUnknownGate       = &SimError{"unknown gate name"}
	ErrWrongOperandCount = &SimError{"wrong operand count for gate"}
	ErrInvalidQubitIndex = &SimError{"qubit index out of range"}
	ErrInvalidStrength   = &SimError{"strength must be between 0 and 1"}
	ErrSamePair          = &SimError{"link endpoints must differ"}
	ErrEmptyCircuit      = &SimError{"circuit has no operations"}
	ErrSessionNotFound   = &SimError{"session not found"}
	ErrSessionExpired    = &SimError{"session has expired"}
	ErrSessionReleased   = &SimError{"session has been released"}
	ErrTooManySessions   = &SimError{"session limit reached"}
	ErrLinkNotFound      = &SimError{"entanglement link not found"}
)
