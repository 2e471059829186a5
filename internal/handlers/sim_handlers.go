package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/qusimlab/qusim/internal/models/sim"
	"github.com/qusimlab/qusim/internal/qsim"
	"github.com/qusimlab/qusim/internal/qsim/trace"
)

// SimHandler holds the dependencies shared by the simulation endpoints
type SimHandler struct {
	manager *qsim.Manager
	bus     *trace.Bus
}

// NewSimHandler creates a new simulation handler
func NewSimHandler(manager *qsim.Manager, bus *trace.Bus) *SimHandler {
	return &SimHandler{
		manager: manager,
		bus:     bus,
	}
}

// SimulationsHandler handles the simulation collection endpoint
// POST /api/v1/simulations creates a session, GET lists all sessions
func (h *SimHandler) SimulationsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createSimulationHandler(w, r)
	case http.MethodGet:
		h.listSimulationsHandler(w)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// createSimulationHandler allocates a register and returns the new session
func (h *SimHandler) createSimulationHandler(w http.ResponseWriter, r *http.Request) {
	var req sim.SessionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.manager.CreateSession(&req)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	h.bus.Publish(trace.KindSession, session.SessionID.String(),
		fmt.Sprintf("created %d-qubit simulation", session.Qubits))

	respondWithJSON(w, http.StatusCreated, sim.SessionResponse{Session: session})
}

// listSimulationsHandler returns every known session, released ones included
func (h *SimHandler) listSimulationsHandler(w http.ResponseWriter) {
	sessions := h.manager.ListSessions()

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// SimulationHandler handles the single-simulation endpoint
// GET /api/v1/simulations/{id} returns the session, DELETE releases it
func (h *SimHandler) SimulationHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseSimulationID(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		session, err := h.manager.GetSession(sessionID)
		if err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}

		respondWithJSON(w, http.StatusOK, sim.SessionResponse{Session: session})
	case http.MethodDelete:
		session, err := h.manager.ReleaseSession(sessionID)
		if err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}

		h.bus.Publish(trace.KindRelease, sessionID.String(), "simulation released")

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Simulation released successfully",
			"session": session,
		})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ApplyGateHandler handles POST /api/v1/simulations/{id}/gates
// It applies one named gate to the session register
func (h *SimHandler) ApplyGateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID, ok := parseSimulationID(w, r)
	if !ok {
		return
	}

	var req sim.GateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.manager.ApplyGate(sessionID, &req)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	gatesApplied.WithLabelValues(req.Gate).Inc()
	h.bus.Publish(trace.KindGate, sessionID.String(),
		fmt.Sprintf("%s on qubits %v", req.Gate, req.Qubits))

	respondWithJSON(w, http.StatusOK, sim.SessionResponse{Session: session})
}

// MeasurementsHandler handles the measurement endpoint
// POST /api/v1/simulations/{id}/measurements collapses a qubit, GET returns history
func (h *SimHandler) MeasurementsHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseSimulationID(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.measureHandler(w, r, sessionID)
	case http.MethodGet:
		h.historyHandler(w, sessionID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// measureHandler collapses one qubit and reports the propagation it caused
func (h *SimHandler) measureHandler(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	var req sim.MeasureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.manager.Measure(sessionID, &req)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	measurementsTotal.WithLabelValues(strconv.Itoa(result.Outcome)).Inc()
	h.bus.Publish(trace.KindMeasure, sessionID.String(),
		fmt.Sprintf("qubit %d -> %d (p=%.4f)", result.Qubit, result.Outcome, result.Probability))

	respondWithJSON(w, http.StatusOK, result)
}

// historyHandler returns the retained measurement records for a session
func (h *SimHandler) historyHandler(w http.ResponseWriter, sessionID uuid.UUID) {
	records, err := h.manager.History(sessionID)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":   sessionID.String(),
		"measurements": records,
		"count":        len(records),
	})
}

// RunCircuitHandler handles POST /api/v1/simulations/{id}/circuit
// The whole operation list is validated before anything is applied
func (h *SimHandler) RunCircuitHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID, ok := parseSimulationID(w, r)
	if !ok {
		return
	}

	var req sim.CircuitRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, records, err := h.manager.RunCircuit(sessionID, req.Ops)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	for _, op := range req.Ops {
		if op.Gate != "measure" {
			gatesApplied.WithLabelValues(op.Gate).Inc()
		}
	}
	for _, record := range records {
		measurementsTotal.WithLabelValues(strconv.Itoa(record.Outcome)).Inc()
	}

	h.bus.Publish(trace.KindCircuit, sessionID.String(),
		fmt.Sprintf("ran %d operations", len(req.Ops)))

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"session":      session,
		"measurements": records,
	})
}

// StateHandler handles GET /api/v1/simulations/{id}/state
// It returns a snapshot with an optional amplitude dump
func (h *SimHandler) StateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID, ok := parseSimulationID(w, r)
	if !ok {
		return
	}

	includeAmplitudes := r.URL.Query().Get("amplitudes") == "true"

	snapshot, err := h.manager.Snapshot(sessionID, includeAmplitudes)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, snapshot)
}

// EntanglementHandler handles GET /api/v1/simulations/{id}/entanglement
// It computes the entanglement metric for the qubit pair in the query
func (h *SimHandler) EntanglementHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID, ok := parseSimulationID(w, r)
	if !ok {
		return
	}

	a, ok := parseQubitParam(w, r, "a")
	if !ok {
		return
	}

	b, ok := parseQubitParam(w, r, "b")
	if !ok {
		return
	}

	result, err := h.manager.Entanglement(sessionID, a, b)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// EdgesHandler handles the entanglement graph endpoint
// GET lists links, POST adds one, DELETE removes the pair named in the query
func (h *SimHandler) EdgesHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseSimulationID(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.listEdgesHandler(w, sessionID)
	case http.MethodPost:
		h.addEdgeHandler(w, r, sessionID)
	case http.MethodDelete:
		h.removeEdgeHandler(w, r, sessionID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// listEdgesHandler returns the session's links sorted by qubit pair
func (h *SimHandler) listEdgesHandler(w http.ResponseWriter, sessionID uuid.UUID) {
	edges, err := h.manager.Edges(sessionID)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID.String(),
		"edges":      edges,
		"count":      len(edges),
	})
}

// addEdgeHandler records an entanglement link between two qubits
func (h *SimHandler) addEdgeHandler(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	var req sim.EdgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	edge, err := h.manager.AddEdge(sessionID, &req)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	h.bus.Publish(trace.KindEdge, sessionID.String(),
		fmt.Sprintf("linked qubits %d and %d at %.3f", edge.A, edge.B, edge.Strength))

	respondWithJSON(w, http.StatusCreated, edge)
}

// removeEdgeHandler deletes the link between the two qubits in the query
func (h *SimHandler) removeEdgeHandler(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	a, ok := parseQubitParam(w, r, "a")
	if !ok {
		return
	}

	b, ok := parseQubitParam(w, r, "b")
	if !ok {
		return
	}

	session, err := h.manager.RemoveEdge(sessionID, a, b)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	h.bus.Publish(trace.KindEdge, sessionID.String(),
		fmt.Sprintf("unlinked qubits %d and %d", a, b))

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Edge removed successfully",
		"session": session,
	})
}

// parseSimulationID extracts the simulation ID segment from the request path
func parseSimulationID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	pathParts := strings.Split(r.URL.Path, "/")
	if len(pathParts) < 5 {
		respondWithError(w, http.StatusBadRequest, "Invalid URL format")
		return uuid.Nil, false
	}

	sessionID, err := uuid.Parse(pathParts[4])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid simulation ID")
		return uuid.Nil, false
	}

	return sessionID, true
}

// parseQubitParam reads a qubit index from the query string
func parseQubitParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid qubit parameter %q", name))
		return 0, false
	}

	return value, true
}

// statusForError maps manager errors to HTTP status codes
func statusForError(err error) int {
	switch err {
	case sim.ErrSessionNotFound, sim.ErrLinkNotFound:
		return http.StatusNotFound
	case sim.ErrSessionExpired, sim.ErrSessionReleased:
		return http.StatusGone
	case sim.ErrTooManySessions:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}

// respondWithJSON writes a JSON response with the given status code
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// respondWithError writes a JSON error response
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
