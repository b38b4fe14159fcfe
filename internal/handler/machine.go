package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/osse101/ReelSpin_Go/internal/domain"
	"github.com/osse101/ReelSpin_Go/internal/logger"
	"github.com/osse101/ReelSpin_Go/internal/reel"
	"github.com/osse101/ReelSpin_Go/internal/spin"
)

// MachineHandler exposes the spin machines over HTTP
type MachineHandler struct {
	machines *spin.Registry
}

// NewMachineHandler creates a new machine handler
func NewMachineHandler(machines *spin.Registry) *MachineHandler {
	return &MachineHandler{machines: machines}
}

// SpinRequest carries the stake as a decimal string or number. Zero, negative
// and missing stakes are left to the machine so they get its invalid stake error.
type SpinRequest struct {
	Stake decimal.Decimal `json:"stake"`
}

// SpinResponse is returned once a spin has been accepted. The outcome arrives
// later on the event stream.
type SpinResponse struct {
	Message string                 `json:"message"`
	Session domain.SessionSnapshot `json:"session"`
}

// SetGeometryRequest carries the viewport measurements for the next session
type SetGeometryRequest struct {
	ItemHeight  float64 `json:"item_height" validate:"gt=0"`
	VisibleRows int     `json:"visible_rows" validate:"gte=1"`
}

// GeometryResponse reports the geometry the next session will use
type GeometryResponse struct {
	Message  string        `json:"message"`
	Geometry reel.Geometry `json:"geometry"`
}

// machine resolves the {theme} path parameter. If ok is false the response
// has already been written.
func (h *MachineHandler) machine(w http.ResponseWriter, r *http.Request) (*spin.Orchestrator, bool) {
	themeID, ok := GetPathParam(r, w, "theme")
	if !ok {
		return nil, false
	}
	m, err := h.machines.Get(themeID)
	if err != nil {
		respondServiceError(w, r, "Machine lookup", err)
		return nil, false
	}
	return m, true
}

// HandleSpin starts a spin on one machine
func (h *MachineHandler) HandleSpin(w http.ResponseWriter, r *http.Request) {
	m, ok := h.machine(w, r)
	if !ok {
		return
	}

	var req SpinRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Spin"); err != nil {
		return
	}

	session, err := m.StartSpin(r.Context(), req.Stake)
	if err != nil {
		respondServiceError(w, r, "Spin", err)
		return
	}

	logger.FromContext(r.Context()).Info("Spin accepted",
		"theme", session.Theme, "session_id", session.SessionID, "stake", session.Stake.String())
	respondJSON(w, http.StatusAccepted, SpinResponse{Message: MsgSpinAccepted, Session: session})
}

// HandleGetMachine returns the machine snapshot, including spin_enabled
func (h *MachineHandler) HandleGetMachine(w http.ResponseWriter, r *http.Request) {
	m, ok := h.machine(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, m.Snapshot(r.Context()))
}

// HandleListMachines returns every machine's snapshot
func (h *MachineHandler) HandleListMachines(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, DataResponse{Data: h.machines.Snapshots(r.Context())})
}

// HandleSetGeometry records the viewport geometry used from the next session
func (h *MachineHandler) HandleSetGeometry(w http.ResponseWriter, r *http.Request) {
	m, ok := h.machine(w, r)
	if !ok {
		return
	}

	var req SetGeometryRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set geometry"); err != nil {
		return
	}

	g := reel.Geometry{ItemHeight: req.ItemHeight, VisibleRows: req.VisibleRows}
	if err := m.SetGeometry(g); err != nil {
		respondServiceError(w, r, "Set geometry", err)
		return
	}
	respondJSON(w, http.StatusOK, GeometryResponse{Message: MsgGeometryUpdated, Geometry: m.Geometry()})
}

// HandleListThemes returns the skins of every registered machine
func (h *MachineHandler) HandleListThemes(w http.ResponseWriter, r *http.Request) {
	ids := h.machines.IDs()
	skins := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		m, err := h.machines.Get(id)
		if err != nil {
			continue
		}
		skins = append(skins, m.Skin())
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: skins})
}
