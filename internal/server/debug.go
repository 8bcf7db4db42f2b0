package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"delve-server/internal/engine"
)

// DebugHandler exposes read-only views of the running instances.
// Handlers peek at live state without synchronization, so a value may
// tear mid-activation; nothing here ever mutates the simulation.
type DebugHandler struct {
	Service *engine.Service
}

func NewDebugHandler(s *engine.Service) *DebugHandler {
	return &DebugHandler{Service: s}
}

func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/state", h.handleState)
	mux.HandleFunc("/debug/entities", h.handleEntities)
	mux.HandleFunc("/debug/queue", h.handleQueue)
}

// /debug/state returns one summary row per instance.
func (h *DebugHandler) handleState(w http.ResponseWriter, r *http.Request) {
	type instanceSummary struct {
		Instance int    `json:"instance"`
		Player   string `json:"player"`
		Depth    int    `json:"depth"`
		Tick     int64  `json:"tick"`
		NextSeq  uint64 `json:"next_seq"`
		Entities int    `json:"entities"`
		Queued   int    `json:"queued"`
	}

	instances := h.Service.Instances()
	summary := make([]instanceSummary, 0, len(instances))
	for _, inst := range instances {
		summary = append(summary, instanceSummary{
			Instance: inst.ID,
			Player:   string(inst.PlayerID),
			Depth:    inst.World.Depth,
			Tick:     inst.Scheduler.CurrentTick(),
			NextSeq:  inst.Scheduler.NextSeq(),
			Entities: len(inst.World.All()),
			Queued:   inst.Scheduler.Len(),
		})
	}
	writeJSON(w, summary)
}

// /debug/entities?instance=N dumps the full arena, behavior internals
// included. Defaults to the main instance.
func (h *DebugHandler) handleEntities(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.pickInstance(r)
	if !ok {
		http.Error(w, "instance not found", http.StatusNotFound)
		return
	}
	writeJSON(w, inst.World.All())
}

// /debug/queue?instance=N lists pending activations in pop order.
func (h *DebugHandler) handleQueue(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.pickInstance(r)
	if !ok {
		http.Error(w, "instance not found", http.StatusNotFound)
		return
	}

	type queueEntry struct {
		EntityID string `json:"entity_id"`
		Name     string `json:"name"`
		DueTick  int64  `json:"due_tick"`
		Seq      uint64 `json:"seq"`
	}

	items := inst.Scheduler.Entries()
	entries := make([]queueEntry, 0, len(items))
	for _, item := range items {
		entry := queueEntry{EntityID: string(item.ID), DueTick: item.Tick, Seq: item.Seq}
		if e := inst.World.Get(item.ID); e != nil {
			entry.Name = e.Name
		}
		entries = append(entries, entry)
	}
	writeJSON(w, entries)
}

func (h *DebugHandler) pickInstance(r *http.Request) (*engine.Instance, bool) {
	raw := r.URL.Query().Get("instance")
	if raw == "" {
		return h.Service.Main(), true
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	for _, inst := range h.Service.Instances() {
		if inst.ID == id {
			return inst, true
		}
	}
	return nil, false
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	// Empty results render as [], never null.
	if data == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}
