package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/calvinwijaya/blackjack/internal/store"
	"github.com/gorilla/mux"
)

// Handlers serves the read-only spectator API
type Handlers struct {
	store store.Store
	hub   *Hub
}

// NewHandlers creates a new instance of Handlers
func NewHandlers(store store.Store, hub *Hub) *Handlers {
	return &Handlers{
		store: store,
		hub:   hub,
	}
}

// RegisterRoutes registers all API routes
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/table", h.GetTable).Methods("GET")

	r.HandleFunc("/api/players", h.ListPlayers).Methods("GET")
	r.HandleFunc("/api/players/{id}", h.GetPlayer).Methods("GET")

	r.HandleFunc("/ws", h.hub.WebSocketHandler)
}

// response helper function to send JSON responses
func response(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("api: error encoding response: %v", err)
	}
}

// error response helper function
func errorResponse(w http.ResponseWriter, status int, message string) {
	response(w, status, map[string]string{"error": message})
}

// GetTable returns the table as of the latest event
func (h *Handlers) GetTable(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.hub.Snapshot()
	if !ok {
		errorResponse(w, http.StatusNotFound, "No round has started yet")
		return
	}
	response(w, http.StatusOK, snapshot)
}

// ListPlayers returns every known player profile
func (h *Handlers) ListPlayers(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.ListProfiles()
	if err != nil {
		log.Printf("api: listing profiles: %v", err)
		errorResponse(w, http.StatusInternalServerError, "Error retrieving players")
		return
	}
	response(w, http.StatusOK, profiles)
}

// GetPlayer returns one player profile
func (h *Handlers) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	profile, err := h.store.GetProfile(id)
	if errors.Is(err, store.ErrNotFound) {
		errorResponse(w, http.StatusNotFound, "Player not found")
		return
	}
	if err != nil {
		log.Printf("api: reading profile %s: %v", id, err)
		errorResponse(w, http.StatusInternalServerError, "Error retrieving player")
		return
	}
	response(w, http.StatusOK, profile)
}
