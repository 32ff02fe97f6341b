package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/freeeve/sengoku/api/internal/auth"
	"github.com/freeeve/sengoku/api/internal/service"
	"github.com/freeeve/sengoku/api/pkg/sengoku"
)

const maxCommandBody = 64 << 10

// GameHandler handles game lifecycle, play and history endpoints.
type GameHandler struct {
	gameSvc *service.GameService
	turnSvc *service.TurnService
}

// NewGameHandler creates a GameHandler.
func NewGameHandler(gameSvc *service.GameService, turnSvc *service.TurnService) *GameHandler {
	return &GameHandler{gameSvc: gameSvc, turnSvc: turnSvc}
}

// Register mounts the game routes on an /api/v1-relative mux.
func (h *GameHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /games", h.CreateGame)
	mux.HandleFunc("GET /games", h.ListGames)
	mux.HandleFunc("GET /games/{id}", h.GetGame)
	mux.HandleFunc("DELETE /games/{id}", h.DeleteGame)
	mux.HandleFunc("GET /games/{id}/state", h.GetState)
	mux.HandleFunc("POST /games/{id}/advance", h.Advance)
	mux.HandleFunc("GET /games/{id}/turns", h.ListTurns)
	mux.HandleFunc("GET /games/{id}/battles", h.ListBattles)
	mux.HandleFunc("GET /games/{id}/events", h.ListEvents)
	mux.HandleFunc("GET /games/{id}/predict", h.Predict)
}

// CreateGame handles POST /api/v1/games
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		Seed       uint64 `json:"seed,omitempty"`
		Difficulty string `json:"difficulty,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	game, err := h.gameSvc.CreateGame(r.Context(), auth.UserIDFromContext(r.Context()), req.Name, req.Seed, req.Difficulty)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

// ListGames handles GET /api/v1/games
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameSvc.ListGames(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeList(w, games)
}

// GetGame handles GET /api/v1/games/{id}
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.gameSvc.GetGame(r.Context(), r.PathValue("id"), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// DeleteGame handles DELETE /api/v1/games/{id}
func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := h.gameSvc.DeleteGame(r.Context(), r.PathValue("id"), auth.UserIDFromContext(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetState handles GET /api/v1/games/{id}/state
func (h *GameHandler) GetState(w http.ResponseWriter, r *http.Request) {
	view, err := h.gameSvc.GetState(r.Context(), r.PathValue("id"), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Advance handles POST /api/v1/games/{id}/advance. An empty body advances
// without commands; a JSON body carries the player's commands when the
// game is waiting for them.
func (h *GameHandler) Advance(w http.ResponseWriter, r *http.Request) {
	in, err := readCommands(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.turnSvc.Advance(r.Context(), r.PathValue("id"), auth.UserIDFromContext(r.Context()), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func readCommands(w http.ResponseWriter, r *http.Request) (*sengoku.PlayerCommandsInput, error) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCommandBody))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var in sengoku.PlayerCommandsInput
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

// ListTurns handles GET /api/v1/games/{id}/turns
func (h *GameHandler) ListTurns(w http.ResponseWriter, r *http.Request) {
	turns, err := h.gameSvc.ListTurns(r.Context(), r.PathValue("id"), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeList(w, turns)
}

// ListBattles handles GET /api/v1/games/{id}/battles
func (h *GameHandler) ListBattles(w http.ResponseWriter, r *http.Request) {
	battles, err := h.gameSvc.ListBattles(r.Context(), r.PathValue("id"), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeList(w, battles)
}

// ListEvents handles GET /api/v1/games/{id}/events
func (h *GameHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.gameSvc.ListEvents(r.Context(), r.PathValue("id"), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeList(w, events)
}

// Predict handles GET /api/v1/games/{id}/predict?from=&to=&force=&general=
func (h *GameHandler) Predict(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var args [4]int
	for i, name := range []string{"from", "to", "force", "general"} {
		v := q.Get(name)
		if v == "" && name == "general" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+name+" parameter")
			return
		}
		args[i] = n
	}

	pred, err := h.gameSvc.Predict(r.Context(), r.PathValue("id"), auth.UserIDFromContext(r.Context()), args[0], args[1], args[2], args[3])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pred)
}
