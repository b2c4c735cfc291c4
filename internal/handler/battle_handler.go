package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kwestra/hexfront/internal/battle"
	"github.com/kwestra/hexfront/internal/repository"
	"github.com/kwestra/hexfront/pkg/wargame"
)

// battleTimeout caps how long a launched battle may run.
const battleTimeout = 10 * time.Minute

// BattleHandler handles battle endpoints.
type BattleHandler struct {
	battleRepo   repository.BattleRepository
	learningRepo repository.LearningRepository
	cache        repository.LearningCache
	wsHub        *Hub
}

// NewBattleHandler creates a BattleHandler.
func NewBattleHandler(battleRepo repository.BattleRepository, learningRepo repository.LearningRepository, cache repository.LearningCache, wsHub *Hub) *BattleHandler {
	return &BattleHandler{battleRepo: battleRepo, learningRepo: learningRepo, cache: cache, wsHub: wsHub}
}

// CreateBattle handles POST /api/v1/battles — launches an AI-vs-AI battle in
// the background and returns immediately. Spectators discover the battle ID
// from the listing or the battle_started broadcast.
func (h *BattleHandler) CreateBattle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string `json:"name"`
		BlueDifficulty string `json:"blue_difficulty,omitempty"`
		RedDifficulty  string `json:"red_difficulty,omitempty"`
		MaxTurns       int    `json:"max_turns,omitempty"`
		Seed           int64  `json:"seed,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.BlueDifficulty == "" {
		req.BlueDifficulty = "medium"
	}
	if req.RedDifficulty == "" {
		req.RedDifficulty = "medium"
	}

	cfg := battle.Config{
		Name:           req.Name,
		BlueDifficulty: req.BlueDifficulty,
		RedDifficulty:  req.RedDifficulty,
		MaxTurns:       req.MaxTurns,
		Seed:           req.Seed,
	}

	go h.runBattle(cfg)

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started", "name": req.Name})
}

func (h *BattleHandler) runBattle(cfg battle.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), battleTimeout)
	defer cancel()

	var battleID string
	cfg.OnStart = func(id string) {
		battleID = id
		h.wsHub.BroadcastToBattle(id, WSEvent{
			Type:     EventBattleStarted,
			BattleID: id,
			Data:     map[string]string{"name": cfg.Name},
		})
	}
	cfg.OnTurn = func(turn int, gs *wargame.GameState) {
		if battleID == "" {
			return
		}
		h.wsHub.BroadcastToBattle(battleID, WSEvent{
			Type:     EventTurnCompleted,
			BattleID: battleID,
			Data:     gs,
		})
	}

	result, err := battle.Run(ctx, cfg, h.battleRepo, h.learningRepo, h.cache)
	if err != nil {
		log.Error().Err(err).Str("battle", cfg.Name).Msg("Battle run failed")
		return
	}
	if battleID != "" {
		h.wsHub.BroadcastToBattle(battleID, WSEvent{
			Type:     EventBattleFinished,
			BattleID: battleID,
			Data:     result,
		})
	}
}

// ListBattles handles GET /api/v1/battles
func (h *BattleHandler) ListBattles(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	battles, err := h.battleRepo.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if battles == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, battles)
}

// GetBattle handles GET /api/v1/battles/{id}
func (h *BattleHandler) GetBattle(w http.ResponseWriter, r *http.Request) {
	b, err := h.battleRepo.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if b == nil {
		writeError(w, http.StatusNotFound, "battle not found")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// GetBattleTurns handles GET /api/v1/battles/{id}/turns
func (h *BattleHandler) GetBattleTurns(w http.ResponseWriter, r *http.Request) {
	turns, err := h.battleRepo.TurnsByBattle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if turns == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, turns)
}

// GetBattleStatus handles GET /api/v1/battles/{id}/status — live AI status
// for a running battle, served from the cache.
func (h *BattleHandler) GetBattleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.cache.GetBattleStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if status == nil {
		writeError(w, http.StatusNotFound, "no live status for battle")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(status)
}

// ListProfiles handles GET /api/v1/profiles — stored AI learning profiles.
func (h *BattleHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.learningRepo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if profiles == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}
