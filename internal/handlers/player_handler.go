package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/parasports/idcard/internal/models"
	"github.com/parasports/idcard/internal/services"
)

type PlayerHandler struct {
	players services.PlayerStore
}

func NewPlayerHandler(players services.PlayerStore) *PlayerHandler {
	return &PlayerHandler{players: players}
}

func (h *PlayerHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		log.Printf("[CreatePlayer] Validation errors: %v", errors)
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	dob, _ := models.ParseDOB(req.DateOfBirth) // validated above

	player := &models.Player{
		PlayerID:         req.PlayerID,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Gender:           req.Gender,
		PrimarySport:     req.PrimarySport,
		DateOfBirth:      dob,
		PassportNumber:   req.PassportNumber,
		Address:          req.Address,
		CoachName:        req.CoachName,
		CoachContact:     req.CoachContact,
		EmergencyContact: req.EmergencyContact,
		ProfilePhoto:     req.ProfilePhoto,
	}

	ctx, cancel := storeContext(r.Context())
	defer cancel()

	if err := h.players.Create(ctx, player); err != nil {
		if err == services.ErrPlayerIDExists {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Player ID already registered"))
			return
		}
		log.Printf("[CreatePlayer] Store error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create player"))
		return
	}

	log.Printf("[CreatePlayer] Player created: %s", player.PlayerID)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(player))
}

func (h *PlayerHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerId")

	ctx, cancel := storeContext(r.Context())
	defer cancel()

	player, err := h.players.GetByPlayerID(ctx, playerID)
	if err != nil {
		if err == services.ErrPlayerNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Player not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get player"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(player))
}

func (h *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	limit := 500
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		if v, err := strconv.Atoi(rawLimit); err == nil && v > 0 {
			limit = v
		}
	}

	ctx, cancel := storeContext(r.Context())
	defer cancel()

	players, err := h.players.List(ctx, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list players"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(players))
}

func (h *PlayerHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerId")

	var req models.UpdatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := storeContext(r.Context())
	defer cancel()

	player, err := h.players.Update(ctx, playerID, &req)
	if err != nil {
		if err == services.ErrPlayerNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Player not found"))
			return
		}
		log.Printf("[UpdatePlayer] Store error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update player"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(player))
}

func (h *PlayerHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerId")

	ctx, cancel := storeContext(r.Context())
	defer cancel()

	if err := h.players.Delete(ctx, playerID); err != nil {
		if err == services.ErrPlayerNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Player not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete player"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Player deleted successfully"}))
}
