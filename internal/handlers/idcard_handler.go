package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/parasports/idcard/internal/models"
	"github.com/parasports/idcard/internal/services"
)

// IDCardHandler exposes card generation, OTP-gated lookup and download.
type IDCardHandler struct {
	players services.PlayerStore
	cards   *services.IDCardService
	otp     *services.OTPService
	mailer  services.Mailer
	// cardDir is where generated documents live; download streams from it.
	cardDir string
}

func NewIDCardHandler(players services.PlayerStore, cards *services.IDCardService, otp *services.OTPService, mailer services.Mailer, cardDir string) *IDCardHandler {
	return &IDCardHandler{
		players: players,
		cards:   cards,
		otp:     otp,
		mailer:  mailer,
		cardDir: cardDir,
	}
}

func (h *IDCardHandler) GenerateCard(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if strings.TrimSpace(req.PlayerID) == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Player ID is required"))
		return
	}

	ctx, cancel := storeContext(r.Context())
	defer cancel()

	player, err := h.players.GetByPlayerID(ctx, req.PlayerID)
	if err != nil {
		if err == services.ErrPlayerNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Player not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get player"))
		return
	}

	cardPath, err := h.cards.Generate(r.Context(), player)
	if err != nil {
		// Internal detail stays in the log, not the response.
		log.Printf("[GenerateCard] %s: %v", req.PlayerID, err)
		if errors.Is(err, services.ErrEncodingFailed) {
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to encode card data"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to generate ID card"))
		return
	}

	if err := h.players.SetCardPath(ctx, player.PlayerID, cardPath); err != nil {
		log.Printf("[GenerateCard] failed to record card path for %s: %v", player.PlayerID, err)
	}

	log.Printf("[GenerateCard] Card generated for %s: %s", player.PlayerID, cardPath)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(models.GenerateCardResponse{
		PlayerID:   player.PlayerID,
		IDCardPath: cardPath,
	}))
}

func (h *IDCardHandler) DownloadCard(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerId")
	if playerID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Player ID is required"))
		return
	}

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

	if !player.IDCardGenerated || player.IDCardPath == "" {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("ID card not generated for this player"))
		return
	}

	filePath := filepath.Join(h.cardDir, filepath.Base(player.IDCardPath))
	if _, err := os.Stat(filePath); err != nil {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("ID card file not found"))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "Para_Sports_ID_Card_"+playerID+".pdf"))
	http.ServeFile(w, r, filePath)
}

func (h *IDCardHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req models.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Email is required"))
		return
	}

	ctx, cancel := storeContext(r.Context())
	defer cancel()

	if _, err := h.players.GetByEmail(ctx, req.Email); err != nil {
		if err == services.ErrPlayerNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("No player found with this email"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to look up player"))
		return
	}

	code, err := h.otp.Issue(req.Email)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to generate OTP"))
		return
	}

	if err := h.mailer.SendOTPEmail(r.Context(), req.Email, code); err != nil {
		log.Printf("[SendOTP] mail to %s failed: %v", req.Email, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to send OTP email"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewMessageResponse("OTP sent to email"))
}

func (h *IDCardHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if req.Email == "" || req.OTP == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Email and OTP required"))
		return
	}

	if err := h.otp.Verify(req.Email, req.OTP); err != nil {
		if err == services.ErrOTPExpired {
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("OTP expired"))
			return
		}
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid OTP"))
		return
	}

	ctx, cancel := storeContext(r.Context())
	defer cancel()

	player, err := h.players.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == services.ErrPlayerNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Player not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to look up player"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(player))
}

func (h *IDCardHandler) SearchPlayer(w http.ResponseWriter, r *http.Request) {
	var req models.SearchPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if req.PlayerID == "" || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Player ID and email required"))
		return
	}

	ctx, cancel := storeContext(r.Context())
	defer cancel()

	player, err := h.players.FindByIDAndEmail(ctx, req.PlayerID, req.Email)
	if err != nil {
		if err == services.ErrPlayerNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Player not found or email does not match"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to search player"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(player))
}
