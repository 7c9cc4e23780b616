package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parasports/idcard/internal/config"
	"github.com/parasports/idcard/internal/models"
	"github.com/parasports/idcard/internal/services"
)

type stubMailer struct {
	mu       sync.Mutex
	lastTo   string
	lastCode string
	fail     bool
}

func (m *stubMailer) SendOTPEmail(ctx context.Context, to string, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("mailer down")
	}
	m.lastTo = to
	m.lastCode = code
	return nil
}

func (m *stubMailer) sent() (string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastTo, m.lastCode
}

type idcardFixture struct {
	router  chi.Router
	players *services.FilePlayerService
	mailer  *stubMailer
}

func newIDCardFixture(t *testing.T) *idcardFixture {
	t.Helper()

	players, err := services.NewFilePlayerService(t.TempDir())
	require.NoError(t, err)

	cardCfg := config.CardConfig{
		AssetDir:  t.TempDir(),
		LogoLeft:  "logo1.png",
		LogoRight: "logo2.png",
		Banner:    "graditext.png",
		Title:     "PARA SPORTS ASSOCIATION OF GUJARAT",
		OutputDir: t.TempDir(),
	}
	cards := services.NewIDCardService(cardCfg)
	require.NoError(t, cards.EnsureOutputDir())

	otp := services.NewOTPService(5 * time.Minute)
	t.Cleanup(otp.Close)

	mailer := &stubMailer{}
	h := NewIDCardHandler(players, cards, otp, mailer, cardCfg.OutputDir)

	r := chi.NewRouter()
	r.Post("/api/idcards/generate", h.GenerateCard)
	r.Get("/api/idcards/download/{playerId}", h.DownloadCard)
	r.Post("/api/idcards/send-otp", h.SendOTP)
	r.Post("/api/idcards/verify-otp", h.VerifyOTP)
	r.Post("/api/idcards/search", h.SearchPlayer)

	return &idcardFixture{router: r, players: players, mailer: mailer}
}

func (f *idcardFixture) post(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *idcardFixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *idcardFixture) seedPlayer(t *testing.T) *models.Player {
	t.Helper()
	p := &models.Player{
		FirstName:    "Asha",
		LastName:     "Parmar",
		Email:        "asha@example.com",
		PrimarySport: "Athletics",
	}
	require.NoError(t, f.players.Create(context.Background(), p))
	return p
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestGenerateCard(t *testing.T) {
	f := newIDCardFixture(t)
	p := f.seedPlayer(t)

	rec := f.post(t, "/api/idcards/generate", models.GenerateCardRequest{PlayerID: p.PlayerID})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	path, _ := data["idCardPath"].(string)
	assert.True(t, strings.HasPrefix(path, "/idcards/idcard_"+p.PlayerID+"_"))
	assert.True(t, strings.HasSuffix(path, ".pdf"))

	// The registry now points at the generated card.
	stored, err := f.players.GetByPlayerID(context.Background(), p.PlayerID)
	require.NoError(t, err)
	assert.True(t, stored.IDCardGenerated)
	assert.Equal(t, path, stored.IDCardPath)
}

func TestGenerateCardUnknownPlayer(t *testing.T) {
	f := newIDCardFixture(t)

	rec := f.post(t, "/api/idcards/generate", models.GenerateCardRequest{PlayerID: "GJ9999"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).Success)
}

func TestGenerateCardMissingPlayerID(t *testing.T) {
	f := newIDCardFixture(t)

	rec := f.post(t, "/api/idcards/generate", models.GenerateCardRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadCard(t *testing.T) {
	f := newIDCardFixture(t)
	p := f.seedPlayer(t)

	require.Equal(t, http.StatusCreated,
		f.post(t, "/api/idcards/generate", models.GenerateCardRequest{PlayerID: p.PlayerID}).Code)

	rec := f.get(t, "/api/idcards/download/"+p.PlayerID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Para_Sports_ID_Card_"+p.PlayerID+".pdf")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestDownloadCardBeforeGeneration(t *testing.T) {
	f := newIDCardFixture(t)
	p := f.seedPlayer(t)

	rec := f.get(t, "/api/idcards/download/"+p.PlayerID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadCardUnknownPlayer(t *testing.T) {
	f := newIDCardFixture(t)

	rec := f.get(t, "/api/idcards/download/GJ9999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendAndVerifyOTP(t *testing.T) {
	f := newIDCardFixture(t)
	p := f.seedPlayer(t)

	rec := f.post(t, "/api/idcards/send-otp", models.SendOTPRequest{Email: p.Email})
	require.Equal(t, http.StatusOK, rec.Code)

	to, code := f.mailer.sent()
	assert.Equal(t, p.Email, to)
	require.Len(t, code, 6)

	rec = f.post(t, "/api/idcards/verify-otp", models.VerifyOTPRequest{Email: p.Email, OTP: code})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec)
	require.True(t, resp.Success)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, p.PlayerID, data["playerId"])
}

func TestSendOTPUnknownEmail(t *testing.T) {
	f := newIDCardFixture(t)

	rec := f.post(t, "/api/idcards/send-otp", models.SendOTPRequest{Email: "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendOTPMailerFailure(t *testing.T) {
	f := newIDCardFixture(t)
	p := f.seedPlayer(t)
	f.mailer.fail = true

	rec := f.post(t, "/api/idcards/send-otp", models.SendOTPRequest{Email: p.Email})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	f := newIDCardFixture(t)
	p := f.seedPlayer(t)

	require.Equal(t, http.StatusOK,
		f.post(t, "/api/idcards/send-otp", models.SendOTPRequest{Email: p.Email}).Code)

	rec := f.post(t, "/api/idcards/verify-otp", models.VerifyOTPRequest{Email: p.Email, OTP: "000000"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyOTPIsSingleUse(t *testing.T) {
	f := newIDCardFixture(t)
	p := f.seedPlayer(t)

	require.Equal(t, http.StatusOK,
		f.post(t, "/api/idcards/send-otp", models.SendOTPRequest{Email: p.Email}).Code)
	_, code := f.mailer.sent()

	require.Equal(t, http.StatusOK,
		f.post(t, "/api/idcards/verify-otp", models.VerifyOTPRequest{Email: p.Email, OTP: code}).Code)

	rec := f.post(t, "/api/idcards/verify-otp", models.VerifyOTPRequest{Email: p.Email, OTP: code})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSearchPlayer(t *testing.T) {
	f := newIDCardFixture(t)
	p := f.seedPlayer(t)

	rec := f.post(t, "/api/idcards/search", models.SearchPlayerRequest{PlayerID: p.PlayerID, Email: p.Email})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.post(t, "/api/idcards/search", models.SearchPlayerRequest{PlayerID: p.PlayerID, Email: "wrong@example.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
